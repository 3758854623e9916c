package session

import (
    "context"
    "encoding/json"
    "sync"
    "time"

    "github.com/iliyamo/venue-booking/internal/model"
    "github.com/iliyamo/venue-booking/internal/pricing"
)

type memValue struct {
    data    []byte
    expires time.Time
}

// MemoryStore is an in-process Store.  It is used when Redis is not
// configured and in tests.  Values are stored encoded so callers never
// share memory with the store.
type MemoryStore struct {
    mu        sync.Mutex
    ttl       time.Duration
    submitTTL time.Duration
    now       func() time.Time
    vals      map[string]memValue
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
    if ttl <= 0 {
        ttl = DefaultTTL
    }
    return &MemoryStore{ttl: ttl, submitTTL: DefaultSubmitTTL, now: time.Now, vals: make(map[string]memValue)}
}

func (m *MemoryStore) get(k string) ([]byte, bool) {
    m.mu.Lock()
    defer m.mu.Unlock()
    v, ok := m.vals[k]
    if !ok {
        return nil, false
    }
    if m.now().After(v.expires) {
        delete(m.vals, k)
        return nil, false
    }
    return v.data, true
}

func (m *MemoryStore) set(k string, data []byte, ttl time.Duration) {
    m.mu.Lock()
    m.vals[k] = memValue{data: data, expires: m.now().Add(ttl)}
    m.mu.Unlock()
}

func (m *MemoryStore) del(keys ...string) {
    m.mu.Lock()
    for _, k := range keys {
        delete(m.vals, k)
    }
    m.mu.Unlock()
}

func (m *MemoryStore) LoadSelection(_ context.Context, sid string) (*model.Selection, error) {
    b, ok := m.get(key(sid, "selection"))
    if !ok {
        return nil, ErrNotFound
    }
    var sel model.Selection
    if err := json.Unmarshal(b, &sel); err != nil {
        return nil, err
    }
    return &sel, nil
}

func (m *MemoryStore) SaveSelection(_ context.Context, sid string, sel *model.Selection) error {
    b, err := json.Marshal(sel)
    if err != nil {
        return err
    }
    m.set(key(sid, "selection"), b, m.ttl)
    return nil
}

func (m *MemoryStore) ClearSelection(_ context.Context, sid string) error {
    m.del(key(sid, "selection"), key(sid, "referral"))
    return nil
}

func (m *MemoryStore) LoadReferral(_ context.Context, sid string) (*pricing.Referral, error) {
    b, ok := m.get(key(sid, "referral"))
    if !ok {
        return nil, nil
    }
    var ref pricing.Referral
    if err := json.Unmarshal(b, &ref); err != nil {
        return nil, err
    }
    return &ref, nil
}

func (m *MemoryStore) SaveReferral(_ context.Context, sid string, ref pricing.Referral) error {
    b, err := json.Marshal(ref)
    if err != nil {
        return err
    }
    m.set(key(sid, "referral"), b, m.ttl)
    return nil
}

func (m *MemoryStore) AcquireSubmit(_ context.Context, sid string) (bool, error) {
    k := key(sid, "submit")
    m.mu.Lock()
    defer m.mu.Unlock()
    if v, ok := m.vals[k]; ok && !m.now().After(v.expires) {
        return false, nil
    }
    m.vals[k] = memValue{data: []byte("1"), expires: m.now().Add(m.submitTTL)}
    return true, nil
}

func (m *MemoryStore) ReleaseSubmit(_ context.Context, sid string) error {
    m.del(key(sid, "submit"))
    return nil
}

func (m *MemoryStore) SaveDraft(_ context.Context, sid string, draft json.RawMessage) error {
    cp := make([]byte, len(draft))
    copy(cp, draft)
    m.set(key(sid, "draft"), cp, m.ttl)
    return nil
}

func (m *MemoryStore) LoadDraft(_ context.Context, sid string) (json.RawMessage, error) {
    b, ok := m.get(key(sid, "draft"))
    if !ok {
        return nil, ErrNotFound
    }
    return json.RawMessage(b), nil
}

func (m *MemoryStore) ClearDraft(_ context.Context, sid string) error {
    m.del(key(sid, "draft"))
    return nil
}
