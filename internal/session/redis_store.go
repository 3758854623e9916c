package session

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "time"

    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/venue-booking/internal/model"
    "github.com/iliyamo/venue-booking/internal/pricing"
)

// RedisStore keeps session state in Redis under sess:<sid>:<part> keys.
// Each write refreshes the key's TTL.
type RedisStore struct {
    rdb       *redis.Client
    ttl       time.Duration
    submitTTL time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
    return &RedisStore{rdb: rdb, ttl: ttl, submitTTL: DefaultSubmitTTL}
}

func key(sid, part string) string { return "sess:" + sid + ":" + part }

func (s *RedisStore) LoadSelection(ctx context.Context, sid string) (*model.Selection, error) {
    var sel model.Selection
    if err := s.getJSON(ctx, key(sid, "selection"), &sel); err != nil {
        return nil, err
    }
    return &sel, nil
}

func (s *RedisStore) SaveSelection(ctx context.Context, sid string, sel *model.Selection) error {
    return s.setJSON(ctx, key(sid, "selection"), sel, s.ttl)
}

func (s *RedisStore) ClearSelection(ctx context.Context, sid string) error {
    return s.rdb.Del(ctx, key(sid, "selection"), key(sid, "referral")).Err()
}

func (s *RedisStore) LoadReferral(ctx context.Context, sid string) (*pricing.Referral, error) {
    var ref pricing.Referral
    err := s.getJSON(ctx, key(sid, "referral"), &ref)
    if errors.Is(err, ErrNotFound) {
        return nil, nil
    }
    if err != nil {
        return nil, err
    }
    return &ref, nil
}

func (s *RedisStore) SaveReferral(ctx context.Context, sid string, ref pricing.Referral) error {
    return s.setJSON(ctx, key(sid, "referral"), ref, s.ttl)
}

func (s *RedisStore) AcquireSubmit(ctx context.Context, sid string) (bool, error) {
    return s.rdb.SetNX(ctx, key(sid, "submit"), "1", s.submitTTL).Result()
}

func (s *RedisStore) ReleaseSubmit(ctx context.Context, sid string) error {
    return s.rdb.Del(ctx, key(sid, "submit")).Err()
}

func (s *RedisStore) SaveDraft(ctx context.Context, sid string, draft json.RawMessage) error {
    return s.rdb.Set(ctx, key(sid, "draft"), string(draft), s.ttl).Err()
}

func (s *RedisStore) LoadDraft(ctx context.Context, sid string) (json.RawMessage, error) {
    v, err := s.rdb.Get(ctx, key(sid, "draft")).Result()
    if errors.Is(err, redis.Nil) {
        return nil, ErrNotFound
    }
    if err != nil {
        return nil, err
    }
    return json.RawMessage(v), nil
}

func (s *RedisStore) ClearDraft(ctx context.Context, sid string) error {
    return s.rdb.Del(ctx, key(sid, "draft")).Err()
}

func (s *RedisStore) getJSON(ctx context.Context, k string, dst any) error {
    v, err := s.rdb.Get(ctx, k).Result()
    if errors.Is(err, redis.Nil) {
        return ErrNotFound
    }
    if err != nil {
        return err
    }
    if err := json.Unmarshal([]byte(v), dst); err != nil {
        return fmt.Errorf("decode %s: %w", k, err)
    }
    return nil
}

func (s *RedisStore) setJSON(ctx context.Context, k string, v any, ttl time.Duration) error {
    b, err := json.Marshal(v)
    if err != nil {
        return err
    }
    return s.rdb.Set(ctx, k, string(b), ttl).Err()
}
