// Package session keeps per-session checkout and onboarding state: the
// current Selection, the applied referral, the submit guard and the
// owner-registration draft.  State is scoped to one session id and never
// shared between sessions.
package session

import (
    "context"
    "encoding/json"
    "errors"
    "time"

    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/venue-booking/internal/model"
    "github.com/iliyamo/venue-booking/internal/pricing"
)

// ErrNotFound is returned when the session holds no value for a key.
var ErrNotFound = errors.New("session: not found")

// DefaultTTL bounds how long idle session state is kept.
const DefaultTTL = 24 * time.Hour

// DefaultSubmitTTL bounds the submit guard so a crashed request cannot
// block a session forever.
const DefaultSubmitTTL = time.Minute

// submitMargin covers the storage and broker calls around the payment.
const submitMargin = 30 * time.Second

// SubmitTTLFor sizes the submit guard for a payment timeout.  The guard
// must outlive the charge, so it is the timeout plus a margin and never
// less than DefaultSubmitTTL.
func SubmitTTLFor(paymentTimeout time.Duration) time.Duration {
    if d := paymentTimeout + submitMargin; d > DefaultSubmitTTL {
        return d
    }
    return DefaultSubmitTTL
}

// Store is the session-scoped state used by checkout and onboarding.
type Store interface {
    LoadSelection(ctx context.Context, sid string) (*model.Selection, error)
    SaveSelection(ctx context.Context, sid string, sel *model.Selection) error
    // ClearSelection drops the selection together with any applied referral.
    ClearSelection(ctx context.Context, sid string) error

    // LoadReferral returns nil and no error when no referral is applied.
    LoadReferral(ctx context.Context, sid string) (*pricing.Referral, error)
    SaveReferral(ctx context.Context, sid string, ref pricing.Referral) error

    // AcquireSubmit returns false when a submit is already in flight.
    AcquireSubmit(ctx context.Context, sid string) (bool, error)
    ReleaseSubmit(ctx context.Context, sid string) error

    SaveDraft(ctx context.Context, sid string, draft json.RawMessage) error
    LoadDraft(ctx context.Context, sid string) (json.RawMessage, error)
    ClearDraft(ctx context.Context, sid string) error
}

// New returns a Redis-backed store, or an in-process store when rdb is nil.
// submitTTL is the lifetime of the submit guard; zero means
// DefaultSubmitTTL.
func New(rdb *redis.Client, ttl, submitTTL time.Duration) Store {
    if ttl <= 0 {
        ttl = DefaultTTL
    }
    if submitTTL <= 0 {
        submitTTL = DefaultSubmitTTL
    }
    if rdb == nil {
        m := NewMemoryStore(ttl)
        m.submitTTL = submitTTL
        return m
    }
    r := NewRedisStore(rdb, ttl)
    r.submitTTL = submitTTL
    return r
}
