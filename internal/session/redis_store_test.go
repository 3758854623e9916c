package session

import (
    "context"
    "encoding/json"
    "testing"
    "time"

    "github.com/go-redis/redismock/v9"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/venue-booking/internal/model"
    "github.com/iliyamo/venue-booking/internal/pricing"
)

func sampleSelection() *model.Selection {
    return &model.Selection{
        VenueID:   7,
        VenueName: "Quilox",
        Ticket:    &model.SelectedTicket{ID: 3, Name: "General", Price: 15000},
        CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
    }
}

func TestRedisStoreSelectionRoundTrip(t *testing.T) {
    db, mock := redismock.NewClientMock()
    store := NewRedisStore(db, time.Hour)
    ctx := context.Background()

    sel := sampleSelection()
    raw, err := json.Marshal(sel)
    require.NoError(t, err)

    mock.ExpectSet("sess:abc:selection", string(raw), time.Hour).SetVal("OK")
    mock.ExpectGet("sess:abc:selection").SetVal(string(raw))
    mock.ExpectDel("sess:abc:selection", "sess:abc:referral").SetVal(2)
    mock.ExpectGet("sess:abc:selection").RedisNil()

    require.NoError(t, store.SaveSelection(ctx, "abc", sel))

    got, err := store.LoadSelection(ctx, "abc")
    require.NoError(t, err)
    assert.Equal(t, sel, got)

    require.NoError(t, store.ClearSelection(ctx, "abc"))

    _, err = store.LoadSelection(ctx, "abc")
    assert.ErrorIs(t, err, ErrNotFound)

    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStoreReferral(t *testing.T) {
    db, mock := redismock.NewClientMock()
    store := NewRedisStore(db, time.Hour)
    ctx := context.Background()

    mock.ExpectGet("sess:s1:referral").RedisNil()
    ref, err := store.LoadReferral(ctx, "s1")
    require.NoError(t, err)
    assert.Nil(t, ref)

    vip := pricing.Referral{Code: "VIP2025", DiscountPct: 10, Perks: []string{"10% Discount Applied"}}
    raw, _ := json.Marshal(vip)
    mock.ExpectSet("sess:s1:referral", string(raw), time.Hour).SetVal("OK")
    mock.ExpectGet("sess:s1:referral").SetVal(string(raw))

    require.NoError(t, store.SaveReferral(ctx, "s1", vip))
    ref, err = store.LoadReferral(ctx, "s1")
    require.NoError(t, err)
    assert.Equal(t, &vip, ref)

    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStoreSubmitGuard(t *testing.T) {
    db, mock := redismock.NewClientMock()
    store := NewRedisStore(db, time.Hour)
    ctx := context.Background()

    mock.ExpectSetNX("sess:s1:submit", "1", DefaultSubmitTTL).SetVal(true)
    mock.ExpectSetNX("sess:s1:submit", "1", DefaultSubmitTTL).SetVal(false)
    mock.ExpectDel("sess:s1:submit").SetVal(1)

    ok, err := store.AcquireSubmit(ctx, "s1")
    require.NoError(t, err)
    assert.True(t, ok)

    ok, err = store.AcquireSubmit(ctx, "s1")
    require.NoError(t, err)
    assert.False(t, ok)

    require.NoError(t, store.ReleaseSubmit(ctx, "s1"))
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStoreDraft(t *testing.T) {
    db, mock := redismock.NewClientMock()
    store := NewRedisStore(db, time.Hour)
    ctx := context.Background()

    draft := json.RawMessage(`{"venue_name":"Quilox"}`)
    mock.ExpectSet("sess:s2:draft", string(draft), time.Hour).SetVal("OK")
    mock.ExpectGet("sess:s2:draft").SetVal(string(draft))
    mock.ExpectDel("sess:s2:draft").SetVal(1)
    mock.ExpectGet("sess:s2:draft").RedisNil()

    require.NoError(t, store.SaveDraft(ctx, "s2", draft))
    got, err := store.LoadDraft(ctx, "s2")
    require.NoError(t, err)
    assert.JSONEq(t, string(draft), string(got))

    require.NoError(t, store.ClearDraft(ctx, "s2"))
    _, err = store.LoadDraft(ctx, "s2")
    assert.ErrorIs(t, err, ErrNotFound)

    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitTTLFollowsPaymentTimeout(t *testing.T) {
    assert.Equal(t, DefaultSubmitTTL, SubmitTTLFor(0))
    assert.Equal(t, DefaultSubmitTTL, SubmitTTLFor(10*time.Second))
    assert.Equal(t, 2*time.Minute+30*time.Second, SubmitTTLFor(2*time.Minute))
}

func TestNewAppliesSubmitTTL(t *testing.T) {
    db, mock := redismock.NewClientMock()
    store := New(db, time.Hour, 3*time.Minute)

    mock.ExpectSetNX("sess:s1:submit", "1", 3*time.Minute).SetVal(true)
    ok, err := store.AcquireSubmit(context.Background(), "s1")
    require.NoError(t, err)
    assert.True(t, ok)
    assert.NoError(t, mock.ExpectationsWereMet())

    mem, isMem := New(nil, time.Hour, 0).(*MemoryStore)
    require.True(t, isMem)
    assert.Equal(t, DefaultSubmitTTL, mem.submitTTL)
}
