package session

import (
    "context"
    "encoding/json"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/venue-booking/internal/model"
    "github.com/iliyamo/venue-booking/internal/pricing"
)

func TestMemoryStoreOverwritesSelection(t *testing.T) {
    ctx := context.Background()
    m := NewMemoryStore(time.Hour)

    require.NoError(t, m.SaveSelection(ctx, "s", sampleSelection()))
    next := &model.Selection{VenueID: 7, Table: &model.SelectedTable{ID: 9, Price: 50000, Guests: 6}}
    require.NoError(t, m.SaveSelection(ctx, "s", next))

    got, err := m.LoadSelection(ctx, "s")
    require.NoError(t, err)
    assert.Nil(t, got.Ticket)
    require.NotNil(t, got.Table)
    assert.Equal(t, uint64(9), got.Table.ID)

    _, err = m.LoadSelection(ctx, "other")
    assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreClearDropsReferral(t *testing.T) {
    ctx := context.Background()
    m := NewMemoryStore(time.Hour)

    require.NoError(t, m.SaveSelection(ctx, "s", sampleSelection()))
    require.NoError(t, m.SaveReferral(ctx, "s", pricing.Referral{Code: "VIP2025", DiscountPct: 10}))
    require.NoError(t, m.ClearSelection(ctx, "s"))

    ref, err := m.LoadReferral(ctx, "s")
    require.NoError(t, err)
    assert.Nil(t, ref)
}

func TestMemoryStoreExpiry(t *testing.T) {
    ctx := context.Background()
    m := NewMemoryStore(time.Minute)
    now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
    m.now = func() time.Time { return now }

    require.NoError(t, m.SaveDraft(ctx, "s", json.RawMessage(`{"a":1}`)))
    now = now.Add(2 * time.Minute)
    _, err := m.LoadDraft(ctx, "s")
    assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreSubmitGuard(t *testing.T) {
    ctx := context.Background()
    m := NewMemoryStore(time.Hour)

    ok, _ := m.AcquireSubmit(ctx, "s")
    assert.True(t, ok)
    ok, _ = m.AcquireSubmit(ctx, "s")
    assert.False(t, ok)
    ok, _ = m.AcquireSubmit(ctx, "other")
    assert.True(t, ok)

    require.NoError(t, m.ReleaseSubmit(ctx, "s"))
    ok, _ = m.AcquireSubmit(ctx, "s")
    assert.True(t, ok)
}

func TestNewFallsBackToMemory(t *testing.T) {
    _, ok := New(nil, 0, 0).(*MemoryStore)
    assert.True(t, ok)
}
