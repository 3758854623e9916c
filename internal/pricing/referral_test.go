package pricing

import (
    "context"
    "errors"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestCatalogApply(t *testing.T) {
    c := DefaultCatalog()

    res := c.Apply("  vip2025 ")
    require.True(t, res.Valid)
    assert.Equal(t, "VIP2025", res.Referral.Code)
    assert.Equal(t, 10, res.Referral.DiscountPct)
    assert.Equal(t, []string{"10% Discount Applied"}, res.Referral.Perks)

    res = c.Apply("LagosVip10")
    assert.True(t, res.Valid)

    res = c.Apply("NOPE")
    assert.False(t, res.Valid)
    assert.Empty(t, res.Referral.Code)
}

func TestInvalidCodeLeavesTotal(t *testing.T) {
    p := DefaultPolicy()
    sel := ticketOnly(15000)
    before := p.ComputeTotal(sel, nil)

    res := DefaultCatalog().Apply("bogus")
    require.False(t, res.Valid)
    assert.Equal(t, before, p.ComputeTotal(sel, nil))
}

func TestActivateIsIdempotent(t *testing.T) {
    c := DefaultCatalog()
    p := DefaultPolicy()
    sel := ticketOnly(15000)

    vip, _ := c.Lookup("VIP2025")
    active, changed := Activate(nil, vip)
    assert.True(t, changed)
    once := p.ComputeTotal(sel, &active)

    again, changed := Activate(&active, vip)
    assert.False(t, changed)
    assert.Equal(t, once, p.ComputeTotal(sel, &again))
}

func TestActivateLastAppliedWins(t *testing.T) {
    c := NewCatalog(
        Referral{Code: "TEN", DiscountPct: 10},
        Referral{Code: "TWENTY", DiscountPct: 20},
    )
    ten, _ := c.Lookup("ten")
    twenty, _ := c.Lookup("twenty")

    active, _ := Activate(nil, ten)
    active, changed := Activate(&active, twenty)
    assert.True(t, changed)
    assert.Equal(t, 20, active.DiscountPct)
}

func TestParseCatalog(t *testing.T) {
    c, err := ParseCatalog("VIP2025:10:Free Welcome Drink| Priority Queue ,student:5,")
    require.NoError(t, err)
    assert.Equal(t, 2, c.Len())

    r, ok := c.Lookup("Student")
    require.True(t, ok)
    assert.Equal(t, 5, r.DiscountPct)
    assert.Empty(t, r.Perks)

    r, _ = c.Lookup("vip2025")
    assert.Equal(t, []string{"Free Welcome Drink", "Priority Queue"}, r.Perks)

    _, err = ParseCatalog("BROKEN")
    assert.Error(t, err)
    _, err = ParseCatalog("X:150")
    assert.Error(t, err)
}

type mapSource struct {
    codes map[string]Referral
    err   error
    asked []string
}

func (m *mapSource) FindReferral(_ context.Context, code string) (Referral, bool, error) {
    m.asked = append(m.asked, code)
    r, ok := m.codes[code]
    return r, ok, m.err
}

func TestResolveReadsThroughSource(t *testing.T) {
    src := &mapSource{codes: map[string]Referral{"SUMMER": {Code: "SUMMER", DiscountPct: 20}}}
    c := DefaultCatalog().WithSource(src)
    ctx := context.Background()

    res, err := c.Resolve(ctx, " summer ")
    require.NoError(t, err)
    require.True(t, res.Valid)
    assert.Equal(t, 20, res.Referral.DiscountPct)

    // Static codes only seed the source; a code deleted there is gone.
    res, err = c.Resolve(ctx, "VIP2025")
    require.NoError(t, err)
    assert.False(t, res.Valid)
    assert.Equal(t, []string{"SUMMER", "VIP2025"}, src.asked)

    res, err = c.Resolve(ctx, "   ")
    require.NoError(t, err)
    assert.False(t, res.Valid)
    assert.Len(t, src.asked, 2)

    src.err = errors.New("db down")
    _, err = c.Resolve(ctx, "SUMMER")
    assert.Error(t, err)

    assert.Len(t, c.Referrals(), 2)
    assert.Equal(t, "LAGOSVIP10", c.Referrals()[0].Code)
}

func TestResolveWithoutSourceUsesStaticCodes(t *testing.T) {
    res, err := DefaultCatalog().Resolve(context.Background(), "lagosvip10")
    require.NoError(t, err)
    assert.True(t, res.Valid)
}
