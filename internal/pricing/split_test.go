package pricing

import (
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/venue-booking/internal/apperr"
)

var testLinks = LinkBuilder{BaseURL: "https://pay.example.com/"}

func TestScenarioC(t *testing.T) {
    plan, err := MakeSplitPlan(7, 100000, 3, testLinks)
    require.NoError(t, err)

    amounts := make([]int64, 0, len(plan.Shares))
    for _, s := range plan.Shares {
        amounts = append(amounts, s.Amount)
    }
    assert.Equal(t, []int64{33334, 33334, 33332}, amounts)
    assert.Contains(t, plan.Shares[0].Link, "https://pay.example.com/pay/7/1?amount=33334&ref=")
    assert.Contains(t, plan.Shares[2].Link, "/pay/7/3?amount=33332&ref=")
}

func TestSplitSumsExactly(t *testing.T) {
    for _, total := range []int64{1, 2, 7, 10, 25, 99, 100, 101} {
        for n := 1; int64(n) <= total; n++ {
            plan, err := MakeSplitPlan(1, total, n, testLinks)
            require.NoError(t, err, "total=%d n=%d", total, n)
            require.Len(t, plan.Shares, n)

            var sum int64
            for _, s := range plan.Shares {
                assert.GreaterOrEqual(t, s.Amount, int64(0), "total=%d n=%d", total, n)
                sum += s.Amount
            }
            assert.Equal(t, total, sum, "total=%d n=%d", total, n)
        }
    }
}

func TestSplitGuards(t *testing.T) {
    for _, tc := range []struct {
        name  string
        total int64
        n     int
    }{
        {"zero people", 100, 0},
        {"negative people", 100, -2},
        {"zero total", 0, 1},
        {"negative total", -5, 1},
        {"more people than units", 3, 4},
    } {
        t.Run(tc.name, func(t *testing.T) {
            _, err := MakeSplitPlan(1, tc.total, tc.n, testLinks)
            assert.ErrorIs(t, err, apperr.ErrInvariant)
        })
    }
}

func TestSplitLinksAreDeterministic(t *testing.T) {
    a := testLinks.Link(9, 2, 500)
    b := testLinks.Link(9, 2, 500)
    c := testLinks.Link(9, 3, 500)
    assert.Equal(t, a, b)
    assert.NotEqual(t, a, c)
}
