package pricing

import (
    "fmt"
    "net/url"
    "strings"

    "github.com/lithammer/shortuuid/v3"

    "github.com/iliyamo/venue-booking/internal/apperr"
)

// Share is one person's part of a split payment.
type Share struct {
    Person int    `json:"person"` // 1-based
    Amount int64  `json:"amount"`
    Link   string `json:"link"`
}

// SplitPlan divides a total into per-person shares that sum to the total
// exactly.  It is derived on demand and never stored.
type SplitPlan struct {
    VenueID uint64  `json:"venue_id"`
    Total   int64   `json:"total"`
    People  int     `json:"people"`
    Shares  []Share `json:"shares"`
}

// LinkBuilder renders shareable payment links.  Links are informational;
// they are not backed by a payment-link provider.
type LinkBuilder struct {
    BaseURL string
}

// Link returns the link for one share.  The ref parameter is a short id
// derived from venue, person and amount, so the same share always gets
// the same link.
func (b LinkBuilder) Link(venueID uint64, person int, amount int64) string {
    base := strings.TrimRight(b.BaseURL, "/")
    q := url.Values{}
    q.Set("amount", fmt.Sprint(amount))
    q.Set("ref", shortuuid.NewWithNamespace(fmt.Sprintf("split/%d/%d/%d", venueID, person, amount)))
    return fmt.Sprintf("%s/pay/%d/%d?%s", base, venueID, person, q.Encode())
}

// MakeSplitPlan divides total between n people.  Every share but the last
// is ceil(total/n), capped by what is left; the last share takes the
// remainder.  n must be between 1 and total.
func MakeSplitPlan(venueID uint64, total int64, n int, links LinkBuilder) (SplitPlan, error) {
    if n < 1 {
        return SplitPlan{}, apperr.Invariant("split count must be at least 1")
    }
    if total <= 0 {
        return SplitPlan{}, apperr.Invariant("split total must be positive")
    }
    if int64(n) > total {
        return SplitPlan{}, apperr.Invariant(fmt.Sprintf("cannot split %d between %d people", total, n))
    }

    base := (total + int64(n) - 1) / int64(n)
    plan := SplitPlan{VenueID: venueID, Total: total, People: n, Shares: make([]Share, 0, n)}
    remaining := total
    for i := 1; i <= n; i++ {
        amount := remaining
        if i < n && base < remaining {
            amount = base
        }
        remaining -= amount
        plan.Shares = append(plan.Shares, Share{
            Person: i,
            Amount: amount,
            Link:   links.Link(venueID, i, amount),
        })
    }
    return plan, nil
}
