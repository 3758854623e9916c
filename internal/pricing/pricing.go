// Package pricing computes checkout totals, applies referral discounts and
// divides totals into split-payment plans.  Everything here is pure: the
// same inputs always give the same outputs.
package pricing

import (
    "fmt"
    "strings"

    "github.com/shopspring/decimal"

    "github.com/iliyamo/venue-booking/internal/model"
)

// FeePolicy selects how the service fee is added to the subtotal.  One
// policy is chosen per deployment and applied to every quote.
type FeePolicy string

const (
    FeeFlat    FeePolicy = "flat"    // subtotal + FlatFee
    FeePercent FeePolicy = "percent" // subtotal * (1 + FeeRate)
)

// Rounding selects how the exact total is rounded to whole currency units.
type Rounding string

const (
    RoundHalfUp   Rounding = "half_up"   // 13522.5 -> 13523
    RoundHalfEven Rounding = "half_even" // 13522.5 -> 13522
)

// Policy is the pricing configuration of a deployment.
type Policy struct {
    Fee      FeePolicy
    FlatFee  decimal.Decimal
    FeeRate  decimal.Decimal
    Rounding Rounding
}

// DefaultPolicy is a flat fee of 25 with half-up rounding.
func DefaultPolicy() Policy {
    return Policy{
        Fee:      FeeFlat,
        FlatFee:  decimal.NewFromInt(25),
        FeeRate:  decimal.Zero,
        Rounding: RoundHalfUp,
    }
}

// NewPolicy builds a Policy from its textual configuration.  flat and rate
// are decimal strings; empty strings mean zero.
func NewPolicy(fee, flat, rate, rounding string) (Policy, error) {
    p := Policy{
        Fee:      FeePolicy(strings.ToLower(strings.TrimSpace(fee))),
        Rounding: Rounding(strings.ToLower(strings.TrimSpace(rounding))),
    }
    if p.Rounding == "" {
        p.Rounding = RoundHalfUp
    }
    var err error
    if p.FlatFee, err = parseDecimal(flat); err != nil {
        return Policy{}, fmt.Errorf("service fee: %w", err)
    }
    if p.FeeRate, err = parseDecimal(rate); err != nil {
        return Policy{}, fmt.Errorf("service fee rate: %w", err)
    }
    if err := p.Validate(); err != nil {
        return Policy{}, err
    }
    return p, nil
}

// Validate rejects unknown policies and negative fees.
func (p Policy) Validate() error {
    switch p.Fee {
    case FeeFlat, FeePercent:
    default:
        return fmt.Errorf("unknown fee policy %q", p.Fee)
    }
    switch p.Rounding {
    case RoundHalfUp, RoundHalfEven:
    default:
        return fmt.Errorf("unknown rounding %q", p.Rounding)
    }
    if p.FlatFee.IsNegative() || p.FeeRate.IsNegative() {
        return fmt.Errorf("service fee must not be negative")
    }
    return nil
}

// Quote is the price breakdown of a selection.  Exact holds the unrounded
// total; Total is Exact rounded once.
type Quote struct {
    TicketPrice int64           `json:"ticket_price"`
    TablePrice  int64           `json:"table_price"`
    Subtotal    int64           `json:"subtotal"`
    ServiceFee  decimal.Decimal `json:"service_fee"`
    DiscountPct int             `json:"discount_pct"`
    Exact       decimal.Decimal `json:"exact_total"`
    Total       int64           `json:"total"`
}

// DiscountApplied reports whether a referral discount reduced the total.
func (q Quote) DiscountApplied() bool { return q.DiscountPct > 0 }

// Quote prices sel under p.  ref is the active referral or nil.  An empty
// selection quotes to zero with no fee.
func (p Policy) Quote(sel *model.Selection, ref *Referral) Quote {
    if sel.Empty() {
        return Quote{ServiceFee: decimal.Zero, Exact: decimal.Zero}
    }
    q := Quote{
        TicketPrice: sel.TicketPrice(),
        TablePrice:  sel.TablePrice(),
    }
    q.Subtotal = q.TicketPrice + q.TablePrice

    subtotal := decimal.NewFromInt(q.Subtotal)
    var adjusted decimal.Decimal
    switch p.Fee {
    case FeePercent:
        adjusted = subtotal.Mul(decimal.NewFromInt(1).Add(p.FeeRate))
    default:
        adjusted = subtotal.Add(p.FlatFee)
    }
    q.ServiceFee = adjusted.Sub(subtotal)

    if ref != nil && ref.DiscountPct > 0 {
        q.DiscountPct = ref.DiscountPct
        keep := decimal.New(int64(100-ref.DiscountPct), -2)
        adjusted = adjusted.Mul(keep)
    }
    q.Exact = adjusted
    q.Total = p.round(adjusted)
    return q
}

// ComputeTotal returns only the rounded total of Quote.
func (p Policy) ComputeTotal(sel *model.Selection, ref *Referral) int64 {
    return p.Quote(sel, ref).Total
}

func (p Policy) round(d decimal.Decimal) int64 {
    if p.Rounding == RoundHalfEven {
        return d.RoundBank(0).IntPart()
    }
    return d.Round(0).IntPart()
}

func parseDecimal(s string) (decimal.Decimal, error) {
    s = strings.TrimSpace(s)
    if s == "" {
        return decimal.Zero, nil
    }
    return decimal.NewFromString(s)
}
