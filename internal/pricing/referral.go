package pricing

import (
    "context"
    "fmt"
    "sort"
    "strconv"
    "strings"

    "github.com/samber/lo"
)

// Referral is a global discount code with the perks it unlocks.
type Referral struct {
    Code        string   `json:"code"`
    DiscountPct int      `json:"discount_pct"`
    Perks       []string `json:"perks"`
}

// Result is the outcome of looking a code up.  Referral is zero when
// Valid is false.
type Result struct {
    Valid    bool     `json:"valid"`
    Referral Referral `json:"referral"`
}

// Source is a mutable store of referral codes, such as the admin-managed
// referral_codes table.  code is already normalized.
type Source interface {
    FindReferral(ctx context.Context, code string) (Referral, bool, error)
}

// Catalog is the lookup table of referral codes.  Codes match
// case-insensitively after trimming.  A catalog with a Source reads every
// lookup through it; the static codes then only seed the source.
type Catalog struct {
    codes  map[string]Referral
    source Source
}

// NewCatalog builds a catalog from refs.  Later entries win on duplicate
// codes.
func NewCatalog(refs ...Referral) *Catalog {
    c := &Catalog{codes: make(map[string]Referral, len(refs))}
    for _, r := range refs {
        r.Code = NormalizeCode(r.Code)
        if r.Code == "" {
            continue
        }
        c.codes[r.Code] = r
    }
    return c
}

// DefaultCatalog holds the launch codes.
func DefaultCatalog() *Catalog {
    return NewCatalog(
        Referral{Code: "VIP2025", DiscountPct: 10, Perks: []string{"10% Discount Applied"}},
        Referral{Code: "LAGOSVIP10", DiscountPct: 10, Perks: []string{"10% Discount Applied"}},
    )
}

// ParseCatalog reads entries of the form CODE:PCT[:perk|perk] separated
// by commas, e.g. "VIP2025:10:Free Shot|Skip Line,STUDENT:5".
func ParseCatalog(s string) (*Catalog, error) {
    var refs []Referral
    for _, entry := range strings.Split(s, ",") {
        entry = strings.TrimSpace(entry)
        if entry == "" {
            continue
        }
        parts := strings.SplitN(entry, ":", 3)
        if len(parts) < 2 {
            return nil, fmt.Errorf("referral %q: want CODE:PCT", entry)
        }
        pct, err := strconv.Atoi(strings.TrimSpace(parts[1]))
        if err != nil || pct < 0 || pct > 100 {
            return nil, fmt.Errorf("referral %q: discount must be 0-100", entry)
        }
        r := Referral{Code: parts[0], DiscountPct: pct}
        if len(parts) == 3 {
            perks := lo.Map(strings.Split(parts[2], "|"), func(p string, _ int) string { return strings.TrimSpace(p) })
            r.Perks = lo.Filter(perks, func(p string, _ int) bool { return p != "" })
        }
        refs = append(refs, r)
    }
    return NewCatalog(refs...), nil
}

// NormalizeCode upper-cases and trims a user-entered code.
func NormalizeCode(code string) string {
    return strings.ToUpper(strings.TrimSpace(code))
}

// Lookup returns the referral for code.
func (c *Catalog) Lookup(code string) (Referral, bool) {
    if c == nil {
        return Referral{}, false
    }
    r, ok := c.codes[NormalizeCode(code)]
    return r, ok
}

// Apply looks code up and reports whether it is valid.
func (c *Catalog) Apply(code string) Result {
    r, ok := c.Lookup(code)
    if !ok {
        return Result{}
    }
    return Result{Valid: true, Referral: r}
}

// WithSource returns a catalog that resolves codes through src and keeps
// c's codes as the seed set.
func (c *Catalog) WithSource(src Source) *Catalog {
    out := &Catalog{codes: map[string]Referral{}, source: src}
    if c != nil {
        out.codes = c.codes
    }
    return out
}

// Resolve looks code up in the source when there is one and in the static
// table otherwise.
func (c *Catalog) Resolve(ctx context.Context, code string) (Result, error) {
    if c == nil || c.source == nil {
        return c.Apply(code), nil
    }
    norm := NormalizeCode(code)
    if norm == "" {
        return Result{}, nil
    }
    r, ok, err := c.source.FindReferral(ctx, norm)
    if err != nil || !ok {
        return Result{}, err
    }
    return Result{Valid: true, Referral: r}, nil
}

// Referrals returns the static codes ordered by code.
func (c *Catalog) Referrals() []Referral {
    if c == nil {
        return nil
    }
    out := make([]Referral, 0, len(c.codes))
    for _, r := range c.codes {
        out = append(out, r)
    }
    sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
    return out
}

// Len returns the number of codes in the catalog.
func (c *Catalog) Len() int {
    if c == nil {
        return 0
    }
    return len(c.codes)
}

// Activate decides which referral is active after next is applied on top
// of current.  Re-applying the active code changes nothing; a different
// code replaces it.
func Activate(current *Referral, next Referral) (Referral, bool) {
    if current != nil && current.Code == next.Code {
        return *current, false
    }
    return next, true
}
