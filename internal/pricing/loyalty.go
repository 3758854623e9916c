package pricing

// PointsPerUnit is the spend that earns one loyalty point.
const PointsPerUnit = 100

// PointsFor returns the loyalty points earned by a booking total.
func PointsFor(total int64) int64 {
    if total <= 0 {
        return 0
    }
    return total / PointsPerUnit
}

// Tier is a loyalty level.  MaxPoints is -1 for the top tier.
type Tier struct {
    Name      string   `json:"name"`
    MinPoints int64    `json:"min_points"`
    MaxPoints int64    `json:"max_points"`
    Perks     []string `json:"perks"`
}

// Tiers are ordered from lowest to highest.
var Tiers = []Tier{
    {Name: "Bronze Vibe", MinPoints: 0, MaxPoints: 499, Perks: []string{"Exclusive Newsletter", "Early Access to Select Events", "Basic Support"}},
    {Name: "Silver Spark", MinPoints: 500, MaxPoints: 1499, Perks: []string{"All Bronze Perks", "Priority Booking Window", "Small Birthday Treat", "5% Off Select Bookings"}},
    {Name: "Gold Glow", MinPoints: 1500, MaxPoints: 2999, Perks: []string{"All Silver Perks", "Complimentary Welcome Drink (Selected Venues)", "Dedicated Support Line", "10% Off All Bookings"}},
    {Name: "Platinum Pulse", MinPoints: 3000, MaxPoints: -1, Perks: []string{"All Gold Perks", "Guaranteed Table (with 24hr notice)", "Exclusive Event Invites", "Annual VIP Gift Box", "Personal Concierge Access"}},
}

// TierFor returns the tier for a points balance.
func TierFor(points int64) Tier {
    tier := Tiers[0]
    for _, t := range Tiers {
        if points >= t.MinPoints {
            tier = t
        }
    }
    return tier
}

// NextTier returns the tier after the one points falls in and how many
// points are still needed.  ok is false at the top tier.
func NextTier(points int64) (next Tier, needed int64, ok bool) {
    for _, t := range Tiers {
        if t.MinPoints > points {
            return t, t.MinPoints - points, true
        }
    }
    return Tier{}, 0, false
}
