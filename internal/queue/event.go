// Package queue defines message payloads exchanged over the message broker
// and the consumers that process them.
package queue

// Queue names.  Both queues are durable.
const (
    BookingQueue      = "booking.confirmed"
    NotificationQueue = "notifications.email"
)

// BookingConfirmedEvent is published when a checkout is confirmed.  It
// carries enough for downstream consumers to log or notify without
// querying the primary database.
type BookingConfirmedEvent struct {
    BookingID     uint64   `json:"booking_id"`
    UserID        *uint64  `json:"user_id,omitempty"`
    VenueID       uint64   `json:"venue_id"`
    VenueName     string   `json:"venue_name"`
    Email         string   `json:"email"`
    TicketName    string   `json:"ticket,omitempty"`
    TableName     string   `json:"table,omitempty"`
    TotalAmount   int64    `json:"total_amount"`
    DiscountPct   int      `json:"discount_pct"`
    ReferralCode  string   `json:"referral_code,omitempty"`
    Perks         []string `json:"perks"`
    LoyaltyPoints int64    `json:"loyalty_points"`
    PaymentRef    string   `json:"payment_ref"`
    ConfirmedAt   string   `json:"confirmed_at"`
}
