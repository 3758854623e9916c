package model

import "time"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
    BookingStatusConfirmed BookingStatus = "confirmed"
    BookingStatusPending   BookingStatus = "pending"
    BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking is the durable record of a completed checkout.  It stores a
// copy of the selection taken at submission time, so later edits to the
// venue's offers never change a booking.  Only Status may change after
// creation, and only from confirmed to cancelled.
//
// Fields:
//  ID            – primary key identifier.
//  UserID        – customer account, nil for guest checkouts.
//  SessionID     – session that performed the checkout.
//  VenueID       – venue booked.
//  VenueName     – copy of the venue name.
//  Selection     – frozen copy of the ticket/table choice.
//  Subtotal      – ticket + table price.
//  ServiceFee    – fee amount charged on top of Subtotal.
//  DiscountPct   – referral discount percentage, 0 when none.
//  TotalAmount   – amount charged, rounded once.
//  CustomerName, Email, Phone – contact fields from the checkout form.
//  ReferralCode  – code used, nil when none.
//  Perks         – perks unlocked by this booking.
//  LoyaltyPoints – points accrued.
//  PaymentRef    – processor receipt reference.
//  Status        – lifecycle status.
//  CreatedAt     – timestamp of creation.
type Booking struct {
    ID            uint64        `json:"id"`
    UserID        *uint64       `json:"user_id,omitempty"`
    SessionID     string        `json:"-"`
    VenueID       uint64        `json:"venue_id"`
    VenueName     string        `json:"venue_name"`
    Selection     Selection     `json:"selection"`
    Subtotal      int64         `json:"subtotal"`
    ServiceFee    string        `json:"service_fee"`
    DiscountPct   int           `json:"discount_pct"`
    TotalAmount   int64         `json:"total_amount"`
    CustomerName  string        `json:"customer_name"`
    Email         string        `json:"email"`
    Phone         string        `json:"phone"`
    ReferralCode  *string       `json:"referral_code,omitempty"`
    Perks         []string      `json:"perks"`
    LoyaltyPoints int64         `json:"loyalty_points"`
    PaymentRef    string        `json:"payment_ref"`
    Status        BookingStatus `json:"status"`
    CreatedAt     time.Time     `json:"created_at"`
}
