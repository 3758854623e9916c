package model

import (
    "strings"
    "time"
    "unicode"
)

// VenueStatus is the lifecycle state of a venue row.  Venues are created
// pending and move exactly once to approved or rejected.
type VenueStatus string

const (
    VenueStatusPending  VenueStatus = "pending"
    VenueStatusApproved VenueStatus = "approved"
    VenueStatusRejected VenueStatus = "rejected"
)

// Valid reports whether s is one of the known statuses.
func (s VenueStatus) Valid() bool {
    switch s {
    case VenueStatusPending, VenueStatusApproved, VenueStatusRejected:
        return true
    }
    return false
}

// HasControlChars reports whether s contains a control character such as
// CR or LF.  Venue names end up in email subjects and must stay on one line.
func HasControlChars(s string) bool {
    return strings.IndexFunc(s, unicode.IsControl) >= 0
}

// Venue represents a bookable location (club, lounge, restaurant) owned
// by a single venue owner.  It corresponds to a row in the `venues`
// table.  Status, ApprovedAt and RejectionReason are written only by the
// approval workflow; the descriptive fields may be edited by the owner.
//
// Fields:
//  ID              – primary key identifier.
//  OwnerID         – venue_owners.user_id of the owner.
//  Name            – display name.
//  Description     – free text shown on the venue page.
//  Location        – neighbourhood or city label.
//  Address         – street address.
//  VenueType       – category label such as club or lounge.
//  Phone, Email    – public contact details.
//  OpeningHours    – free text opening hours.
//  Capacity        – maximum head count.
//  PriceRange      – display price band (e.g. "$$$").
//  Rating          – average rating, 0 when unrated.
//  Status          – lifecycle status.
//  ApprovedAt      – set when an admin approves the venue.
//  RejectionReason – set when an admin rejects the venue.
//  Tickets, Tables – offers, loaded on detail reads only.
type Venue struct {
    ID              uint64      `json:"id"`               // venues.id
    OwnerID         uint64      `json:"owner_id"`         // venues.owner_id
    Name            string      `json:"name"`             // venues.name
    Description     string      `json:"description"`      // venues.description
    Location        string      `json:"location"`         // venues.location
    Address         string      `json:"address"`          // venues.address
    VenueType       string      `json:"venue_type"`       // venues.venue_type
    Phone           string      `json:"phone"`            // venues.phone
    Email           string      `json:"email"`            // venues.email
    OpeningHours    string      `json:"opening_hours"`    // venues.opening_hours
    Capacity        uint32      `json:"capacity"`         // venues.capacity
    PriceRange      string      `json:"price_range"`      // venues.price_range
    Rating          float64     `json:"rating"`           // venues.rating
    Status          VenueStatus `json:"status"`           // venues.status
    ApprovedAt      *time.Time  `json:"approved_at"`      // venues.approved_at (nullable)
    RejectionReason *string     `json:"rejection_reason"` // venues.rejection_reason (nullable)
    Tickets         []Ticket    `json:"tickets,omitempty"`
    Tables          []Table     `json:"tables,omitempty"`
    CreatedAt       time.Time   `json:"created_at"` // venues.created_at
    UpdatedAt       time.Time   `json:"updated_at"` // venues.updated_at
}

// Ticket is an entry-ticket offer of a venue.  Price is in whole
// currency units.
type Ticket struct {
    ID          uint64 `json:"id"`          // venue_tickets.id
    VenueID     uint64 `json:"venue_id"`    // venue_tickets.venue_id
    Name        string `json:"name"`        // venue_tickets.name
    Description string `json:"description"` // venue_tickets.description
    Price       int64  `json:"price"`       // venue_tickets.price
    Capacity    uint32 `json:"capacity"`    // venue_tickets.capacity
}

// Table is a table-reservation offer of a venue.  The date, time and
// guest count are chosen by the customer at selection time and live on
// SelectedTable, not here.
type Table struct {
    ID          uint64 `json:"id"`          // venue_tables.id
    VenueID     uint64 `json:"venue_id"`    // venue_tables.venue_id
    Name        string `json:"name"`        // venue_tables.name
    Description string `json:"description"` // venue_tables.description
    Price       int64  `json:"price"`       // venue_tables.price
    MinGuests   uint32 `json:"min_guests"`  // venue_tables.min_guests
    MaxGuests   uint32 `json:"max_guests"`  // venue_tables.max_guests
}

// PendingVenue is a venue awaiting review joined with its owner's contact
// details, as shown in the admin approval queue.
type PendingVenue struct {
    Venue
    OwnerName  string `json:"owner_name"`
    OwnerEmail string `json:"owner_email"`
}
