package model

import (
    "errors"
    "time"
)

// ErrEmptySelection is returned by Selection.Validate when neither a
// ticket nor a table has been chosen.
var ErrEmptySelection = errors.New("selection has no ticket or table")

// SelectedTicket is a copy of the ticket offer chosen by the customer.
type SelectedTicket struct {
    ID    uint64 `json:"id"`
    Name  string `json:"name"`
    Price int64  `json:"price"`
}

// SelectedTable is a copy of the table offer chosen by the customer along
// with the reservation details supplied at selection time.
type SelectedTable struct {
    ID     uint64 `json:"id"`
    Name   string `json:"name"`
    Price  int64  `json:"price"`
    Date   string `json:"date"`   // YYYY-MM-DD
    Time   string `json:"time"`   // HH:MM
    Guests uint32 `json:"guests"`
}

// Selection is the in-progress booking choice of one session for one
// venue.  It holds at most one ticket and at most one table.  A new
// choice overwrites the whole selection.
type Selection struct {
    VenueID   uint64          `json:"venue_id"`
    VenueName string          `json:"venue_name"`
    Ticket    *SelectedTicket `json:"ticket,omitempty"`
    Table     *SelectedTable  `json:"table,omitempty"`
    CreatedAt time.Time       `json:"created_at"`
}

// Empty reports whether neither a ticket nor a table is selected.
func (s *Selection) Empty() bool {
    return s == nil || (s.Ticket == nil && s.Table == nil)
}

// Validate checks the selection invariant: at least one offer present and
// no negative prices.
func (s *Selection) Validate() error {
    if s.Empty() {
        return ErrEmptySelection
    }
    if s.Ticket != nil && s.Ticket.Price < 0 {
        return errors.New("ticket price must not be negative")
    }
    if s.Table != nil && s.Table.Price < 0 {
        return errors.New("table price must not be negative")
    }
    return nil
}

// TicketPrice returns the ticket price or 0 when no ticket is selected.
func (s *Selection) TicketPrice() int64 {
    if s == nil || s.Ticket == nil {
        return 0
    }
    return s.Ticket.Price
}

// TablePrice returns the table price or 0 when no table is selected.
func (s *Selection) TablePrice() int64 {
    if s == nil || s.Table == nil {
        return 0
    }
    return s.Table.Price
}
