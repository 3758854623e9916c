package model

import "time"

// VenueOwner is the profile of a venue owner.  It is keyed by the id of
// the owner's auth identity (users.id), so the two are 1:1.
type VenueOwner struct {
    UserID    uint64    `json:"user_id"`    // venue_owners.user_id
    FullName  string    `json:"full_name"`  // venue_owners.full_name
    Email     string    `json:"email"`      // venue_owners.email
    Phone     string    `json:"phone"`      // venue_owners.phone
    CreatedAt time.Time `json:"created_at"` // venue_owners.created_at
}

// FirstName returns the first word of FullName.
func (o VenueOwner) FirstName() string {
    for i, r := range o.FullName {
        if r == ' ' {
            return o.FullName[:i]
        }
    }
    return o.FullName
}
