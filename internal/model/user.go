package model

import "time"

// Roles carried in the users.role column and in the access token's
// "role" claim.
const (
    RoleCustomer = "CUSTOMER"
    RoleOwner    = "OWNER"
    RoleAdmin    = "ADMIN"
)

// User is an auth identity as stored in the `users` table.  Venue owners
// additionally have a VenueOwner profile keyed by the same id.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique, lower-cased email address.
//  PasswordHash – bcrypt hash of the password.
//  Role         – CUSTOMER, OWNER or ADMIN.
//  IsActive     – whether the account may sign in.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
    ID           uint64    // users.id
    Email        string    // users.email
    PasswordHash string    // users.password_hash
    Role         string    // users.role
    IsActive     bool      // users.is_active
    CreatedAt    time.Time // users.created_at
    UpdatedAt    time.Time // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Only the
// SHA-256 hash of the token handed to the client is stored.
type RefreshToken struct {
    ID        uint64     // refresh_tokens.id
    UserID    uint64     // refresh_tokens.user_id
    TokenHash string     // refresh_tokens.token_hash
    ExpiresAt time.Time  // refresh_tokens.expires_at
    RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
    CreatedAt time.Time  // refresh_tokens.created_at
}

// SavedVenue marks a venue bookmarked by a customer.
type SavedVenue struct {
    UserID    uint64    `json:"user_id"`    // saved_venues.user_id
    VenueID   uint64    `json:"venue_id"`   // saved_venues.venue_id
    VenueName string    `json:"venue_name"` // venues.name (joined)
    CreatedAt time.Time `json:"created_at"` // saved_venues.created_at
}
