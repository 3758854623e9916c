package repository

import (
    "context"
    "database/sql"

    "github.com/iliyamo/venue-booking/internal/model"
)

// SavedVenueRepo stores customers' bookmarked venues.
type SavedVenueRepo struct {
    db *sql.DB
}

func NewSavedVenueRepo(db *sql.DB) *SavedVenueRepo { return &SavedVenueRepo{db: db} }

// Save bookmarks a venue.  Saving twice is a no-op.
func (r *SavedVenueRepo) Save(ctx context.Context, userID, venueID uint64) error {
    _, err := r.db.ExecContext(ctx, "INSERT IGNORE INTO saved_venues (user_id, venue_id) VALUES (?, ?)", userID, venueID)
    return err
}

// Remove drops a bookmark.  It returns ErrVenueNotFound when nothing was
// saved.
func (r *SavedVenueRepo) Remove(ctx context.Context, userID, venueID uint64) error {
    res, err := r.db.ExecContext(ctx, "DELETE FROM saved_venues WHERE user_id = ? AND venue_id = ?", userID, venueID)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return ErrVenueNotFound
    }
    return nil
}

// List returns a customer's saved venues, newest first.
func (r *SavedVenueRepo) List(ctx context.Context, userID uint64) ([]model.SavedVenue, error) {
    rows, err := r.db.QueryContext(ctx, `SELECT s.user_id, s.venue_id, v.name, s.created_at
        FROM saved_venues s JOIN venues v ON v.id = s.venue_id
        WHERE s.user_id = ? ORDER BY s.created_at DESC`, userID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := []model.SavedVenue{}
    for rows.Next() {
        var s model.SavedVenue
        if err := rows.Scan(&s.UserID, &s.VenueID, &s.VenueName, &s.CreatedAt); err != nil {
            return nil, err
        }
        out = append(out, s)
    }
    return out, rows.Err()
}
