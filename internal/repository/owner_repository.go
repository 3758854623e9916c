package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/iliyamo/venue-booking/internal/model"
)

// OwnerRepo stores venue owner profiles.  It is the profile step of the
// onboarding saga.
type OwnerRepo struct {
    db *sql.DB
}

func NewOwnerRepo(db *sql.DB) *OwnerRepo { return &OwnerRepo{db: db} }

// CreateOwner inserts a profile keyed by the owner's identity id.
func (r *OwnerRepo) CreateOwner(ctx context.Context, o *model.VenueOwner) error {
    _, err := r.db.ExecContext(ctx,
        "INSERT INTO venue_owners (user_id, full_name, email, phone) VALUES (?, ?, ?, ?)",
        o.UserID, o.FullName, o.Email, o.Phone)
    if isDuplicate(err) {
        return ErrConflict
    }
    return err
}

// DeleteOwner removes a profile.  A missing profile is not an error.
func (r *OwnerRepo) DeleteOwner(ctx context.Context, userID uint64) error {
    _, err := r.db.ExecContext(ctx, "DELETE FROM venue_owners WHERE user_id = ?", userID)
    return err
}

// GetOwner fetches a profile.
func (r *OwnerRepo) GetOwner(ctx context.Context, userID uint64) (*model.VenueOwner, error) {
    var o model.VenueOwner
    err := r.db.QueryRowContext(ctx,
        "SELECT user_id, full_name, email, phone, created_at FROM venue_owners WHERE user_id = ?",
        userID).Scan(&o.UserID, &o.FullName, &o.Email, &o.Phone, &o.CreatedAt)
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrOwnerNotFound
    }
    if err != nil {
        return nil, err
    }
    return &o, nil
}
