package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"
    "time"

    "github.com/iliyamo/venue-booking/internal/model"
)

// VenueRepo stores venues.  Status changes go only through
// TransitionFromPending; owners edit descriptive fields through
// UpdateDetails.
type VenueRepo struct {
    db *sql.DB
}

func NewVenueRepo(db *sql.DB) *VenueRepo { return &VenueRepo{db: db} }

const venueColumns = `id, owner_id, name, description, location, address, venue_type, phone, email,
    opening_hours, capacity, price_range, rating, status, approved_at, rejection_reason, created_at, updated_at`

type rowScanner interface {
    Scan(dest ...any) error
}

func scanVenue(s rowScanner) (*model.Venue, error) {
    var (
        v          model.Venue
        status     string
        approvedAt sql.NullTime
        reason     sql.NullString
    )
    err := s.Scan(&v.ID, &v.OwnerID, &v.Name, &v.Description, &v.Location, &v.Address, &v.VenueType,
        &v.Phone, &v.Email, &v.OpeningHours, &v.Capacity, &v.PriceRange, &v.Rating, &status,
        &approvedAt, &reason, &v.CreatedAt, &v.UpdatedAt)
    if err != nil {
        return nil, err
    }
    v.Status = model.VenueStatus(status)
    if approvedAt.Valid {
        t := approvedAt.Time
        v.ApprovedAt = &t
    }
    if reason.Valid {
        s := reason.String
        v.RejectionReason = &s
    }
    return &v, nil
}

// CreateVenue inserts a venue in the pending state and sets its id.
func (r *VenueRepo) CreateVenue(ctx context.Context, v *model.Venue) error {
    const q = `INSERT INTO venues (owner_id, name, description, location, address, venue_type, phone, email,
        opening_hours, capacity, price_range, status) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 'pending')`
    res, err := r.db.ExecContext(ctx, q, v.OwnerID, v.Name, v.Description, v.Location, v.Address, v.VenueType,
        v.Phone, v.Email, v.OpeningHours, v.Capacity, v.PriceRange)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    v.ID = uint64(id)
    v.Status = model.VenueStatusPending
    return nil
}

// GetByID fetches a venue in any status.
func (r *VenueRepo) GetByID(ctx context.Context, id uint64) (*model.Venue, error) {
    v, err := scanVenue(r.db.QueryRowContext(ctx, "SELECT "+venueColumns+" FROM venues WHERE id = ?", id))
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrVenueNotFound
    }
    return v, err
}

// GetApproved fetches an approved venue.  Venues in other states are
// reported as not found so they never leak to the public API.
func (r *VenueRepo) GetApproved(ctx context.Context, id uint64) (*model.Venue, error) {
    v, err := scanVenue(r.db.QueryRowContext(ctx,
        "SELECT "+venueColumns+" FROM venues WHERE id = ? AND status = 'approved'", id))
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrVenueNotFound
    }
    return v, err
}

// ListApproved returns approved venues, optionally filtered by type.
func (r *VenueRepo) ListApproved(ctx context.Context, venueType string) ([]*model.Venue, error) {
    q := "SELECT " + venueColumns + " FROM venues WHERE status = 'approved'"
    args := []any{}
    if venueType = strings.TrimSpace(venueType); venueType != "" {
        q += " AND venue_type = ?"
        args = append(args, venueType)
    }
    q += " ORDER BY rating DESC, id"
    return r.list(ctx, q, args...)
}

// ListByOwner returns all venues of an owner, newest first.
func (r *VenueRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]*model.Venue, error) {
    return r.list(ctx, "SELECT "+venueColumns+" FROM venues WHERE owner_id = ? ORDER BY id DESC", ownerID)
}

func (r *VenueRepo) list(ctx context.Context, q string, args ...any) ([]*model.Venue, error) {
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    out := []*model.Venue{}
    for rows.Next() {
        v, err := scanVenue(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, v)
    }
    return out, rows.Err()
}

const pendingQuery = `SELECT v.id, v.owner_id, v.name, v.description, v.location, v.address, v.venue_type, v.phone,
    v.email, v.opening_hours, v.capacity, v.price_range, v.rating, v.status, v.approved_at, v.rejection_reason,
    v.created_at, v.updated_at, COALESCE(o.full_name, ''), COALESCE(o.email, '')
    FROM venues v LEFT JOIN venue_owners o ON o.user_id = v.owner_id`

func scanPending(s rowScanner) (model.PendingVenue, error) {
    var (
        p          model.PendingVenue
        status     string
        approvedAt sql.NullTime
        reason     sql.NullString
    )
    v := &p.Venue
    err := s.Scan(&v.ID, &v.OwnerID, &v.Name, &v.Description, &v.Location, &v.Address, &v.VenueType,
        &v.Phone, &v.Email, &v.OpeningHours, &v.Capacity, &v.PriceRange, &v.Rating, &status,
        &approvedAt, &reason, &v.CreatedAt, &v.UpdatedAt, &p.OwnerName, &p.OwnerEmail)
    if err != nil {
        return p, err
    }
    v.Status = model.VenueStatus(status)
    if approvedAt.Valid {
        t := approvedAt.Time
        v.ApprovedAt = &t
    }
    if reason.Valid {
        s := reason.String
        v.RejectionReason = &s
    }
    return p, nil
}

// ListPending returns the approval queue, oldest first, with owner
// contact details.
func (r *VenueRepo) ListPending(ctx context.Context) ([]model.PendingVenue, error) {
    rows, err := r.db.QueryContext(ctx, pendingQuery+" WHERE v.status = 'pending' ORDER BY v.created_at, v.id")
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    out := []model.PendingVenue{}
    for rows.Next() {
        p, err := scanPending(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, p)
    }
    return out, rows.Err()
}

// GetWithOwner fetches a venue in any status with its owner's contact.
func (r *VenueRepo) GetWithOwner(ctx context.Context, id uint64) (model.PendingVenue, error) {
    p, err := scanPending(r.db.QueryRowContext(ctx, pendingQuery+" WHERE v.id = ?", id))
    if errors.Is(err, sql.ErrNoRows) {
        return p, ErrVenueNotFound
    }
    return p, err
}

// TransitionFromPending moves a pending venue to approved or rejected.
// The update only applies while the row is still pending; otherwise it
// returns ErrVenueNotPending, or ErrVenueNotFound for a missing row.
func (r *VenueRepo) TransitionFromPending(ctx context.Context, id uint64, to model.VenueStatus, approvedAt *time.Time, reason *string) error {
    const q = `UPDATE venues SET status = ?, approved_at = ?, rejection_reason = ?, updated_at = CURRENT_TIMESTAMP
        WHERE id = ? AND status = 'pending'`
    res, err := r.db.ExecContext(ctx, q, string(to), approvedAt, reason, id)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n > 0 {
        return nil
    }
    var status string
    err = r.db.QueryRowContext(ctx, "SELECT status FROM venues WHERE id = ?", id).Scan(&status)
    if errors.Is(err, sql.ErrNoRows) {
        return ErrVenueNotFound
    }
    if err != nil {
        return err
    }
    return ErrVenueNotPending
}

// VenueDetails are the owner-editable fields.  Nil fields are left as is.
type VenueDetails struct {
    Name         *string `json:"name"`
    Description  *string `json:"description"`
    Location     *string `json:"location"`
    Address      *string `json:"address"`
    VenueType    *string `json:"venue_type"`
    Phone        *string `json:"phone"`
    Email        *string `json:"email"`
    OpeningHours *string `json:"opening_hours"`
    Capacity     *uint32 `json:"capacity"`
    PriceRange   *string `json:"price_range"`
}

// Empty reports whether no field is set.
func (d VenueDetails) Empty() bool {
    return d.Name == nil && d.Description == nil && d.Location == nil && d.Address == nil &&
        d.VenueType == nil && d.Phone == nil && d.Email == nil && d.OpeningHours == nil &&
        d.Capacity == nil && d.PriceRange == nil
}

// UpdateDetails applies owner edits.  Rejected venues are read-only
// (ErrConflict); venues of other owners yield ErrForbidden.
func (r *VenueRepo) UpdateDetails(ctx context.Context, id, ownerID uint64, d VenueDetails) error {
    var (
        dbOwner uint64
        status  string
    )
    err := r.db.QueryRowContext(ctx, "SELECT owner_id, status FROM venues WHERE id = ?", id).Scan(&dbOwner, &status)
    if errors.Is(err, sql.ErrNoRows) {
        return ErrVenueNotFound
    }
    if err != nil {
        return err
    }
    if dbOwner != ownerID {
        return ErrForbidden
    }
    if model.VenueStatus(status) == model.VenueStatusRejected {
        return ErrConflict
    }
    if d.Empty() {
        return nil
    }

    var (
        sets []string
        args []any
    )
    add := func(col string, v any) {
        sets = append(sets, col+" = ?")
        args = append(args, v)
    }
    if d.Name != nil {
        add("name", *d.Name)
    }
    if d.Description != nil {
        add("description", *d.Description)
    }
    if d.Location != nil {
        add("location", *d.Location)
    }
    if d.Address != nil {
        add("address", *d.Address)
    }
    if d.VenueType != nil {
        add("venue_type", *d.VenueType)
    }
    if d.Phone != nil {
        add("phone", *d.Phone)
    }
    if d.Email != nil {
        add("email", *d.Email)
    }
    if d.OpeningHours != nil {
        add("opening_hours", *d.OpeningHours)
    }
    if d.Capacity != nil {
        add("capacity", *d.Capacity)
    }
    if d.PriceRange != nil {
        add("price_range", *d.PriceRange)
    }
    args = append(args, id, ownerID)
    q := "UPDATE venues SET " + strings.Join(sets, ", ") +
        ", updated_at = CURRENT_TIMESTAMP WHERE id = ? AND owner_id = ? AND status <> 'rejected'"
    res, err := r.db.ExecContext(ctx, q, args...)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return ErrConflict
    }
    return nil
}
