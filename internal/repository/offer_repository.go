package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/iliyamo/venue-booking/internal/model"
)

// OfferRepo stores the ticket and table offers of venues.
type OfferRepo struct {
    db *sql.DB
}

func NewOfferRepo(db *sql.DB) *OfferRepo { return &OfferRepo{db: db} }

// CreateTicket inserts a ticket offer and sets its id.
func (r *OfferRepo) CreateTicket(ctx context.Context, t *model.Ticket) error {
    res, err := r.db.ExecContext(ctx,
        "INSERT INTO venue_tickets (venue_id, name, description, price, capacity) VALUES (?, ?, ?, ?, ?)",
        t.VenueID, t.Name, t.Description, t.Price, t.Capacity)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    t.ID = uint64(id)
    return nil
}

// CreateTable inserts a table offer and sets its id.
func (r *OfferRepo) CreateTable(ctx context.Context, t *model.Table) error {
    res, err := r.db.ExecContext(ctx,
        "INSERT INTO venue_tables (venue_id, name, description, price, min_guests, max_guests) VALUES (?, ?, ?, ?, ?, ?)",
        t.VenueID, t.Name, t.Description, t.Price, t.MinGuests, t.MaxGuests)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    t.ID = uint64(id)
    return nil
}

// GetTicket fetches one ticket offer of a venue.
func (r *OfferRepo) GetTicket(ctx context.Context, venueID, id uint64) (*model.Ticket, error) {
    var t model.Ticket
    err := r.db.QueryRowContext(ctx,
        "SELECT id, venue_id, name, description, price, capacity FROM venue_tickets WHERE id = ? AND venue_id = ?",
        id, venueID).Scan(&t.ID, &t.VenueID, &t.Name, &t.Description, &t.Price, &t.Capacity)
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrOfferNotFound
    }
    if err != nil {
        return nil, err
    }
    return &t, nil
}

// GetTable fetches one table offer of a venue.
func (r *OfferRepo) GetTable(ctx context.Context, venueID, id uint64) (*model.Table, error) {
    var t model.Table
    err := r.db.QueryRowContext(ctx,
        "SELECT id, venue_id, name, description, price, min_guests, max_guests FROM venue_tables WHERE id = ? AND venue_id = ?",
        id, venueID).Scan(&t.ID, &t.VenueID, &t.Name, &t.Description, &t.Price, &t.MinGuests, &t.MaxGuests)
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrOfferNotFound
    }
    if err != nil {
        return nil, err
    }
    return &t, nil
}

// ListTickets returns a venue's ticket offers ordered by price.
func (r *OfferRepo) ListTickets(ctx context.Context, venueID uint64) ([]model.Ticket, error) {
    rows, err := r.db.QueryContext(ctx,
        "SELECT id, venue_id, name, description, price, capacity FROM venue_tickets WHERE venue_id = ? ORDER BY price, id",
        venueID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := []model.Ticket{}
    for rows.Next() {
        var t model.Ticket
        if err := rows.Scan(&t.ID, &t.VenueID, &t.Name, &t.Description, &t.Price, &t.Capacity); err != nil {
            return nil, err
        }
        out = append(out, t)
    }
    return out, rows.Err()
}

// ListTables returns a venue's table offers ordered by price.
func (r *OfferRepo) ListTables(ctx context.Context, venueID uint64) ([]model.Table, error) {
    rows, err := r.db.QueryContext(ctx,
        "SELECT id, venue_id, name, description, price, min_guests, max_guests FROM venue_tables WHERE venue_id = ? ORDER BY price, id",
        venueID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := []model.Table{}
    for rows.Next() {
        var t model.Table
        if err := rows.Scan(&t.ID, &t.VenueID, &t.Name, &t.Description, &t.Price, &t.MinGuests, &t.MaxGuests); err != nil {
            return nil, err
        }
        out = append(out, t)
    }
    return out, rows.Err()
}
