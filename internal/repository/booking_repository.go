package repository

import (
    "context"
    "database/sql"
    "encoding/json"
    "errors"
    "fmt"

    "github.com/iliyamo/venue-booking/internal/model"
)

// BookingRepo stores confirmed checkouts.  The selection and perks are
// stored as JSON copies so a booking is independent of later offer edits.
type BookingRepo struct {
    db *sql.DB
}

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = `id, user_id, session_id, venue_id, venue_name, selection, subtotal, service_fee, discount_pct,
    total_amount, customer_name, email, phone, referral_code, perks, loyalty_points, payment_ref, status, created_at`

// CreateBooking inserts b and sets its id.
func (r *BookingRepo) CreateBooking(ctx context.Context, b *model.Booking) error {
    sel, err := json.Marshal(b.Selection)
    if err != nil {
        return fmt.Errorf("encode selection: %w", err)
    }
    perks := b.Perks
    if perks == nil {
        perks = []string{}
    }
    perksJSON, err := json.Marshal(perks)
    if err != nil {
        return fmt.Errorf("encode perks: %w", err)
    }
    if b.Status == "" {
        b.Status = model.BookingStatusConfirmed
    }
    const q = `INSERT INTO bookings (user_id, session_id, venue_id, venue_name, selection, subtotal, service_fee,
        discount_pct, total_amount, customer_name, email, phone, referral_code, perks, loyalty_points, payment_ref, status)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q, b.UserID, b.SessionID, b.VenueID, b.VenueName, string(sel), b.Subtotal,
        b.ServiceFee, b.DiscountPct, b.TotalAmount, b.CustomerName, b.Email, b.Phone, b.ReferralCode,
        string(perksJSON), b.LoyaltyPoints, b.PaymentRef, string(b.Status))
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    b.ID = uint64(id)
    return nil
}

func scanBooking(s rowScanner) (*model.Booking, error) {
    var (
        b        model.Booking
        userID   sql.NullInt64
        sel      []byte
        perks    []byte
        referral sql.NullString
        status   string
    )
    err := s.Scan(&b.ID, &userID, &b.SessionID, &b.VenueID, &b.VenueName, &sel, &b.Subtotal, &b.ServiceFee,
        &b.DiscountPct, &b.TotalAmount, &b.CustomerName, &b.Email, &b.Phone, &referral, &perks,
        &b.LoyaltyPoints, &b.PaymentRef, &status, &b.CreatedAt)
    if err != nil {
        return nil, err
    }
    if userID.Valid {
        id := uint64(userID.Int64)
        b.UserID = &id
    }
    if referral.Valid {
        code := referral.String
        b.ReferralCode = &code
    }
    if err := json.Unmarshal(sel, &b.Selection); err != nil {
        return nil, fmt.Errorf("decode selection of booking %d: %w", b.ID, err)
    }
    if err := json.Unmarshal(perks, &b.Perks); err != nil {
        return nil, fmt.Errorf("decode perks of booking %d: %w", b.ID, err)
    }
    b.Status = model.BookingStatus(status)
    return &b, nil
}

func (r *BookingRepo) list(ctx context.Context, q string, args ...any) ([]*model.Booking, error) {
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := []*model.Booking{}
    for rows.Next() {
        b, err := scanBooking(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, b)
    }
    return out, rows.Err()
}

// ListByUser returns a customer's bookings, newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]*model.Booking, error) {
    return r.list(ctx, "SELECT "+bookingColumns+" FROM bookings WHERE user_id = ? ORDER BY created_at DESC, id DESC", userID)
}

// ListByVenue returns all bookings of a venue, newest first.
func (r *BookingRepo) ListByVenue(ctx context.Context, venueID uint64) ([]*model.Booking, error) {
    return r.list(ctx, "SELECT "+bookingColumns+" FROM bookings WHERE venue_id = ? ORDER BY created_at DESC, id DESC", venueID)
}

// ListRecent returns the newest bookings across all venues, at most limit
// rows.  status filters by booking status when not empty.
func (r *BookingRepo) ListRecent(ctx context.Context, status model.BookingStatus, limit int) ([]*model.Booking, error) {
    if status != "" {
        return r.list(ctx, "SELECT "+bookingColumns+" FROM bookings WHERE status = ? ORDER BY created_at DESC, id DESC LIMIT ?",
            string(status), limit)
    }
    return r.list(ctx, "SELECT "+bookingColumns+" FROM bookings ORDER BY created_at DESC, id DESC LIMIT ?", limit)
}

// GetByIDForUser fetches one booking of a customer.
func (r *BookingRepo) GetByIDForUser(ctx context.Context, id, userID uint64) (*model.Booking, error) {
    b, err := scanBooking(r.db.QueryRowContext(ctx,
        "SELECT "+bookingColumns+" FROM bookings WHERE id = ? AND user_id = ?", id, userID))
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrBookingNotFound
    }
    return b, err
}

// Cancel moves a confirmed booking of userID to cancelled.  Bookings in
// any other status yield ErrConflict.
func (r *BookingRepo) Cancel(ctx context.Context, id, userID uint64) error {
    res, err := r.db.ExecContext(ctx,
        "UPDATE bookings SET status = 'cancelled' WHERE id = ? AND user_id = ? AND status = 'confirmed'",
        id, userID)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n > 0 {
        return nil
    }
    var status string
    err = r.db.QueryRowContext(ctx, "SELECT status FROM bookings WHERE id = ? AND user_id = ?", id, userID).Scan(&status)
    if errors.Is(err, sql.ErrNoRows) {
        return ErrBookingNotFound
    }
    if err != nil {
        return err
    }
    return ErrConflict
}

// Reinstate moves a cancelled booking of userID back to confirmed.  It
// undoes Cancel when the refund behind it fails.
func (r *BookingRepo) Reinstate(ctx context.Context, id, userID uint64) error {
    res, err := r.db.ExecContext(ctx,
        "UPDATE bookings SET status = 'confirmed' WHERE id = ? AND user_id = ? AND status = 'cancelled'",
        id, userID)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return ErrConflict
    }
    return nil
}

// LoyaltyPoints sums the points of a customer's confirmed bookings.
func (r *BookingRepo) LoyaltyPoints(ctx context.Context, userID uint64) (int64, error) {
    var total int64
    err := r.db.QueryRowContext(ctx,
        "SELECT COALESCE(SUM(loyalty_points), 0) FROM bookings WHERE user_id = ? AND status = 'confirmed'",
        userID).Scan(&total)
    return total, err
}
