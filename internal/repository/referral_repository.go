package repository

import (
    "context"
    "database/sql"
    "encoding/json"
    "errors"
    "fmt"

    "github.com/iliyamo/venue-booking/internal/pricing"
)

var ErrReferralNotFound = errors.New("referral code not found")

// ReferralRepo stores the admin-managed referral codes.  Codes are kept
// normalized (upper case, trimmed) so lookups are exact matches.
type ReferralRepo struct {
    db *sql.DB
}

func NewReferralRepo(db *sql.DB) *ReferralRepo { return &ReferralRepo{db: db} }

func scanReferral(s rowScanner) (pricing.Referral, error) {
    var (
        r     pricing.Referral
        perks []byte
    )
    if err := s.Scan(&r.Code, &r.DiscountPct, &perks); err != nil {
        return r, err
    }
    if err := json.Unmarshal(perks, &r.Perks); err != nil {
        return r, fmt.Errorf("decode perks of referral %s: %w", r.Code, err)
    }
    return r, nil
}

// FindReferral implements pricing.Source.
func (r *ReferralRepo) FindReferral(ctx context.Context, code string) (pricing.Referral, bool, error) {
    ref, err := scanReferral(r.db.QueryRowContext(ctx,
        "SELECT code, discount_pct, perks FROM referral_codes WHERE code = ?", code))
    if errors.Is(err, sql.ErrNoRows) {
        return pricing.Referral{}, false, nil
    }
    if err != nil {
        return pricing.Referral{}, false, err
    }
    return ref, true, nil
}

// List returns every code ordered by code.
func (r *ReferralRepo) List(ctx context.Context) ([]pricing.Referral, error) {
    rows, err := r.db.QueryContext(ctx, "SELECT code, discount_pct, perks FROM referral_codes ORDER BY code")
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := []pricing.Referral{}
    for rows.Next() {
        ref, err := scanReferral(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, ref)
    }
    return out, rows.Err()
}

// Create inserts ref.  An existing code yields ErrConflict.
func (r *ReferralRepo) Create(ctx context.Context, ref pricing.Referral) error {
    perks, err := encodePerks(ref.Perks)
    if err != nil {
        return err
    }
    _, err = r.db.ExecContext(ctx,
        "INSERT INTO referral_codes (code, discount_pct, perks) VALUES (?, ?, ?)",
        ref.Code, ref.DiscountPct, perks)
    if isDuplicate(err) {
        return ErrConflict
    }
    return err
}

// Delete removes a code.
func (r *ReferralRepo) Delete(ctx context.Context, code string) error {
    res, err := r.db.ExecContext(ctx, "DELETE FROM referral_codes WHERE code = ?", code)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return ErrReferralNotFound
    }
    return nil
}

// SeedIfEmpty inserts refs when the table holds no codes and returns how
// many were inserted.
func (r *ReferralRepo) SeedIfEmpty(ctx context.Context, refs []pricing.Referral) (int, error) {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return 0, err
    }
    defer tx.Rollback()

    var n int
    if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM referral_codes").Scan(&n); err != nil {
        return 0, err
    }
    if n > 0 {
        return 0, nil
    }
    for _, ref := range refs {
        perks, err := encodePerks(ref.Perks)
        if err != nil {
            return 0, err
        }
        if _, err := tx.ExecContext(ctx,
            "INSERT IGNORE INTO referral_codes (code, discount_pct, perks) VALUES (?, ?, ?)",
            ref.Code, ref.DiscountPct, perks); err != nil {
            return 0, fmt.Errorf("seed referral %s: %w", ref.Code, err)
        }
    }
    if err := tx.Commit(); err != nil {
        return 0, err
    }
    return len(refs), nil
}

func encodePerks(perks []string) (string, error) {
    if perks == nil {
        perks = []string{}
    }
    b, err := json.Marshal(perks)
    if err != nil {
        return "", fmt.Errorf("encode perks: %w", err)
    }
    return string(b), nil
}
