package repository

import (
    "context"
    "errors"
    "regexp"
    "testing"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/go-sql-driver/mysql"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/venue-booking/internal/pricing"
)

var referralCols = []string{"code", "discount_pct", "perks"}

func TestFindReferral(t *testing.T) {
    db, mock := newMock(t)
    repo := NewReferralRepo(db)
    const q = "SELECT code, discount_pct, perks FROM referral_codes WHERE code = ?"

    mock.ExpectQuery(regexp.QuoteMeta(q)).WithArgs("VIP2025").
        WillReturnRows(sqlmock.NewRows(referralCols).AddRow("VIP2025", 10, `["10% Discount Applied"]`))
    mock.ExpectQuery(regexp.QuoteMeta(q)).WithArgs("NOPE").
        WillReturnRows(sqlmock.NewRows(referralCols))

    ref, ok, err := repo.FindReferral(context.Background(), "VIP2025")
    require.NoError(t, err)
    require.True(t, ok)
    assert.Equal(t, pricing.Referral{Code: "VIP2025", DiscountPct: 10, Perks: []string{"10% Discount Applied"}}, ref)

    _, ok, err = repo.FindReferral(context.Background(), "NOPE")
    require.NoError(t, err)
    assert.False(t, ok)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReferral(t *testing.T) {
    db, mock := newMock(t)
    repo := NewReferralRepo(db)
    const q = "INSERT INTO referral_codes (code, discount_pct, perks) VALUES (?, ?, ?)"

    mock.ExpectExec(regexp.QuoteMeta(q)).WithArgs("SUMMER", 15, `[]`).WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectExec(regexp.QuoteMeta(q)).WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

    require.NoError(t, repo.Create(context.Background(), pricing.Referral{Code: "SUMMER", DiscountPct: 15}))
    assert.ErrorIs(t, repo.Create(context.Background(), pricing.Referral{Code: "SUMMER", DiscountPct: 15}), ErrConflict)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteReferral(t *testing.T) {
    db, mock := newMock(t)
    repo := NewReferralRepo(db)
    const q = "DELETE FROM referral_codes WHERE code = ?"

    mock.ExpectExec(regexp.QuoteMeta(q)).WithArgs("SUMMER").WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectExec(regexp.QuoteMeta(q)).WithArgs("SUMMER").WillReturnResult(sqlmock.NewResult(0, 0))

    require.NoError(t, repo.Delete(context.Background(), "SUMMER"))
    assert.ErrorIs(t, repo.Delete(context.Background(), "SUMMER"), ErrReferralNotFound)
}

func TestListReferrals(t *testing.T) {
    db, mock := newMock(t)
    mock.ExpectQuery(regexp.QuoteMeta("FROM referral_codes ORDER BY code")).
        WillReturnRows(sqlmock.NewRows(referralCols).
            AddRow("LAGOSVIP10", 10, `[]`).
            AddRow("VIP2025", 10, `["10% Discount Applied"]`))

    refs, err := NewReferralRepo(db).List(context.Background())
    require.NoError(t, err)
    require.Len(t, refs, 2)
    assert.Equal(t, "LAGOSVIP10", refs[0].Code)
    assert.Empty(t, refs[0].Perks)
}

func TestSeedIfEmpty(t *testing.T) {
    const (
        count  = "SELECT COUNT(*) FROM referral_codes"
        insert = "INSERT IGNORE INTO referral_codes (code, discount_pct, perks) VALUES (?, ?, ?)"
    )
    refs := pricing.DefaultCatalog().Referrals()

    t.Run("empty table", func(t *testing.T) {
        db, mock := newMock(t)
        mock.ExpectBegin()
        mock.ExpectQuery(regexp.QuoteMeta(count)).WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
        mock.ExpectExec(regexp.QuoteMeta(insert)).WithArgs("LAGOSVIP10", 10, `["10% Discount Applied"]`).
            WillReturnResult(sqlmock.NewResult(0, 1))
        mock.ExpectExec(regexp.QuoteMeta(insert)).WithArgs("VIP2025", 10, `["10% Discount Applied"]`).
            WillReturnResult(sqlmock.NewResult(0, 1))
        mock.ExpectCommit()

        n, err := NewReferralRepo(db).SeedIfEmpty(context.Background(), refs)
        require.NoError(t, err)
        assert.Equal(t, 2, n)
        assert.NoError(t, mock.ExpectationsWereMet())
    })

    t.Run("codes already managed", func(t *testing.T) {
        db, mock := newMock(t)
        mock.ExpectBegin()
        mock.ExpectQuery(regexp.QuoteMeta(count)).WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(3))
        mock.ExpectRollback()

        n, err := NewReferralRepo(db).SeedIfEmpty(context.Background(), refs)
        require.NoError(t, err)
        assert.Zero(t, n)
        assert.NoError(t, mock.ExpectationsWereMet())
    })

    t.Run("insert fails", func(t *testing.T) {
        db, mock := newMock(t)
        mock.ExpectBegin()
        mock.ExpectQuery(regexp.QuoteMeta(count)).WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
        mock.ExpectExec(regexp.QuoteMeta(insert)).WillReturnError(errors.New("read only"))
        mock.ExpectRollback()

        _, err := NewReferralRepo(db).SeedIfEmpty(context.Background(), refs)
        assert.ErrorContains(t, err, "seed referral LAGOSVIP10")
    })
}
