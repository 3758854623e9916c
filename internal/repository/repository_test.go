package repository

import (
    "database/sql"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2026, 3, 14, 21, 0, 0, 0, time.UTC)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
    t.Helper()
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    t.Cleanup(func() { db.Close() })
    return db, mock
}

var venueCols = []string{"id", "owner_id", "name", "description", "location", "address", "venue_type", "phone",
    "email", "opening_hours", "capacity", "price_range", "rating", "status", "approved_at", "rejection_reason",
    "created_at", "updated_at"}

func venueRow(rows *sqlmock.Rows, id uint64, status string) *sqlmock.Rows {
    return rows.AddRow(id, 5, "Quilox", "Club on Victoria Island", "Lagos", "873 Ozumba Mbadiwe", "club",
        "+234", "hello@quilox.test", "22:00-04:00", 500, "$$$", 4.5, status, nil, nil, fixedTime, fixedTime)
}
