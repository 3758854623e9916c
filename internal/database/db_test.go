package database

import (
    "context"
    "errors"
    "testing"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
    dsn := Options{User: "app", Pass: "secret", Host: "db", Port: "3306", Name: "venues"}.DSN()
    assert.Contains(t, dsn, "app:secret@tcp(db:3306)/venues?")
    assert.Contains(t, dsn, "parseTime=true")
    assert.Contains(t, dsn, "charset=utf8mb4")
}

func TestBootstrap(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    for range schema {
        mock.ExpectExec("CREATE TABLE IF NOT EXISTS").WillReturnResult(sqlmock.NewResult(0, 0))
    }
    require.NoError(t, Bootstrap(context.Background(), db))
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBootstrapStopsOnError(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    mock.ExpectExec("CREATE TABLE IF NOT EXISTS users").WillReturnError(errors.New("denied"))
    err = Bootstrap(context.Background(), db)
    assert.ErrorContains(t, err, "schema statement 1")
    assert.NoError(t, mock.ExpectationsWereMet())
}
