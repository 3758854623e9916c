// Package database opens the MySQL connection pool and bootstraps the
// schema.
package database

import (
    "context"
    "database/sql"
    "fmt"
    "time"

    "github.com/go-sql-driver/mysql"
)

// Options describe how to reach the database.
type Options struct {
    User, Pass, Host, Port, Name string
}

// DSN renders the driver connection string.  parseTime maps DATETIME to
// time.Time; loc=UTC keeps stored times in UTC.
func (o Options) DSN() string {
    c := mysql.NewConfig()
    c.User = o.User
    c.Passwd = o.Pass
    c.Net = "tcp"
    c.Addr = o.Host + ":" + o.Port
    c.DBName = o.Name
    c.ParseTime = true
    c.Loc = time.UTC
    c.Params = map[string]string{"charset": "utf8mb4"}
    return c.FormatDSN()
}

// Open connects to MySQL and verifies the connection.
func Open(o Options) (*sql.DB, error) {
    db, err := sql.Open("mysql", o.DSN())
    if err != nil {
        return nil, err
    }

    db.SetMaxOpenConns(25)
    db.SetMaxIdleConns(25)
    db.SetConnMaxLifetime(30 * time.Minute)

    ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancel()
    if err := db.PingContext(ctx); err != nil {
        _ = db.Close()
        return nil, fmt.Errorf("ping %s:%s/%s: %w", o.Host, o.Port, o.Name, err)
    }
    return db, nil
}
