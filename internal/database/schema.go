package database

import (
    "context"
    "database/sql"
    "fmt"
)

// schema is applied in order by Bootstrap.  Statements are idempotent.
var schema = []string{
    `CREATE TABLE IF NOT EXISTS users (
        id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
        email VARCHAR(255) NOT NULL UNIQUE,
        password_hash VARCHAR(255) NOT NULL,
        role ENUM('CUSTOMER','OWNER','ADMIN') NOT NULL DEFAULT 'CUSTOMER',
        is_active TINYINT(1) NOT NULL DEFAULT 1,
        created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
        updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
    )`,
    `CREATE TABLE IF NOT EXISTS refresh_tokens (
        id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
        user_id BIGINT UNSIGNED NOT NULL,
        token_hash CHAR(64) NOT NULL UNIQUE,
        expires_at DATETIME NOT NULL,
        revoked_at DATETIME NULL,
        created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
        KEY idx_refresh_user (user_id)
    )`,
    `CREATE TABLE IF NOT EXISTS venue_owners (
        user_id BIGINT UNSIGNED PRIMARY KEY,
        full_name VARCHAR(255) NOT NULL,
        email VARCHAR(255) NOT NULL,
        phone VARCHAR(64) NOT NULL DEFAULT '',
        created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
    )`,
    `CREATE TABLE IF NOT EXISTS venues (
        id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
        owner_id BIGINT UNSIGNED NOT NULL,
        name VARCHAR(255) NOT NULL,
        description TEXT NOT NULL,
        location VARCHAR(255) NOT NULL DEFAULT '',
        address VARCHAR(255) NOT NULL DEFAULT '',
        venue_type VARCHAR(64) NOT NULL DEFAULT '',
        phone VARCHAR(64) NOT NULL DEFAULT '',
        email VARCHAR(255) NOT NULL DEFAULT '',
        opening_hours VARCHAR(255) NOT NULL DEFAULT '',
        capacity INT UNSIGNED NOT NULL DEFAULT 0,
        price_range VARCHAR(32) NOT NULL DEFAULT '',
        rating DECIMAL(3,2) NOT NULL DEFAULT 0,
        status ENUM('pending','approved','rejected') NOT NULL DEFAULT 'pending',
        approved_at DATETIME NULL,
        rejection_reason TEXT NULL,
        created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
        updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
        KEY idx_venues_owner (owner_id),
        KEY idx_venues_status (status)
    )`,
    `CREATE TABLE IF NOT EXISTS venue_tickets (
        id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
        venue_id BIGINT UNSIGNED NOT NULL,
        name VARCHAR(255) NOT NULL,
        description TEXT NOT NULL,
        price BIGINT NOT NULL,
        capacity INT UNSIGNED NOT NULL DEFAULT 0,
        KEY idx_tickets_venue (venue_id)
    )`,
    `CREATE TABLE IF NOT EXISTS venue_tables (
        id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
        venue_id BIGINT UNSIGNED NOT NULL,
        name VARCHAR(255) NOT NULL,
        description TEXT NOT NULL,
        price BIGINT NOT NULL,
        min_guests INT UNSIGNED NOT NULL DEFAULT 1,
        max_guests INT UNSIGNED NOT NULL DEFAULT 1,
        KEY idx_tables_venue (venue_id)
    )`,
    `CREATE TABLE IF NOT EXISTS bookings (
        id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
        user_id BIGINT UNSIGNED NULL,
        session_id VARCHAR(64) NOT NULL,
        venue_id BIGINT UNSIGNED NOT NULL,
        venue_name VARCHAR(255) NOT NULL,
        selection JSON NOT NULL,
        subtotal BIGINT NOT NULL,
        service_fee VARCHAR(32) NOT NULL,
        discount_pct INT NOT NULL DEFAULT 0,
        total_amount BIGINT NOT NULL,
        customer_name VARCHAR(255) NOT NULL,
        email VARCHAR(255) NOT NULL,
        phone VARCHAR(64) NOT NULL,
        referral_code VARCHAR(64) NULL,
        perks JSON NOT NULL,
        loyalty_points BIGINT NOT NULL DEFAULT 0,
        payment_ref VARCHAR(64) NOT NULL,
        status ENUM('confirmed','pending','cancelled') NOT NULL DEFAULT 'confirmed',
        created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
        KEY idx_bookings_user (user_id),
        KEY idx_bookings_venue (venue_id)
    )`,
    `CREATE TABLE IF NOT EXISTS saved_venues (
        user_id BIGINT UNSIGNED NOT NULL,
        venue_id BIGINT UNSIGNED NOT NULL,
        created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
        PRIMARY KEY (user_id, venue_id)
    )`,
    `CREATE TABLE IF NOT EXISTS referral_codes (
        code VARCHAR(64) PRIMARY KEY,
        discount_pct TINYINT UNSIGNED NOT NULL,
        perks JSON NOT NULL,
        created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
    )`,
}

// Bootstrap creates any missing tables.
func Bootstrap(ctx context.Context, db *sql.DB) error {
    for i, stmt := range schema {
        if _, err := db.ExecContext(ctx, stmt); err != nil {
            return fmt.Errorf("schema statement %d: %w", i+1, err)
        }
    }
    return nil
}
