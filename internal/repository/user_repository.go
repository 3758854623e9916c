package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"

    "github.com/iliyamo/venue-booking/internal/model"
    "github.com/iliyamo/venue-booking/internal/utils"
)

// UserRepo stores auth identities.  During venue onboarding it acts as the
// identity collaborator: CreateIdentity and DeleteIdentity are the first
// step of the saga and its last compensation.
type UserRepo struct {
    db   *sql.DB
    cost int
}

// NewUserRepo returns a UserRepo that hashes passwords with the given
// bcrypt cost.
func NewUserRepo(db *sql.DB, bcryptCost int) *UserRepo {
    return &UserRepo{db: db, cost: bcryptCost}
}

const userColumns = "id, email, password_hash, role, is_active, created_at, updated_at"

// Create inserts a user and returns its id.  The email is normalized to
// lower case; a duplicate email yields ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, email, password, role string) (uint64, error) {
    email = strings.ToLower(strings.TrimSpace(email))
    hash, err := utils.HashPassword(password, r.cost)
    if err != nil {
        return 0, err
    }
    res, err := r.db.ExecContext(ctx,
        "INSERT INTO users (email, password_hash, role) VALUES (?, ?, ?)",
        email, hash, role)
    if err != nil {
        if isDuplicate(err) {
            return 0, ErrEmailExists
        }
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// CreateIdentity creates an OWNER identity for onboarding.
func (r *UserRepo) CreateIdentity(ctx context.Context, email, password string) (uint64, error) {
    return r.Create(ctx, email, password, model.RoleOwner)
}

// DeleteIdentity removes an identity and its refresh tokens.  Deleting a
// missing identity is not an error, so compensation can be retried.
func (r *UserRepo) DeleteIdentity(ctx context.Context, id uint64) error {
    if _, err := r.db.ExecContext(ctx, "DELETE FROM refresh_tokens WHERE user_id = ?", id); err != nil {
        return err
    }
    _, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
    return err
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
    email = strings.ToLower(strings.TrimSpace(email))
    row := r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE email = ? LIMIT 1", email)
    return scanUser(row)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
    row := r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ? LIMIT 1", id)
    return scanUser(row)
}

func scanUser(row *sql.Row) (model.User, error) {
    var u model.User
    err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
    if errors.Is(err, sql.ErrNoRows) {
        return u, ErrUserNotFound
    }
    return u, err
}
