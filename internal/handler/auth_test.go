package handler

import (
    "net/http"
    "regexp"
    "testing"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/venue-booking/internal/middleware"
    "github.com/iliyamo/venue-booking/internal/repository"
    "github.com/iliyamo/venue-booking/internal/utils"
)

func newAuthEcho(t *testing.T) (*echo.Echo, sqlmock.Sqlmock) {
    t.Helper()
    db, mock := newMock(t)
    h := NewAuthHandler(testConfig(), repository.NewUserRepo(db, 4), repository.NewTokenRepo(db))
    e := echo.New()
    e.POST("/v1/auth/register", h.Register)
    e.POST("/v1/auth/login", h.Login)
    e.POST("/v1/auth/logout", h.Logout, middleware.OptionalJWT(testSecret))
    e.GET("/v1/me", h.Me, middleware.JWTAuth(testSecret))
    return e, mock
}

func TestRegisterIssuesCustomerTokens(t *testing.T) {
    e, mock := newAuthEcho(t)
    mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users (email, password_hash, role)")).
        WithArgs("ada@example.com", sqlmock.AnyArg(), "CUSTOMER").
        WillReturnResult(sqlmock.NewResult(11, 1))
    mock.ExpectExec(regexp.QuoteMeta("INSERT INTO refresh_tokens")).
        WithArgs(int64(11), sqlmock.AnyArg(), sqlmock.AnyArg()).
        WillReturnResult(sqlmock.NewResult(1, 1))

    rec := do(e, http.MethodPost, "/v1/auth/register",
        map[string]string{"email": " Ada@Example.com ", "password": "s3cret-pass", "role": "ADMIN"}, nil)
    require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

    body := decode(t, rec)
    user := body["user"].(map[string]any)
    assert.Equal(t, "CUSTOMER", user["role"])
    assert.Equal(t, "ada@example.com", user["email"])

    access := body["access"].(map[string]any)["token"].(string)
    claims, err := utils.ParseAccessToken(testSecret, access)
    require.NoError(t, err)
    assert.Equal(t, uint64(11), claims.UserID)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterRejectsMissingFields(t *testing.T) {
    e, _ := newAuthEcho(t)
    rec := do(e, http.MethodPost, "/v1/auth/register", map[string]string{"email": "a@b.c"}, nil)
    assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginUnknownEmail(t *testing.T) {
    e, mock := newAuthEcho(t)
    mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = ?")).
        WithArgs("ghost@example.com").
        WillReturnRows(sqlmock.NewRows([]string{"id"}))

    rec := do(e, http.MethodPost, "/v1/auth/login", map[string]string{"email": "ghost@example.com", "password": "x"}, nil)
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginWrongPassword(t *testing.T) {
    e, mock := newAuthEcho(t)
    hash, err := utils.HashPassword("right-password", 4)
    require.NoError(t, err)
    mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = ?")).
        WithArgs("ada@example.com").
        WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "role", "is_active", "created_at", "updated_at"}).
            AddRow(3, "ada@example.com", hash, "CUSTOMER", true, fixedTime, fixedTime))

    rec := do(e, http.MethodPost, "/v1/auth/login", map[string]string{"email": "ada@example.com", "password": "wrong"}, nil)
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutRevokesAllWithBearer(t *testing.T) {
    e, mock := newAuthEcho(t)
    mock.ExpectExec(regexp.QuoteMeta("UPDATE refresh_tokens SET revoked_at")).
        WillReturnResult(sqlmock.NewResult(0, 2))

    rec := do(e, http.MethodPost, "/v1/auth/logout", nil, bearer(t, 3, "CUSTOMER"))
    assert.Equal(t, http.StatusNoContent, rec.Code)
    assert.NoError(t, mock.ExpectationsWereMet())

    rec = do(e, http.MethodPost, "/v1/auth/logout", nil, nil)
    assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMeRequiresToken(t *testing.T) {
    e, _ := newAuthEcho(t)
    assert.Equal(t, http.StatusUnauthorized, do(e, http.MethodGet, "/v1/me", nil, nil).Code)
}
