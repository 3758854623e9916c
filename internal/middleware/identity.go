package middleware

// identity.go holds the context accessors shared by middleware and
// handlers.

import (
    "strconv"

    "github.com/labstack/echo/v4"
)

// UserID returns the authenticated user id stored by JWTAuth or
// OptionalJWT.
func UserID(c echo.Context) (uint64, bool) {
    id, ok := c.Get("user_id").(uint64)
    return id, ok && id != 0
}

// Role returns the authenticated role, or "" for anonymous requests.
func Role(c echo.Context) string {
    r, _ := c.Get("role").(string)
    return r
}

// SessionID returns the id stored by Session.
func SessionID(c echo.Context) string {
    s, _ := c.Get(sessionKey).(string)
    return s
}

// rateIdentity names the caller for rate limiting: the user id when
// authenticated, "anon" otherwise.
func rateIdentity(c echo.Context) string {
    if id, ok := UserID(c); ok {
        return strconv.FormatUint(id, 10)
    }
    return "anon"
}
