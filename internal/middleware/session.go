package middleware

import (
    "net/http"
    "time"

    "github.com/google/uuid"
    "github.com/labstack/echo/v4"
)

const (
    // SessionHeader carries the session id for API clients.
    SessionHeader = "X-Session-ID"
    // SessionCookie carries the session id for browsers.
    SessionCookie = "session_id"

    sessionKey = "session_id"
)

// Session resolves the checkout session id from the X-Session-ID header or
// the session_id cookie.  When neither holds a UUID a new one is issued as
// a cookie and echoed in the response header.
func Session(ttl time.Duration) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            sid := c.Request().Header.Get(SessionHeader)
            if _, err := uuid.Parse(sid); err != nil {
                sid = ""
                if ck, err := c.Cookie(SessionCookie); err == nil {
                    if _, err := uuid.Parse(ck.Value); err == nil {
                        sid = ck.Value
                    }
                }
            }
            if sid == "" {
                sid = uuid.NewString()
                c.SetCookie(&http.Cookie{
                    Name:     SessionCookie,
                    Value:    sid,
                    Path:     "/",
                    MaxAge:   int(ttl / time.Second),
                    HttpOnly: true,
                    SameSite: http.SameSiteLaxMode,
                })
            }
            c.Response().Header().Set(SessionHeader, sid)
            c.Set(sessionKey, sid)
            return next(c)
        }
    }
}
