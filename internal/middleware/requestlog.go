package middleware

import (
    "time"

    "github.com/google/uuid"
    "github.com/labstack/echo/v4"
    "github.com/rs/zerolog"
)

// RequestIDHeader is read from and written to every response.
const RequestIDHeader = "X-Request-ID"

// RequestLogger tags every request with a request id, attaches a logger
// carrying it to the request context and logs the outcome.
func RequestLogger(base zerolog.Logger) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            req := c.Request()
            rid := req.Header.Get(RequestIDHeader)
            if rid == "" || len(rid) > 64 {
                rid = uuid.NewString()
            }
            c.Response().Header().Set(RequestIDHeader, rid)

            l := base.With().Str("request_id", rid).Logger()
            c.SetRequest(req.WithContext(l.WithContext(req.Context())))

            start := time.Now()
            err := next(c)
            if err != nil {
                c.Error(err)
            }

            status := c.Response().Status
            ev := l.Info()
            switch {
            case status >= 500:
                ev = l.Error().Err(err)
            case status >= 400:
                ev = l.Warn()
            }
            ev.Str("method", req.Method).
                Str("path", req.URL.Path).
                Str("route", c.Path()).
                Int("status", status).
                Dur("latency", time.Since(start)).
                Str("ip", c.RealIP()).
                Msg("request")
            return nil
        }
    }
}
