package handler // declare the package name; contains HTTP handlers

import (
    "database/sql"
    "net/http"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"
)

// HealthHandler reports whether the process and its stores are reachable.
// Redis is optional: a nil client is reported as "disabled".
type HealthHandler struct {
    DB    *sql.DB
    Redis *redis.Client
}

// Healthz pings MySQL and Redis.  It answers 503 when MySQL is down.
// Redis failures are reported in the body but keep the 200.
func (h *HealthHandler) Healthz(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()

    status := http.StatusOK
    body := echo.Map{"status": "ok", "database": "ok", "redis": "disabled"}
    if h.DB == nil {
        status = http.StatusServiceUnavailable
        body["status"], body["database"] = "unavailable", "missing"
    } else if err := h.DB.PingContext(ctx); err != nil {
        status = http.StatusServiceUnavailable
        body["status"], body["database"] = "unavailable", err.Error()
    }
    if h.Redis != nil {
        body["redis"] = "ok"
        if err := h.Redis.Ping(ctx).Err(); err != nil {
            body["redis"] = err.Error()
        }
    }
    return c.JSON(status, body)
}
