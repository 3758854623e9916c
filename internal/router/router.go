package router // package router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4"
    "github.com/prometheus/client_golang/prometheus/promhttp"

    "github.com/iliyamo/venue-booking/internal/handler"
    "github.com/iliyamo/venue-booking/internal/middleware"
)

// RegisterRoutes registers the operational endpoints: health and
// Prometheus metrics.
func RegisterRoutes(e *echo.Echo, h *handler.HealthHandler) {
    e.GET("/healthz", h.Healthz)
    e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterAuth registers the token endpoints under /v1/auth and the
// authenticated /v1/me.  limit guards the credential endpoints.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, limit echo.MiddlewareFunc) {
    g := e.Group("/v1/auth")
    g.POST("/register", a.Register, limit)
    g.POST("/login", a.Login, limit)
    g.POST("/refresh", a.Refresh, limit)
    // Logout works with either a refresh token in the body or a bearer.
    g.POST("/logout", a.Logout, middleware.OptionalJWT(jwtSecret))

    e.GET("/v1/me", a.Me, middleware.JWTAuth(jwtSecret))
}

// RegisterPublic registers the unauthenticated venue catalogue.  cache
// serves repeated reads from Redis.
func RegisterPublic(e *echo.Echo, v *handler.VenueHandler, cache echo.MiddlewareFunc) {
    e.GET("/v1/venues", v.List, cache)
    e.GET("/v1/venues/:id", v.Get, cache)
}
