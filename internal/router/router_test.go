package router

import (
    "net/http"
    "net/http/httptest"
    "testing"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/rs/zerolog"
    "github.com/stretchr/testify/assert"

    "github.com/iliyamo/venue-booking/internal/approval"
    "github.com/iliyamo/venue-booking/internal/checkout"
    "github.com/iliyamo/venue-booking/internal/config"
    "github.com/iliyamo/venue-booking/internal/handler"
    "github.com/iliyamo/venue-booking/internal/onboarding"
    "github.com/iliyamo/venue-booking/internal/payment"
    "github.com/iliyamo/venue-booking/internal/pricing"
    "github.com/iliyamo/venue-booking/internal/repository"
    "github.com/iliyamo/venue-booking/internal/session"
)

func noop(next echo.HandlerFunc) echo.HandlerFunc { return next }

func newServer() *echo.Echo {
    store := session.NewMemoryStore(time.Hour)
    venues := repository.NewVenueRepo(nil)
    offers := repository.NewOfferRepo(nil)
    bookings := repository.NewBookingRepo(nil)
    auth := handler.NewAuthHandler(config.Config{JWTSecret: "s"}, repository.NewUserRepo(nil, 4), repository.NewTokenRepo(nil))
    wf := onboarding.NewWorkflow(onboarding.Deps{Drafts: store, Log: zerolog.Nop()})
    owner := handler.NewOwnerHandler(auth, wf, venues, offers, bookings)
    svc := checkout.NewService(checkout.Deps{Sessions: store, Policy: pricing.DefaultPolicy(), Catalog: pricing.DefaultCatalog(), Log: zerolog.Nop()})

    e := echo.New()
    RegisterRoutes(e, &handler.HealthHandler{})
    RegisterAuth(e, auth, "s", noop)
    RegisterPublic(e, handler.NewVenueHandler(venues, offers), noop)
    RegisterSession(e, handler.NewSelectionHandler(venues, offers, store), handler.NewCheckoutHandler(svc), owner, "s", time.Hour, noop)
    RegisterCustomer(e, handler.NewCustomerHandler(bookings, venues, repository.NewSavedVenueRepo(nil), payment.NewSimulated(0)), "s")
    RegisterOwner(e, owner, "s")
    RegisterAdmin(e, handler.NewAdminHandler(approval.NewWorkflow(nil, nil, "", zerolog.Nop()), repository.NewReferralRepo(nil), bookings), "s")
    return e
}

func TestRoutesRegistered(t *testing.T) {
    e := newServer()
    have := map[string]bool{}
    for _, r := range e.Routes() {
        have[r.Method+" "+r.Path] = true
    }
    for _, want := range []string{
        "GET /healthz",
        "GET /metrics",
        "GET /v1/venues",
        "GET /v1/venues/:id",
        "POST /v1/auth/register",
        "POST /v1/auth/login",
        "POST /v1/auth/refresh",
        "POST /v1/auth/logout",
        "GET /v1/me",
        "PUT /v1/venues/:id/selection",
        "GET /v1/venues/:id/checkout",
        "POST /v1/venues/:id/checkout/referral",
        "POST /v1/venues/:id/checkout/split",
        "POST /v1/venues/:id/checkout",
        "PUT /v1/owner/register/draft",
        "POST /v1/owner/register",
        "GET /v1/my-bookings",
        "POST /v1/bookings/:id/cancel",
        "GET /v1/me/loyalty",
        "DELETE /v1/saved-venues/:id",
        "GET /v1/owner/status",
        "PATCH /v1/owner/venues/:id",
        "GET /v1/owner/venues/:id/bookings",
        "GET /v1/admin/venues/pending",
        "POST /v1/admin/venues/:id/approve",
        "POST /v1/admin/venues/:id/reject",
        "GET /v1/admin/referrals",
        "POST /v1/admin/referrals",
        "DELETE /v1/admin/referrals/:code",
        "GET /v1/admin/bookings",
    } {
        assert.True(t, have[want], want)
    }
}

func TestProtectedGroupsNeedToken(t *testing.T) {
    e := newServer()
    for _, path := range []string{"/v1/my-bookings", "/v1/owner/venues", "/v1/admin/venues/pending"} {
        rec := httptest.NewRecorder()
        e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
        assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
    }
}

func TestHealthzWithoutDatabase(t *testing.T) {
    rec := httptest.NewRecorder()
    newServer().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
    assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
