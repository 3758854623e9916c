package handler

import (
    "net/http"
    "regexp"
    "strconv"
    "strings"

    "github.com/labstack/echo/v4"
    "github.com/samber/lo"

    "github.com/iliyamo/venue-booking/internal/apperr"
    "github.com/iliyamo/venue-booking/internal/approval"
    "github.com/iliyamo/venue-booking/internal/model"
    "github.com/iliyamo/venue-booking/internal/pricing"
    "github.com/iliyamo/venue-booking/internal/repository"
)

// AdminHandler serves the venue approval queue, the referral code table
// and the bookings overview.  Routes are ADMIN only.
type AdminHandler struct {
    Approval  *approval.Workflow
    Referrals *repository.ReferralRepo
    Bookings  *repository.BookingRepo
}

func NewAdminHandler(w *approval.Workflow, r *repository.ReferralRepo, b *repository.BookingRepo) *AdminHandler {
    return &AdminHandler{Approval: w, Referrals: r, Bookings: b}
}

// Pending handles GET /v1/admin/venues/pending.
func (h *AdminHandler) Pending(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()

    list, err := h.Approval.Pending(ctx)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": list, "count": len(list)})
}

// Approve handles POST /v1/admin/venues/:id/approve.
func (h *AdminHandler) Approve(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return badRequest(c, err.Error())
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    d, err := h.Approval.Approve(ctx, id)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, d)
}

type rejectReq struct {
    Reason string `json:"reason"`
}

// Reject handles POST /v1/admin/venues/:id/reject.  The body is optional;
// a blank reason is stored as the default.
func (h *AdminHandler) Reject(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return badRequest(c, err.Error())
    }
    var req rejectReq
    if c.Request().ContentLength != 0 {
        if err := c.Bind(&req); err != nil {
            return badRequest(c, "invalid body")
        }
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    d, err := h.Approval.Reject(ctx, id, req.Reason)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, d)
}

var referralCodeRe = regexp.MustCompile(`^[A-Z0-9_-]{3,32}$`)

type referralReq struct {
    Code        string   `json:"code"`
    DiscountPct int      `json:"discount_pct"`
    Perks       []string `json:"perks"`
}

func (r referralReq) toReferral() (pricing.Referral, error) {
    ref := pricing.Referral{
        Code:        pricing.NormalizeCode(r.Code),
        DiscountPct: r.DiscountPct,
        Perks: lo.Uniq(lo.FilterMap(r.Perks, func(p string, _ int) (string, bool) {
            p = strings.TrimSpace(p)
            return p, p != ""
        })),
    }
    v := &apperr.ValidationError{}
    if !referralCodeRe.MatchString(ref.Code) {
        v.Add("code", "Code must be 3-32 letters, digits, dashes or underscores")
    }
    if ref.DiscountPct < 0 || ref.DiscountPct > 100 {
        v.Add("discount_pct", "Discount must be between 0 and 100")
    }
    if lo.SomeBy(ref.Perks, model.HasControlChars) {
        v.Add("perks", "Perks must not contain control characters")
    }
    return ref, v.OrNil()
}

// ListReferrals handles GET /v1/admin/referrals.
func (h *AdminHandler) ListReferrals(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()

    list, err := h.Referrals.List(ctx)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": list, "count": len(list)})
}

// CreateReferral handles POST /v1/admin/referrals.  The code is stored
// normalized; an existing code is a conflict.
func (h *AdminHandler) CreateReferral(c echo.Context) error {
    var req referralReq
    if err := c.Bind(&req); err != nil {
        return badRequest(c, "invalid body")
    }
    ref, err := req.toReferral()
    if err != nil {
        return respondError(c, err)
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    if err := h.Referrals.Create(ctx, ref); err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusCreated, ref)
}

// DeleteReferral handles DELETE /v1/admin/referrals/:code.  Bookings that
// used the code keep their snapshot.
func (h *AdminHandler) DeleteReferral(c echo.Context) error {
    code := pricing.NormalizeCode(c.Param("code"))
    if code == "" {
        return badRequest(c, "invalid code")
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    if err := h.Referrals.Delete(ctx, code); err != nil {
        return respondError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}

const (
    defaultBookingsLimit = 100
    maxBookingsLimit     = 500
)

// ListBookings handles GET /v1/admin/bookings?status=&limit=.
func (h *AdminHandler) ListBookings(c echo.Context) error {
    status := model.BookingStatus(strings.ToLower(strings.TrimSpace(c.QueryParam("status"))))
    switch status {
    case "", model.BookingStatusConfirmed, model.BookingStatusPending, model.BookingStatusCancelled:
    default:
        return badRequest(c, "unknown status")
    }
    limit := defaultBookingsLimit
    if s := c.QueryParam("limit"); s != "" {
        n, err := strconv.Atoi(s)
        if err != nil || n < 1 {
            return badRequest(c, "invalid limit")
        }
        limit = min(n, maxBookingsLimit)
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    list, err := h.Bookings.ListRecent(ctx, status, limit)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": list, "count": len(list)})
}
