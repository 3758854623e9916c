package handler

import (
    "context"
    "io"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"
    "github.com/rs/zerolog"

    "github.com/iliyamo/venue-booking/internal/apperr"
    "github.com/iliyamo/venue-booking/internal/middleware"
    "github.com/iliyamo/venue-booking/internal/model"
    "github.com/iliyamo/venue-booking/internal/onboarding"
    "github.com/iliyamo/venue-booking/internal/repository"
)

// OwnerHandler is the venue-owner console: onboarding, status routing,
// descriptive edits, offers and bookings of the owner's venues.
type OwnerHandler struct {
    Auth       *AuthHandler
    Onboarding *onboarding.Workflow
    Venues     *repository.VenueRepo
    Offers     *repository.OfferRepo
    Bookings   *repository.BookingRepo
}

// NewOwnerHandler panics if any dependency is nil.
func NewOwnerHandler(auth *AuthHandler, ob *onboarding.Workflow, v *repository.VenueRepo, o *repository.OfferRepo, b *repository.BookingRepo) *OwnerHandler {
    if auth == nil || ob == nil || v == nil || o == nil || b == nil {
        panic("nil dependency passed to NewOwnerHandler")
    }
    return &OwnerHandler{Auth: auth, Onboarding: ob, Venues: v, Offers: o, Bookings: b}
}

// SaveDraft handles PUT /v1/owner/register/draft.
func (h *OwnerHandler) SaveDraft(c echo.Context) error {
    raw, err := io.ReadAll(io.LimitReader(c.Request().Body, onboarding.MaxDraftBytes+1))
    if err != nil {
        return badRequest(c, "invalid body")
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    if err := h.Onboarding.SaveDraft(ctx, middleware.SessionID(c), raw); err != nil {
        return respondError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}

// LoadDraft handles GET /v1/owner/register/draft.
func (h *OwnerHandler) LoadDraft(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()

    raw, err := h.Onboarding.LoadDraft(ctx, middleware.SessionID(c))
    if err != nil {
        return respondError(c, err)
    }
    return c.JSONBlob(http.StatusOK, raw)
}

type ownerRegisterResp struct {
    onboarding.Result
    Auth authResp `json:"auth"`
}

// Register handles POST /v1/owner/register.  It runs the onboarding saga
// and signs the new owner in.
func (h *OwnerHandler) Register(c echo.Context) error {
    var reg onboarding.Registration
    if err := c.Bind(&reg); err != nil {
        return badRequest(c, "invalid body")
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    res, err := h.Onboarding.Register(ctx, middleware.SessionID(c), reg)
    if err != nil {
        return respondError(c, err)
    }
    tokens, err := h.Auth.issueTokens(ctx, userPart{ID: res.Owner.UserID, Email: res.Owner.Email, Role: model.RoleOwner})
    if err != nil {
        // The venue is already submitted; the owner can still sign in.
        zerolog.Ctx(ctx).Warn().Err(err).Uint64("user_id", res.Owner.UserID).Msg("issue owner tokens failed")
        return c.JSON(http.StatusCreated, res)
    }
    return c.JSON(http.StatusCreated, ownerRegisterResp{Result: res, Auth: tokens})
}

// Status handles GET /v1/owner/status: where the console should send the
// owner, with the venues that decided it.
func (h *OwnerHandler) Status(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return unauthorized(c)
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    venues, err := h.Venues.ListByOwner(ctx, uid)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"destination": onboarding.Destination(venues), "venues": venues})
}

// ListVenues handles GET /v1/owner/venues.
func (h *OwnerHandler) ListVenues(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return unauthorized(c)
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    venues, err := h.Venues.ListByOwner(ctx, uid)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": venues, "count": len(venues)})
}

// UpdateVenue handles PATCH /v1/owner/venues/:id.  Status fields are not
// part of the body and cannot be changed here.
func (h *OwnerHandler) UpdateVenue(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return unauthorized(c)
    }
    id, err := parseID(c, "id")
    if err != nil {
        return badRequest(c, err.Error())
    }
    var d repository.VenueDetails
    if err := c.Bind(&d); err != nil {
        return badRequest(c, "invalid body")
    }
    if d.Empty() {
        return badRequest(c, "no fields to update")
    }
    if d.Name != nil {
        switch {
        case strings.TrimSpace(*d.Name) == "":
            return respondError(c, &apperr.ValidationError{Fields: map[string]string{"name": "Venue name is required"}})
        case model.HasControlChars(*d.Name):
            return respondError(c, &apperr.ValidationError{Fields: map[string]string{"name": "Venue name must not contain control characters"}})
        }
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    if err := h.Venues.UpdateDetails(ctx, id, uid, d); err != nil {
        return respondError(c, err)
    }
    v, err := h.Venues.GetByID(ctx, id)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, v)
}

// ownedVenue loads a venue and checks it belongs to ownerID.
func (h *OwnerHandler) ownedVenue(ctx context.Context, id, ownerID uint64) (*model.Venue, error) {
    v, err := h.Venues.GetByID(ctx, id)
    if err != nil {
        return nil, err
    }
    if v.OwnerID != ownerID {
        return nil, repository.ErrForbidden
    }
    return v, nil
}

// editableVenue is ownedVenue for writes: rejected venues are read-only.
func (h *OwnerHandler) editableVenue(ctx context.Context, id, ownerID uint64) (*model.Venue, error) {
    v, err := h.ownedVenue(ctx, id, ownerID)
    if err != nil {
        return nil, err
    }
    if v.Status == model.VenueStatusRejected {
        return nil, repository.ErrConflict
    }
    return v, nil
}

type ticketReq struct {
    Name        string `json:"name"`
    Description string `json:"description"`
    Price       int64  `json:"price"`
    Capacity    uint32 `json:"capacity"`
}

// CreateTicket handles POST /v1/owner/venues/:id/tickets.
func (h *OwnerHandler) CreateTicket(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return unauthorized(c)
    }
    venueID, err := parseID(c, "id")
    if err != nil {
        return badRequest(c, err.Error())
    }
    var req ticketReq
    if err := c.Bind(&req); err != nil {
        return badRequest(c, "invalid body")
    }
    verr := &apperr.ValidationError{}
    if strings.TrimSpace(req.Name) == "" {
        verr.Add("name", "Ticket name is required")
    }
    if req.Price < 0 {
        verr.Add("price", "Price must not be negative")
    }
    if err := verr.OrNil(); err != nil {
        return respondError(c, err)
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    if _, err := h.editableVenue(ctx, venueID, uid); err != nil {
        return respondError(c, err)
    }
    t := &model.Ticket{VenueID: venueID, Name: strings.TrimSpace(req.Name), Description: req.Description, Price: req.Price, Capacity: req.Capacity}
    if err := h.Offers.CreateTicket(ctx, t); err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusCreated, t)
}

type tableReq struct {
    Name        string `json:"name"`
    Description string `json:"description"`
    Price       int64  `json:"price"`
    MinGuests   uint32 `json:"min_guests"`
    MaxGuests   uint32 `json:"max_guests"`
}

// CreateTable handles POST /v1/owner/venues/:id/tables.
func (h *OwnerHandler) CreateTable(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return unauthorized(c)
    }
    venueID, err := parseID(c, "id")
    if err != nil {
        return badRequest(c, err.Error())
    }
    var req tableReq
    if err := c.Bind(&req); err != nil {
        return badRequest(c, "invalid body")
    }
    verr := &apperr.ValidationError{}
    if strings.TrimSpace(req.Name) == "" {
        verr.Add("name", "Table name is required")
    }
    if req.Price < 0 {
        verr.Add("price", "Price must not be negative")
    }
    if req.MaxGuests > 0 && req.MinGuests > req.MaxGuests {
        verr.Add("max_guests", "Max guests must be at least min guests")
    }
    if err := verr.OrNil(); err != nil {
        return respondError(c, err)
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    if _, err := h.editableVenue(ctx, venueID, uid); err != nil {
        return respondError(c, err)
    }
    t := &model.Table{
        VenueID:     venueID,
        Name:        strings.TrimSpace(req.Name),
        Description: req.Description,
        Price:       req.Price,
        MinGuests:   req.MinGuests,
        MaxGuests:   req.MaxGuests,
    }
    if err := h.Offers.CreateTable(ctx, t); err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusCreated, t)
}

// VenueBookings handles GET /v1/owner/venues/:id/bookings.
func (h *OwnerHandler) VenueBookings(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return unauthorized(c)
    }
    venueID, err := parseID(c, "id")
    if err != nil {
        return badRequest(c, err.Error())
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    if _, err := h.ownedVenue(ctx, venueID, uid); err != nil {
        return respondError(c, err)
    }
    items, err := h.Bookings.ListByVenue(ctx, venueID)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}
