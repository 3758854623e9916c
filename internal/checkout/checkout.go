// Package checkout implements the booking state machine: the entry guard
// over the session's selection, referral application, split payment and
// the submit sequence that charges, persists and confirms a booking.
package checkout

import (
    "context"
    "errors"
    "fmt"
    "strconv"
    "strings"
    "time"

    "github.com/rs/zerolog"
    "github.com/samber/lo"

    "github.com/iliyamo/venue-booking/internal/apperr"
    "github.com/iliyamo/venue-booking/internal/metrics"
    "github.com/iliyamo/venue-booking/internal/model"
    "github.com/iliyamo/venue-booking/internal/notify"
    "github.com/iliyamo/venue-booking/internal/payment"
    "github.com/iliyamo/venue-booking/internal/pricing"
    "github.com/iliyamo/venue-booking/internal/queue"
    "github.com/iliyamo/venue-booking/internal/session"
)

// State is the position of a session in the checkout flow.
type State string

const (
    StateSelecting   State = "Selecting"
    StateFormEditing State = "FormEditing"
    StateValidating  State = "Validating"
    StateSubmitting  State = "Submitting"
    StateConfirmed   State = "Confirmed"
    StateBlocked     State = "Blocked"
)

// ErrBlocked is returned when the session holds no usable selection for
// the venue.  Callers send the customer back to the venue page.
var ErrBlocked = fmt.Errorf("%w: no selection for this venue", apperr.ErrStateGuard)

// FixedPerks are granted with every confirmed booking.
var FixedPerks = []string{"Free Welcome Drink", "Priority Queue"}

// BookingWriter persists confirmed bookings.
type BookingWriter interface {
    CreateBooking(ctx context.Context, b *model.Booking) error
}

// EventPublisher publishes booking events to the broker.
type EventPublisher interface {
    PublishBookingConfirmed(ctx context.Context, ev queue.BookingConfirmedEvent) error
}

// Deps are the collaborators of a Service.  Events and Notifier may be
// nil.
type Deps struct {
    Sessions       session.Store
    Bookings       BookingWriter
    Payments       payment.Processor
    Events         EventPublisher
    Notifier       notify.Notifier
    Policy         pricing.Policy
    Catalog        *pricing.Catalog
    Links          pricing.LinkBuilder
    PaymentTimeout time.Duration
    Log            zerolog.Logger
}

// Service runs checkouts.  It is safe for concurrent use; per-session
// exclusion comes from the session store's submit guard.
type Service struct {
    sessions       session.Store
    bookings       BookingWriter
    payments       payment.Processor
    events         EventPublisher
    notifier       notify.Notifier
    policy         pricing.Policy
    catalog        *pricing.Catalog
    links          pricing.LinkBuilder
    paymentTimeout time.Duration
    log            zerolog.Logger
    now            func() time.Time
}

func NewService(d Deps) *Service {
    if d.Notifier == nil {
        d.Notifier = notify.Discard
    }
    if d.Catalog == nil {
        d.Catalog = pricing.DefaultCatalog()
    }
    if d.PaymentTimeout <= 0 {
        d.PaymentTimeout = 15 * time.Second
    }
    return &Service{
        sessions:       d.Sessions,
        bookings:       d.Bookings,
        payments:       d.Payments,
        events:         d.Events,
        notifier:       d.Notifier,
        policy:         d.Policy,
        catalog:        d.Catalog,
        links:          d.Links,
        paymentTimeout: d.PaymentTimeout,
        log:            d.Log.With().Str("component", "checkout").Logger(),
        now:            time.Now,
    }
}

// View is what the checkout page shows for a session.
type View struct {
    State     State             `json:"state"`
    Selection *model.Selection  `json:"selection,omitempty"`
    Referral  *pricing.Referral `json:"referral,omitempty"`
    Quote     pricing.Quote     `json:"quote"`
}

// Confirmation is the result of a successful submit.
type Confirmation struct {
    State            State         `json:"state"`
    BookingID        uint64        `json:"booking_id"`
    VenueID          uint64        `json:"venue_id"`
    VenueName        string        `json:"venue_name"`
    Email            string        `json:"email"`
    Quote            pricing.Quote `json:"quote"`
    DiscountApplied  bool          `json:"discount_applied"`
    ReferralRejected bool          `json:"referral_rejected"`
    Perks            []string      `json:"perks"`
    LoyaltyPoints    int64         `json:"loyalty_points"`
    PaymentRef       string        `json:"payment_ref"`
}

// Open applies the entry guard.  It returns ErrBlocked when the session
// has no selection for venueID and the priced view otherwise.
func (s *Service) Open(ctx context.Context, sid string, venueID uint64) (View, error) {
    sel, err := s.sessions.LoadSelection(ctx, sid)
    if errors.Is(err, session.ErrNotFound) {
        return View{State: StateBlocked}, ErrBlocked
    }
    if err != nil {
        return View{State: StateBlocked}, apperr.Collaborator("session", "load selection", err)
    }
    if sel.VenueID != venueID || sel.Empty() {
        return View{State: StateBlocked}, ErrBlocked
    }
    ref, err := s.sessions.LoadReferral(ctx, sid)
    if err != nil {
        return View{State: StateBlocked}, apperr.Collaborator("session", "load referral", err)
    }
    return View{
        State:     StateFormEditing,
        Selection: sel,
        Referral:  ref,
        Quote:     s.policy.Quote(sel, ref),
    }, nil
}

// ApplyReferral validates code and makes it the active referral.  An
// unknown code returns apperr.ErrReferralRejected with the view unchanged.
func (s *Service) ApplyReferral(ctx context.Context, sid string, venueID uint64, code string) (View, error) {
    view, err := s.Open(ctx, sid, venueID)
    if err != nil {
        return view, err
    }
    res, err := s.catalog.Resolve(ctx, code)
    if err != nil {
        return view, apperr.Collaborator("storage", "find referral", err)
    }
    if !res.Valid {
        metrics.Referrals.WithLabelValues("rejected").Inc()
        return view, apperr.ErrReferralRejected
    }
    next, changed := pricing.Activate(view.Referral, res.Referral)
    if !changed {
        metrics.Referrals.WithLabelValues("unchanged").Inc()
        return view, nil
    }
    if err := s.sessions.SaveReferral(ctx, sid, next); err != nil {
        return view, apperr.Collaborator("session", "save referral", err)
    }
    metrics.Referrals.WithLabelValues("applied").Inc()
    view.Referral = &next
    view.Quote = s.policy.Quote(view.Selection, &next)
    return view, nil
}

// Split divides the current total into n payment links.
func (s *Service) Split(ctx context.Context, sid string, venueID uint64, n int) (pricing.SplitPlan, error) {
    view, err := s.Open(ctx, sid, venueID)
    if err != nil {
        return pricing.SplitPlan{}, err
    }
    return pricing.MakeSplitPlan(venueID, view.Quote.Total, n, s.links)
}

// Submit validates the form, charges the total and records the booking.
// userID is nil for guest checkouts.  On any payment failure nothing is
// stored and the selection stays in the session so the customer can retry.
func (s *Service) Submit(ctx context.Context, sid string, venueID uint64, userID *uint64, form Form) (Confirmation, error) {
    log := s.log.With().Str("session_id", sid).Uint64("venue_id", venueID).Logger()

    ok, err := s.sessions.AcquireSubmit(ctx, sid)
    if err != nil {
        return Confirmation{State: StateFormEditing}, apperr.Collaborator("session", "acquire submit", err)
    }
    if !ok {
        metrics.Checkouts.WithLabelValues("in_flight").Inc()
        return Confirmation{State: StateSubmitting}, apperr.ErrSubmitInFlight
    }
    defer func() {
        if err := s.sessions.ReleaseSubmit(context.WithoutCancel(ctx), sid); err != nil {
            log.Warn().Err(err).Msg("release submit guard")
        }
    }()

    // The selection is read under the guard: a submit that finished while
    // this one waited has already cleared it.
    view, err := s.Open(ctx, sid, venueID)
    if err != nil {
        metrics.Checkouts.WithLabelValues("blocked").Inc()
        return Confirmation{State: view.State}, err
    }

    if err := form.Validate(); err != nil {
        metrics.Checkouts.WithLabelValues("invalid").Inc()
        return Confirmation{State: StateFormEditing}, err
    }

    ref, referralRejected, err := s.applyFormReferral(ctx, sid, view.Referral, form.ReferralCode)
    if err != nil {
        return Confirmation{State: StateFormEditing}, err
    }
    quote := s.policy.Quote(view.Selection, ref)
    if quote.Total < 0 {
        return Confirmation{State: StateFormEditing}, apperr.Invariant("checkout total must not be negative")
    }

    // A zero total (free entry, full discount) books without a charge.
    var receipt payment.Receipt
    if quote.Total > 0 {
        receipt, err = s.charge(ctx, quote.Total, payment.MethodToken(form.cardDigits()))
        if err != nil {
            log.Info().Err(err).Int64("total", quote.Total).Msg("payment failed")
            return Confirmation{State: StateFormEditing}, err
        }
    }

    booking := s.bookingFrom(sid, userID, view.Selection, quote, ref, form, receipt)
    if err := s.bookings.CreateBooking(ctx, booking); err != nil {
        metrics.Checkouts.WithLabelValues("failed").Inc()
        s.refund(ctx, log, receipt)
        return Confirmation{State: StateFormEditing}, apperr.Collaborator("storage", "create booking", err)
    }

    if err := s.sessions.ClearSelection(ctx, sid); err != nil {
        log.Warn().Err(err).Uint64("booking_id", booking.ID).Msg("clear selection after booking")
    }

    metrics.Checkouts.WithLabelValues("confirmed").Inc()
    metrics.BookedAmount.Add(float64(booking.TotalAmount))
    log.Info().Uint64("booking_id", booking.ID).Int64("total", booking.TotalAmount).
        Str("payment_ref", receipt.Reference).Msg("booking confirmed")

    s.announce(ctx, log, booking)

    return Confirmation{
        State:            StateConfirmed,
        BookingID:        booking.ID,
        VenueID:          booking.VenueID,
        VenueName:        booking.VenueName,
        Email:            booking.Email,
        Quote:            quote,
        DiscountApplied:  quote.DiscountApplied(),
        ReferralRejected: referralRejected,
        Perks:            booking.Perks,
        LoyaltyPoints:    booking.LoyaltyPoints,
        PaymentRef:       receipt.Reference,
    }, nil
}

// applyFormReferral applies the code typed into the form when it differs
// from the active referral.  An unknown code is reported, not fatal.
func (s *Service) applyFormReferral(ctx context.Context, sid string, current *pricing.Referral, code string) (*pricing.Referral, bool, error) {
    if pricing.NormalizeCode(code) == "" {
        return current, false, nil
    }
    res, err := s.catalog.Resolve(ctx, code)
    if err != nil {
        return current, false, apperr.Collaborator("storage", "find referral", err)
    }
    if !res.Valid {
        metrics.Referrals.WithLabelValues("rejected").Inc()
        return current, true, nil
    }
    next, changed := pricing.Activate(current, res.Referral)
    if changed {
        if err := s.sessions.SaveReferral(ctx, sid, next); err != nil {
            return current, false, apperr.Collaborator("session", "save referral", err)
        }
        metrics.Referrals.WithLabelValues("applied").Inc()
    }
    return &next, false, nil
}

func (s *Service) charge(ctx context.Context, total int64, token string) (payment.Receipt, error) {
    pctx, cancel := context.WithTimeout(ctx, s.paymentTimeout)
    defer cancel()

    receipt, err := s.payments.Charge(pctx, total, token)
    switch {
    case err == nil:
        return receipt, nil
    case errors.Is(err, payment.ErrDeclined):
        metrics.Checkouts.WithLabelValues("declined").Inc()
        return payment.Receipt{}, apperr.ErrPaymentDeclined
    case errors.Is(err, context.DeadlineExceeded):
        metrics.Checkouts.WithLabelValues("timeout").Inc()
    default:
        metrics.Checkouts.WithLabelValues("failed").Inc()
    }
    return payment.Receipt{}, apperr.Collaborator("payment", "charge", err)
}

func (s *Service) refund(ctx context.Context, log zerolog.Logger, receipt payment.Receipt) {
    if receipt.Reference == "" {
        return
    }
    rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.paymentTimeout)
    defer cancel()
    if err := s.payments.Refund(rctx, receipt); err != nil {
        log.Error().Err(err).Str("payment_ref", receipt.Reference).Msg("refund after failed booking write")
        return
    }
    log.Warn().Str("payment_ref", receipt.Reference).Msg("charge refunded after failed booking write")
}

func (s *Service) bookingFrom(sid string, userID *uint64, sel *model.Selection, q pricing.Quote, ref *pricing.Referral, form Form, receipt payment.Receipt) *model.Booking {
    perks := append([]string{}, FixedPerks...)
    var code *string
    if ref != nil {
        perks = append(perks, ref.Perks...)
        c := ref.Code
        code = &c
    }
    return &model.Booking{
        UserID:        userID,
        SessionID:     sid,
        VenueID:       sel.VenueID,
        VenueName:     sel.VenueName,
        Selection:     *sel,
        Subtotal:      q.Subtotal,
        ServiceFee:    q.ServiceFee.String(),
        DiscountPct:   q.DiscountPct,
        TotalAmount:   q.Total,
        CustomerName:  form.FullName,
        Email:         form.Email,
        Phone:         form.Phone,
        ReferralCode:  code,
        Perks:         lo.Uniq(perks),
        LoyaltyPoints: pricing.PointsFor(q.Total),
        PaymentRef:    receipt.Reference,
        Status:        model.BookingStatusConfirmed,
        CreatedAt:     s.now().UTC(),
    }
}

// announce publishes the booking event and queues the confirmation email.
// Failures are logged and counted only.
func (s *Service) announce(ctx context.Context, log zerolog.Logger, b *model.Booking) {
    if s.events != nil {
        ev := queue.BookingConfirmedEvent{
            BookingID:     b.ID,
            UserID:        b.UserID,
            VenueID:       b.VenueID,
            VenueName:     b.VenueName,
            Email:         b.Email,
            TotalAmount:   b.TotalAmount,
            DiscountPct:   b.DiscountPct,
            Perks:         b.Perks,
            LoyaltyPoints: b.LoyaltyPoints,
            PaymentRef:    b.PaymentRef,
            ConfirmedAt:   b.CreatedAt.Format(time.RFC3339),
        }
        if b.Selection.Ticket != nil {
            ev.TicketName = b.Selection.Ticket.Name
        }
        if b.Selection.Table != nil {
            ev.TableName = b.Selection.Table.Name
        }
        if b.ReferralCode != nil {
            ev.ReferralCode = *b.ReferralCode
        }
        if err := s.events.PublishBookingConfirmed(ctx, ev); err != nil {
            log.Warn().Err(err).Uint64("booking_id", b.ID).Msg("publish booking.confirmed")
        }
    }

    msg := notify.Message{
        To:       b.Email,
        Subject:  "Your booking at " + b.VenueName + " is confirmed",
        Template: notify.TemplateBookingConfirmed,
        Data: map[string]string{
            "customerName": b.CustomerName,
            "venueName":    b.VenueName,
            "bookingID":    strconv.FormatUint(b.ID, 10),
            "total":        strconv.FormatInt(b.TotalAmount, 10),
            "perks":        strings.Join(b.Perks, ", "),
        },
    }
    if err := s.notifier.Notify(ctx, msg); err != nil {
        metrics.NotificationsDropped.WithLabelValues(msg.Template).Inc()
        log.Warn().Err(err).Uint64("booking_id", b.ID).Msg("queue booking confirmation email")
    }
}
