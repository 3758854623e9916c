// Package notify describes outgoing email notifications.  Workflows hand a
// Message to a Notifier; delivery happens asynchronously through the
// message broker and a Mailer.
package notify

import (
    "context"
)

// Template names understood by Render.
const (
    TemplateAdminVenueSubmitted = "admin-venue-submitted"
    TemplateVenueApproved       = "venue-approved"
    TemplateVenueRejected       = "venue-rejected"
    TemplateBookingConfirmed    = "booking-confirmed"
)

// Message is a templated email addressed to one recipient.
type Message struct {
    To       string            `json:"to"`
    Subject  string            `json:"subject"`
    Template string            `json:"template"`
    Data     map[string]string `json:"data"`
}

// Notifier sends messages.  Callers treat it as fire-and-forget: an error
// is logged by the caller and never undoes the work that triggered it.
type Notifier interface {
    Notify(ctx context.Context, msg Message) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, msg Message) error

func (f NotifierFunc) Notify(ctx context.Context, msg Message) error { return f(ctx, msg) }

// Discard drops every message.
var Discard Notifier = NotifierFunc(func(context.Context, Message) error { return nil })
