// Package apperr defines the error kinds shared by the booking, onboarding
// and approval workflows.  Handlers classify errors with errors.Is and
// errors.As against the values declared here.
package apperr

import (
    "context"
    "errors"
    "fmt"
    "sort"
    "strings"
)

var (
    // ErrStateGuard is returned when an operation is attempted from a state
    // that does not allow it: a checkout without a matching selection, or a
    // venue decision on a venue that is no longer pending.
    ErrStateGuard = errors.New("state guard violation")

    // ErrInvariant is returned for arguments that can never be valid, such
    // as a split count below one.  No collaborator is called.
    ErrInvariant = errors.New("invariant violation")

    // ErrReferralRejected is returned when a referral code is unknown.
    // Pricing state is left untouched.
    ErrReferralRejected = errors.New("referral code rejected")

    // ErrTimeout is returned when a collaborator did not answer in time.
    ErrTimeout = errors.New("collaborator timeout")

    // ErrSubmitInFlight is returned when a second submit arrives while the
    // first one for the same session is still running.
    ErrSubmitInFlight = errors.New("submission already in progress")

    // ErrPaymentDeclined is returned when the payment processor declines.
    ErrPaymentDeclined = errors.New("payment declined")
)

// ValidationError carries one message per invalid field.  Every field is
// checked before the error is returned.
type ValidationError struct {
    Fields map[string]string
}

func (e *ValidationError) Error() string {
    keys := make([]string, 0, len(e.Fields))
    for k := range e.Fields {
        keys = append(keys, k)
    }
    sort.Strings(keys)
    parts := make([]string, 0, len(keys))
    for _, k := range keys {
        parts = append(parts, k+": "+e.Fields[k])
    }
    return "validation failed: " + strings.Join(parts, "; ")
}

// Add records msg for field unless the field already has a message.
func (e *ValidationError) Add(field, msg string) {
    if e.Fields == nil {
        e.Fields = make(map[string]string)
    }
    if _, ok := e.Fields[field]; !ok {
        e.Fields[field] = msg
    }
}

// OrNil returns e when it holds at least one field error and nil otherwise.
func (e *ValidationError) OrNil() error {
    if e == nil || len(e.Fields) == 0 {
        return nil
    }
    return e
}

// CollaboratorError wraps a failure of an external collaborator (storage,
// auth, payment, notification).
type CollaboratorError struct {
    Collaborator string
    Op           string
    Err          error
}

func (e *CollaboratorError) Error() string {
    return fmt.Sprintf("%s %s: %v", e.Collaborator, e.Op, e.Err)
}

func (e *CollaboratorError) Unwrap() error { return e.Err }

// Is makes deadline and cancellation failures match ErrTimeout.
func (e *CollaboratorError) Is(target error) bool {
    if target != ErrTimeout {
        return false
    }
    return errors.Is(e.Err, context.DeadlineExceeded)
}

// Collaborator wraps err as a CollaboratorError.  A nil err returns nil.
func Collaborator(name, op string, err error) error {
    if err == nil {
        return nil
    }
    return &CollaboratorError{Collaborator: name, Op: op, Err: err}
}

// Invariant returns an ErrInvariant carrying msg.
func Invariant(msg string) error {
    return fmt.Errorf("%w: %s", ErrInvariant, msg)
}
