// Package repository contains the MySQL data access layer.  Repositories
// return sentinel errors so handlers and workflows can tell a missing row
// from a conflicting state without inspecting driver errors.
package repository

import (
    "errors"
    "fmt"
    "strings"

    "github.com/go-sql-driver/mysql"

    "github.com/iliyamo/venue-booking/internal/apperr"
)

// ErrForbidden is returned when the caller acts on a row owned by someone
// else.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a write cannot proceed because of the
// row's current state, such as cancelling an already cancelled booking.
var ErrConflict = errors.New("conflict")

var (
    ErrEmailExists     = errors.New("email already exists")
    ErrUserNotFound    = errors.New("user not found")
    ErrOwnerNotFound   = errors.New("venue owner not found")
    ErrVenueNotFound   = errors.New("venue not found")
    ErrOfferNotFound   = errors.New("offer not found")
    ErrBookingNotFound = errors.New("booking not found")
    ErrTokenInvalid    = errors.New("refresh token invalid")

    // ErrVenueNotPending is returned by a status transition when the venue
    // has already left the pending state.
    ErrVenueNotPending = fmt.Errorf("%w: venue is not pending", apperr.ErrStateGuard)
)

// isDuplicate reports whether err is a MySQL duplicate-key error (1062).
func isDuplicate(err error) bool {
    var me *mysql.MySQLError
    if errors.As(err, &me) {
        return me.Number == 1062
    }
    return err != nil && strings.Contains(err.Error(), "1062")
}
