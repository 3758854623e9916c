package checkout

import (
    "regexp"
    "strings"

    "github.com/iliyamo/venue-booking/internal/apperr"
)

var (
    emailRe  = regexp.MustCompile(`\S+@\S+\.\S+`)
    cardRe   = regexp.MustCompile(`^\d{16}$`)
    expiryRe = regexp.MustCompile(`^(0[1-9]|1[0-2])\/?([0-9]{2})$`)
    cvvRe    = regexp.MustCompile(`^\d{3,4}$`)
)

// Form is the checkout form posted by the customer.
type Form struct {
    FullName     string `json:"full_name"`
    Email        string `json:"email"`
    Phone        string `json:"phone"`
    CardNumber   string `json:"card_number"`
    Expiry       string `json:"expiry"`
    CVV          string `json:"cvv"`
    ReferralCode string `json:"referral_code"`
    AgreeTerms   bool   `json:"agree_terms"`
}

// Validate checks every field and returns an *apperr.ValidationError
// listing all failures, or nil.
func (f Form) Validate() error {
    v := &apperr.ValidationError{}

    if strings.TrimSpace(f.FullName) == "" {
        v.Add("full_name", "Full name is required")
    }

    switch email := strings.TrimSpace(f.Email); {
    case email == "":
        v.Add("email", "Email is required")
    case !emailRe.MatchString(email):
        v.Add("email", "Email is invalid")
    }

    if strings.TrimSpace(f.Phone) == "" {
        v.Add("phone", "Phone number is required")
    }

    switch card := f.cardDigits(); {
    case card == "":
        v.Add("card_number", "Card number is required")
    case !cardRe.MatchString(card):
        v.Add("card_number", "Card number must be 16 digits")
    }

    switch exp := strings.TrimSpace(f.Expiry); {
    case exp == "":
        v.Add("expiry", "Expiry date is required")
    case !expiryRe.MatchString(exp):
        v.Add("expiry", "Format must be MM/YY")
    }

    switch cvv := strings.TrimSpace(f.CVV); {
    case cvv == "":
        v.Add("cvv", "CVV is required")
    case !cvvRe.MatchString(cvv):
        v.Add("cvv", "CVV must be 3 or 4 digits")
    }

    if !f.AgreeTerms {
        v.Add("terms", "You must agree to the terms")
    }
    return v.OrNil()
}

// cardDigits returns the card number with whitespace removed.
func (f Form) cardDigits() string {
    return strings.Join(strings.Fields(f.CardNumber), "")
}
