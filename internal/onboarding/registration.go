package onboarding

import (
    "regexp"
    "strings"

    "github.com/iliyamo/venue-booking/internal/apperr"
    "github.com/iliyamo/venue-booking/internal/model"
)

var emailRe = regexp.MustCompile(`\S+@\S+\.\S+`)

// Owner password length bounds.  bcrypt ignores bytes past 72.
const (
    MinPasswordLen = 8
    MaxPasswordLen = 72
)

// Registration is the owner sign-up form: the owner's account and
// contact details plus the venue to be reviewed.
type Registration struct {
    FullName string `json:"full_name"`
    Email    string `json:"email"`
    Phone    string `json:"phone"`
    Password string `json:"password"`

    VenueName        string `json:"venue_name"`
    VenueDescription string `json:"venue_description"`
    VenueLocation    string `json:"venue_location"`
    VenueAddress     string `json:"venue_address"`
    VenuePhone       string `json:"venue_phone"`
    VenueEmail       string `json:"venue_email"`
    VenueType        string `json:"venue_type"`
    OpeningHours     string `json:"opening_hours"`
    Capacity         uint32 `json:"capacity"`
    PriceRange       string `json:"price_range"`
}

// Normalize trims every text field and fills the form defaults.
func (r *Registration) Normalize() {
    for _, f := range []*string{&r.FullName, &r.Email, &r.Phone, &r.VenueName, &r.VenueDescription,
        &r.VenueLocation, &r.VenueAddress, &r.VenuePhone, &r.VenueEmail, &r.VenueType, &r.OpeningHours, &r.PriceRange} {
        *f = strings.TrimSpace(*f)
    }
    r.Email = strings.ToLower(r.Email)
    if r.VenueType == "" {
        r.VenueType = "restaurant"
    }
    if r.PriceRange == "" {
        r.PriceRange = "medium"
    }
}

// Validate reports every invalid field at once.
func (r Registration) Validate() error {
    v := &apperr.ValidationError{}
    switch {
    case strings.TrimSpace(r.FullName) == "":
        v.Add("full_name", "Full name is required")
    case model.HasControlChars(r.FullName):
        v.Add("full_name", "Full name must not contain control characters")
    }
    switch email := strings.TrimSpace(r.Email); {
    case email == "":
        v.Add("email", "Email is required")
    case !emailRe.MatchString(email):
        v.Add("email", "Email is invalid")
    }
    if strings.TrimSpace(r.Phone) == "" {
        v.Add("phone", "Phone number is required")
    }
    switch {
    case len(r.Password) < MinPasswordLen:
        v.Add("password", "Password must be at least 8 characters")
    case len(r.Password) > MaxPasswordLen:
        v.Add("password", "Password must be at most 72 characters")
    }
    switch {
    case strings.TrimSpace(r.VenueName) == "":
        v.Add("venue_name", "Venue name is required")
    case model.HasControlChars(r.VenueName):
        v.Add("venue_name", "Venue name must not contain control characters")
    }
    if strings.TrimSpace(r.VenueAddress) == "" {
        v.Add("venue_address", "Venue address is required")
    }
    if ve := strings.TrimSpace(r.VenueEmail); ve != "" && !emailRe.MatchString(ve) {
        v.Add("venue_email", "Email is invalid")
    }
    return v.OrNil()
}

func (r Registration) owner(userID uint64) *model.VenueOwner {
    return &model.VenueOwner{UserID: userID, FullName: r.FullName, Email: r.Email, Phone: r.Phone}
}

func (r Registration) venue(ownerID uint64) *model.Venue {
    return &model.Venue{
        OwnerID:      ownerID,
        Name:         r.VenueName,
        Description:  r.VenueDescription,
        Location:     r.VenueLocation,
        Address:      r.VenueAddress,
        VenueType:    r.VenueType,
        Phone:        r.VenuePhone,
        Email:        r.VenueEmail,
        OpeningHours: r.OpeningHours,
        Capacity:     r.Capacity,
        PriceRange:   r.PriceRange,
        Status:       model.VenueStatusPending,
    }
}
