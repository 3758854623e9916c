package checkout

import (
    "errors"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/venue-booking/internal/apperr"
)

func validForm() Form {
    return Form{
        FullName:   "Ada Obi",
        Email:      "ada@example.com",
        Phone:      "+2348012345678",
        CardNumber: "4242 4242 4242 4242",
        Expiry:     "12/27",
        CVV:        "123",
        AgreeTerms: true,
    }
}

func TestFormValidateAcceptsValidForm(t *testing.T) {
    assert.NoError(t, validForm().Validate())
}

func TestFormValidateCollectsEveryField(t *testing.T) {
    err := Form{}.Validate()

    var ve *apperr.ValidationError
    require.True(t, errors.As(err, &ve))
    assert.Equal(t, map[string]string{
        "full_name":   "Full name is required",
        "email":       "Email is required",
        "phone":       "Phone number is required",
        "card_number": "Card number is required",
        "expiry":      "Expiry date is required",
        "cvv":         "CVV is required",
        "terms":       "You must agree to the terms",
    }, ve.Fields)
}

func TestFormValidateFormats(t *testing.T) {
    tests := []struct {
        name  string
        edit  func(*Form)
        field string
        msg   string
    }{
        {"email without domain", func(f *Form) { f.Email = "ada@example" }, "email", "Email is invalid"},
        {"short card", func(f *Form) { f.CardNumber = "4242 4242" }, "card_number", "Card number must be 16 digits"},
        {"card with letters", func(f *Form) { f.CardNumber = "4242abcd42424242" }, "card_number", "Card number must be 16 digits"},
        {"month 13", func(f *Form) { f.Expiry = "13/27" }, "expiry", "Format must be MM/YY"},
        {"long year", func(f *Form) { f.Expiry = "12/2027" }, "expiry", "Format must be MM/YY"},
        {"cvv too short", func(f *Form) { f.CVV = "12" }, "cvv", "CVV must be 3 or 4 digits"},
        {"terms unchecked", func(f *Form) { f.AgreeTerms = false }, "terms", "You must agree to the terms"},
    }
    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            f := validForm()
            tt.edit(&f)
            var ve *apperr.ValidationError
            require.True(t, errors.As(f.Validate(), &ve))
            assert.Len(t, ve.Fields, 1)
            assert.Equal(t, tt.msg, ve.Fields[tt.field])
        })
    }
}

func TestFormValidateAcceptsExpiryWithoutSlashAndFourDigitCVV(t *testing.T) {
    f := validForm()
    f.Expiry = "0128"
    f.CVV = "1234"
    assert.NoError(t, f.Validate())
}
