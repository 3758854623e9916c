// Package payment defines the payment collaborator used by checkout and a
// simulated processor that stands in for a real gateway.
package payment

import (
    "context"
    "errors"
    "fmt"
    "strings"
    "time"

    "github.com/lithammer/shortuuid/v3"
)

// ErrDeclined is returned when the processor refuses the charge.
var ErrDeclined = errors.New("payment declined")

// ErrUnknownReceipt is returned when a refund names no charge of this
// processor.
var ErrUnknownReceipt = errors.New("unknown payment reference")

// refPrefix marks references issued by Simulated.
const refPrefix = "pay_"

// Receipt is proof of a successful charge.
type Receipt struct {
    Reference string    `json:"reference"`
    Amount    int64     `json:"amount"`
    ChargedAt time.Time `json:"charged_at"`
}

// Processor charges a tokenized payment method.  Refund reverses a charge;
// it runs when a booking cannot be stored after a successful charge and
// when a customer cancels a paid booking.
type Processor interface {
    Charge(ctx context.Context, amount int64, methodToken string) (Receipt, error)
    Refund(ctx context.Context, r Receipt) error
}

// DeclineSuffix makes the simulated processor decline a token.
const DeclineSuffix = "0002"

// Simulated waits Delay and then approves every token except those ending
// in DeclineSuffix.  It honours ctx cancellation while waiting.  It keeps
// no state: a refund is accepted for any reference it could have issued.
type Simulated struct {
    Delay time.Duration
    now   func() time.Time
}

func NewSimulated(delay time.Duration) *Simulated {
    return &Simulated{Delay: delay, now: time.Now}
}

func (s *Simulated) Charge(ctx context.Context, amount int64, methodToken string) (Receipt, error) {
    if amount <= 0 {
        return Receipt{}, errors.New("amount must be positive")
    }
    if err := s.wait(ctx); err != nil {
        return Receipt{}, err
    }
    if strings.HasSuffix(methodToken, DeclineSuffix) {
        return Receipt{}, ErrDeclined
    }
    return Receipt{
        Reference: refPrefix + shortuuid.New(),
        Amount:    amount,
        ChargedAt: s.now().UTC(),
    }, nil
}

func (s *Simulated) Refund(ctx context.Context, r Receipt) error {
    if err := ctx.Err(); err != nil {
        return err
    }
    if !strings.HasPrefix(r.Reference, refPrefix) || len(r.Reference) == len(refPrefix) {
        return fmt.Errorf("refund %q: %w", r.Reference, ErrUnknownReceipt)
    }
    return nil
}

func (s *Simulated) wait(ctx context.Context) error {
    if s.Delay <= 0 {
        return ctx.Err()
    }
    t := time.NewTimer(s.Delay)
    defer t.Stop()
    select {
    case <-ctx.Done():
        return ctx.Err()
    case <-t.C:
        return nil
    }
}

// MethodToken derives the token handed to the processor from the card
// form.  Only the last four digits leave the checkout boundary.
func MethodToken(cardNumber string) string {
    digits := strings.Map(func(r rune) rune {
        if r >= '0' && r <= '9' {
            return r
        }
        return -1
    }, cardNumber)
    if len(digits) > 4 {
        digits = digits[len(digits)-4:]
    }
    return "tok_card_" + digits
}
