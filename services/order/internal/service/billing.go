package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/clothing_shop/pkg/hash"

	"github.com/Skotchmaster/clothing_shop/internal/models"
	"github.com/Skotchmaster/clothing_shop/internal/repo"
)

type BillingService struct {
	Store Store
	Now   func() time.Time
}

type BillingInput struct {
	CardNumber string
	ExpiryDate string
	CVV        string
}

func (s *BillingService) Get(ctx context.Context, customerID uuid.UUID) (*models.Billing, error) {
	b, err := s.Store.GetBilling(ctx, customerID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("billing of %s: %w", customerID, ErrNotFound)
		}
		return nil, classify(err)
	}
	return b, nil
}

// Update stores a new card on file. Only a bcrypt hash and the last four
// digits of the number are kept. The CVV is checked and dropped.
func (s *BillingService) Update(ctx context.Context, customerID uuid.UUID, in BillingInput) (*models.Billing, error) {
	number := normaliseCardNumber(in.CardNumber)
	if err := validateCardNumber(number); err != nil {
		return nil, err
	}
	if err := validateExpiry(in.ExpiryDate, s.now()); err != nil {
		return nil, err
	}
	if err := validateCVV(in.CVV); err != nil {
		return nil, err
	}

	cardHash, err := hash.HashSecret(number)
	if err != nil {
		return nil, fmt.Errorf("hash card: %w", err)
	}

	b := &models.Billing{
		CustomerID: customerID,
		CardHash:   cardHash,
		CardLast4:  number[len(number)-4:],
		ExpiryDate: in.ExpiryDate,
		UpdatedAt:  s.now(),
	}
	if err := s.Store.UpsertBilling(ctx, b); err != nil {
		return nil, classify(err)
	}
	return b, nil
}

func (s *BillingService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func normaliseCardNumber(s string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(s))
}

func validateCardNumber(number string) error {
	if len(number) < 12 || len(number) > 19 {
		return fmt.Errorf("%w: card number must have 12 to 19 digits", ErrValidation)
	}
	if !allDigits(number) {
		return fmt.Errorf("%w: card number must be numeric", ErrValidation)
	}
	if !luhn(number) {
		return fmt.Errorf("%w: card number checksum mismatch", ErrValidation)
	}
	return nil
}

// validateExpiry accepts MM/YY. A card is valid through the end of its
// expiry month.
func validateExpiry(exp string, now time.Time) error {
	if len(exp) != 5 || exp[2] != '/' || !allDigits(exp[:2]) || !allDigits(exp[3:]) {
		return fmt.Errorf("%w: expiry date must be MM/YY", ErrValidation)
	}
	month, _ := strconv.Atoi(exp[:2])
	year, _ := strconv.Atoi(exp[3:])
	if month < 1 || month > 12 {
		return fmt.Errorf("%w: expiry month out of range", ErrValidation)
	}

	endOfMonth := time.Date(2000+year, time.Month(month)+1, 1, 0, 0, 0, 0, time.UTC)
	if !now.Before(endOfMonth) {
		return fmt.Errorf("%w: card expired", ErrValidation)
	}
	return nil
}

func validateCVV(cvv string) error {
	if (len(cvv) != 3 && len(cvv) != 4) || !allDigits(cvv) {
		return fmt.Errorf("%w: cvv must be 3 or 4 digits", ErrValidation)
	}
	return nil
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func luhn(number string) bool {
	sum := 0
	double := false
	for i := len(number) - 1; i >= 0; i-- {
		d := int(number[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}
