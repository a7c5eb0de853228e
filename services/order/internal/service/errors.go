package service

import (
	"context"
	"errors"
	"fmt"

	pkgdb "github.com/Skotchmaster/clothing_shop/pkg/db"
	"github.com/Skotchmaster/clothing_shop/pkg/metrics"

	"github.com/Skotchmaster/clothing_shop/internal/pricing"
)

var (
	ErrValidation  = errors.New("validation")       // 400
	ErrNotFound    = errors.New("not found")        // 404
	ErrConflict    = errors.New("conflict")         // 409
	ErrInvalid     = pricing.ErrInvalid             // 500
	ErrUnavailable = errors.New("store unavailable") // 503
)

// errOpenOrderRace means another transaction created the customer's open
// order first. The caller retries once.
var errOpenOrderRace = errors.New("open order created concurrently")

var resultOf = metrics.ResultOf(map[error]string{
	ErrValidation:  "validation",
	ErrNotFound:    "not_found",
	ErrConflict:    "conflict",
	ErrInvalid:     "invalid",
	ErrUnavailable: "unavailable",
})

// classify maps store failures onto the service sentinels.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrValidation), errors.Is(err, ErrNotFound),
		errors.Is(err, ErrConflict), errors.Is(err, ErrInvalid),
		errors.Is(err, ErrUnavailable):
		return err
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	case pkgdb.IsTxConflict(err):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}
