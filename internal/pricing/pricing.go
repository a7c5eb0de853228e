package pricing

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInvalid marks stored data that cannot be priced, such as a negative
// item price.
var ErrInvalid = errors.New("invalid pricing data")

// LineItemSource is the slice of a unit of work the engine needs. Both calls
// run inside the caller's transaction.
type LineItemSource interface {
	PricesInOrder(ctx context.Context, orderNum uint64) ([]decimal.Decimal, error)
	SetTotal(ctx context.Context, orderNum uint64, total decimal.Decimal) error
}

// Total sums prices exactly. An empty slice totals zero.
func Total(prices []decimal.Decimal) (decimal.Decimal, error) {
	total := decimal.Zero
	for i, p := range prices {
		if p.IsNegative() {
			return decimal.Zero, fmt.Errorf("%w: price #%d is %s", ErrInvalid, i, p.String())
		}
		total = total.Add(p)
	}
	return total.Round(2), nil
}

// Recompute reads the current prices of the order's items, sums them and
// stores the result on the order.
func Recompute(ctx context.Context, src LineItemSource, orderNum uint64) (decimal.Decimal, error) {
	prices, err := src.PricesInOrder(ctx, orderNum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("read prices of order %d: %w", orderNum, err)
	}

	total, err := Total(prices)
	if err != nil {
		return decimal.Zero, fmt.Errorf("order %d: %w", orderNum, err)
	}

	if err := src.SetTotal(ctx, orderNum, total); err != nil {
		return decimal.Zero, fmt.Errorf("store total of order %d: %w", orderNum, err)
	}
	return total, nil
}
