package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/clothing_shop/pkg/hash"

	"github.com/Skotchmaster/clothing_shop/internal/repo"
)

func newBillingService(t *testing.T) (*BillingService, *testEnv) {
	t.Helper()
	env := newTestEnv(t)
	return &BillingService{
		Store: NewGormStore(&repo.GormRepo{DB: env.db}),
		Now:   func() time.Time { return time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC) },
	}, env
}

func TestBillingService_Validation(t *testing.T) {
	t.Parallel()
	svc, env := newBillingService(t)

	tests := []struct {
		name string
		in   BillingInput
	}{
		{name: "short number", in: BillingInput{CardNumber: "4111", ExpiryDate: "12/30", CVV: "123"}},
		{name: "letters", in: BillingInput{CardNumber: "4111a11111111111", ExpiryDate: "12/30", CVV: "123"}},
		{name: "bad checksum", in: BillingInput{CardNumber: "4111111111111112", ExpiryDate: "12/30", CVV: "123"}},
		{name: "bad expiry format", in: BillingInput{CardNumber: "4111111111111111", ExpiryDate: "2030-12", CVV: "123"}},
		{name: "month out of range", in: BillingInput{CardNumber: "4111111111111111", ExpiryDate: "13/30", CVV: "123"}},
		{name: "expired", in: BillingInput{CardNumber: "4111111111111111", ExpiryDate: "09/26", CVV: "123"}},
		{name: "short cvv", in: BillingInput{CardNumber: "4111111111111111", ExpiryDate: "12/30", CVV: "12"}},
	}

	for _, tt := range tests {
		_, err := svc.Update(context.Background(), env.cust.ID, tt.in)
		require.ErrorIs(t, err, ErrValidation, tt.name)
	}
}

func TestBillingService_UpdateAndGet(t *testing.T) {
	t.Parallel()
	svc, env := newBillingService(t)
	ctx := context.Background()

	_, err := svc.Get(ctx, env.cust.ID)
	require.ErrorIs(t, err, ErrNotFound)

	b, err := svc.Update(ctx, env.cust.ID, BillingInput{
		CardNumber: "4111 1111 1111 1111",
		ExpiryDate: "10/26",
		CVV:        "123",
	})
	require.NoError(t, err)
	assert.Equal(t, "1111", b.CardLast4)

	got, err := svc.Get(ctx, env.cust.ID)
	require.NoError(t, err)
	assert.Equal(t, "10/26", got.ExpiryDate)
	assert.True(t, hash.CheckSecret(got.CardHash, "4111111111111111"))

	_, err = svc.Update(ctx, env.cust.ID, BillingInput{
		CardNumber: "5555-5555-5555-4444",
		ExpiryDate: "01/29",
		CVV:        "9876",
	})
	require.NoError(t, err)

	got, err = svc.Get(ctx, env.cust.ID)
	require.NoError(t, err)
	assert.Equal(t, "4444", got.CardLast4)
	assert.Equal(t, "01/29", got.ExpiryDate)
}

func TestLuhn(t *testing.T) {
	t.Parallel()

	assert.True(t, luhn("4111111111111111"))
	assert.True(t, luhn("5555555555554444"))
	assert.False(t, luhn("1234567812345678"))
}
