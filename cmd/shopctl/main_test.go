package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/clothing_shop/internal/models"
	"github.com/Skotchmaster/clothing_shop/internal/repo"
	"github.com/Skotchmaster/clothing_shop/internal/testdb"
)

func TestRecomputeTotals(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := testdb.Open(t)
	r := &repo.GormRepo{DB: db}
	owner := testdb.Owner(t, db)
	a := testdb.Item(t, db, owner.ID, "tee", "19.99")
	b := testdb.Item(t, db, owner.ID, "socks", "5.00")

	newOrder := func(total string, items ...models.Item) uint64 {
		cust := testdb.Customer(t, db)
		var num uint64
		require.NoError(t, r.InTx(ctx, func(tx *repo.Tx) error {
			o := &models.Order{
				CustomerID: cust.ID,
				Status:     models.OrderStatusOpen,
				OrderDate:  time.Now().UTC(),
				TotalPrice: decimal.RequireFromString(total),
			}
			if err := tx.CreateOrder(ctx, o); err != nil {
				return err
			}
			for _, it := range items {
				if err := tx.InsertLineItem(ctx, o.OrderNum, it.ID); err != nil {
					return err
				}
			}
			num = o.OrderNum
			return nil
		}))
		return num
	}

	consistent := newOrder("24.99", a, b)
	drifted := newOrder("7.00", b)

	storedTotal := func(num uint64) string {
		var o models.Order
		require.NoError(t, db.Where("order_num = ?", num).First(&o).Error)
		return o.TotalPrice.StringFixed(2)
	}

	var out bytes.Buffer
	n, err := recomputeTotals(ctx, r, &out, true)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Contains(t, out.String(), "stored 7.00, computed 5.00")
	assert.Equal(t, "7.00", storedTotal(drifted))

	out.Reset()
	n, err = recomputeTotals(ctx, r, &out, false)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "5.00", storedTotal(drifted))
	assert.Equal(t, "24.99", storedTotal(consistent))

	out.Reset()
	n, err = recomputeTotals(ctx, r, &out, false)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, out.String())
}

func TestRootCmd_RequiresDSN(t *testing.T) {
	cmd := rootCmd()
	cmd.SetArgs([]string{"migrate", "--dsn", ""})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	require.Error(t, cmd.Execute())
}
