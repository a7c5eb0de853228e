package repo_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	pkgdb "github.com/Skotchmaster/clothing_shop/pkg/db"

	"github.com/Skotchmaster/clothing_shop/internal/models"
	"github.com/Skotchmaster/clothing_shop/internal/repo"
	"github.com/Skotchmaster/clothing_shop/internal/testdb"
)

func openOrder(t *testing.T, r *repo.GormRepo, customerID uuid.UUID) models.Order {
	t.Helper()
	order := models.Order{
		CustomerID: customerID,
		Status:     models.OrderStatusOpen,
		OrderDate:  time.Now().UTC(),
		TotalPrice: decimal.Zero,
	}
	require.NoError(t, r.InTx(context.Background(), func(tx *repo.Tx) error {
		return tx.CreateOrder(context.Background(), &order)
	}))
	require.NotZero(t, order.OrderNum)
	return order
}

func TestOpenOrder_OnePerCustomer(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := testdb.Open(t)
	r := &repo.GormRepo{DB: db}
	cust := testdb.Customer(t, db)

	first := openOrder(t, r, cust.ID)

	err := r.InTx(ctx, func(tx *repo.Tx) error {
		return tx.CreateOrder(ctx, &models.Order{
			CustomerID: cust.ID,
			Status:     models.OrderStatusOpen,
			OrderDate:  time.Now().UTC(),
		})
	})
	require.Error(t, err)
	assert.True(t, pkgdb.IsUniqueViolation(err), "got %v", err)

	require.NoError(t, r.InTx(ctx, func(tx *repo.Tx) error {
		return tx.CloseOrder(ctx, first.OrderNum, time.Now().UTC())
	}))

	second := openOrder(t, r, cust.ID)
	assert.NotEqual(t, first.OrderNum, second.OrderNum)

	require.NoError(t, r.InTx(ctx, func(tx *repo.Tx) error {
		got, err := tx.OpenOrderForUpdate(ctx, cust.ID)
		require.NoError(t, err)
		assert.Equal(t, second.OrderNum, got.OrderNum)
		return nil
	}))
}

func TestLineItems(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := testdb.Open(t)
	r := &repo.GormRepo{DB: db}
	owner := testdb.Owner(t, db)
	cust := testdb.Customer(t, db)
	a := testdb.Item(t, db, owner.ID, "tee", "19.99")
	b := testdb.Item(t, db, owner.ID, "socks", "5.00")
	order := openOrder(t, r, cust.ID)

	require.NoError(t, r.InTx(ctx, func(tx *repo.Tx) error {
		require.NoError(t, tx.InsertLineItem(ctx, order.OrderNum, b.ID))
		require.NoError(t, tx.InsertLineItem(ctx, order.OrderNum, a.ID))

		items, err := tx.ItemsInOrder(ctx, order.OrderNum)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, b.ID, items[0].ID)
		assert.Equal(t, a.ID, items[1].ID)

		prices, err := tx.PricesInOrder(ctx, order.OrderNum)
		require.NoError(t, err)
		sum := decimal.Zero
		for _, p := range prices {
			sum = sum.Add(p)
		}
		assert.Equal(t, "24.99", sum.StringFixed(2))
		return nil
	}))

	err := r.InTx(ctx, func(tx *repo.Tx) error {
		return tx.InsertLineItem(ctx, order.OrderNum, a.ID)
	})
	assert.True(t, pkgdb.IsUniqueViolation(err), "got %v", err)

	require.NoError(t, r.InTx(ctx, func(tx *repo.Tx) error {
		require.NoError(t, tx.DeleteLineItem(ctx, order.OrderNum, a.ID))
		assert.True(t, repo.IsNotFound(tx.DeleteLineItem(ctx, order.OrderNum, a.ID)))

		nums, err := tx.OpenOrdersContaining(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, []uint64{order.OrderNum}, nums)
		return nil
	}))

	require.NoError(t, r.InTx(ctx, func(tx *repo.Tx) error {
		n, err := tx.PurgeLineItems(ctx, order.OrderNum)
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)
		return nil
	}))
}

func TestInsertLineItem_ForeignKeys(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := testdb.Open(t)
	r := &repo.GormRepo{DB: db}
	cust := testdb.Customer(t, db)
	order := openOrder(t, r, cust.ID)

	err := r.InTx(ctx, func(tx *repo.Tx) error {
		return tx.InsertLineItem(ctx, order.OrderNum, uuid.New())
	})
	require.Error(t, err)
}

func TestDeleteItem_CascadesLineItems(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := testdb.Open(t)
	r := &repo.GormRepo{DB: db}
	owner := testdb.Owner(t, db)
	cust := testdb.Customer(t, db)
	a := testdb.Item(t, db, owner.ID, "jacket", "80.00")
	order := openOrder(t, r, cust.ID)

	require.NoError(t, r.InTx(ctx, func(tx *repo.Tx) error {
		return tx.InsertLineItem(ctx, order.OrderNum, a.ID)
	}))
	require.NoError(t, r.InTx(ctx, func(tx *repo.Tx) error {
		return tx.DeleteItem(ctx, a.ID)
	}))

	var count int64
	require.NoError(t, db.Model(&models.LineItem{}).Where("order_num = ?", order.OrderNum).Count(&count).Error)
	assert.Zero(t, count)

	err := r.InTx(ctx, func(tx *repo.Tx) error {
		return tx.DeleteItem(ctx, a.ID)
	})
	assert.True(t, repo.IsNotFound(err))
}

type foreignKey struct {
	Table    string `gorm:"column:table"`
	From     string `gorm:"column:from"`
	To       string `gorm:"column:to"`
	OnDelete string `gorm:"column:on_delete"`
}

func foreignKeys(t *testing.T, db *gorm.DB, table string) []foreignKey {
	t.Helper()
	var fks []foreignKey
	require.NoError(t, db.Raw("SELECT * FROM pragma_foreign_key_list(?)", table).Scan(&fks).Error)
	return fks
}

func TestMigrate_ForeignKeyDirection(t *testing.T) {
	t.Parallel()
	db := testdb.Open(t)

	assert.ElementsMatch(t, []foreignKey{
		{Table: "items", From: "item_id", To: "id", OnDelete: "CASCADE"},
		{Table: "orders", From: "order_num", To: "order_num", OnDelete: "CASCADE"},
	}, foreignKeys(t, db, "line_items"))

	assert.Empty(t, foreignKeys(t, db, "orders"))

	assert.Equal(t, []foreignKey{
		{Table: "inventories", From: "inventory_id", To: "id", OnDelete: "SET NULL"},
	}, foreignKeys(t, db, "warehouses"))
}

func TestDeleteOrder_CascadesLineItems(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := testdb.Open(t)
	r := &repo.GormRepo{DB: db}
	owner := testdb.Owner(t, db)
	cust := testdb.Customer(t, db)
	a := testdb.Item(t, db, owner.ID, "scarf", "12.00")
	b := testdb.Item(t, db, owner.ID, "gloves", "9.50")
	order := openOrder(t, r, cust.ID)

	require.NoError(t, r.InTx(ctx, func(tx *repo.Tx) error {
		if err := tx.InsertLineItem(ctx, order.OrderNum, a.ID); err != nil {
			return err
		}
		return tx.InsertLineItem(ctx, order.OrderNum, b.ID)
	}))

	require.NoError(t, db.Where("order_num = ?", order.OrderNum).Delete(&models.Order{}).Error)

	var count int64
	require.NoError(t, db.Model(&models.LineItem{}).Where("order_num = ?", order.OrderNum).Count(&count).Error)
	assert.Zero(t, count)

	require.NoError(t, db.Model(&models.Item{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestInTx_RollsBack(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := testdb.Open(t)
	r := &repo.GormRepo{DB: db}
	cust := testdb.Customer(t, db)
	boom := errors.New("boom")

	err := r.InTx(ctx, func(tx *repo.Tx) error {
		require.NoError(t, tx.CreateOrder(ctx, &models.Order{
			CustomerID: cust.ID,
			Status:     models.OrderStatusOpen,
			OrderDate:  time.Now().UTC(),
		}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestListSubmittedOrders(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := testdb.Open(t)
	r := &repo.GormRepo{DB: db}
	cust := testdb.Customer(t, db)

	var nums []uint64
	for i := 0; i < 3; i++ {
		o := openOrder(t, r, cust.ID)
		at := time.Date(2026, 1, 1+i, 12, 0, 0, 0, time.UTC)
		require.NoError(t, r.InTx(ctx, func(tx *repo.Tx) error {
			return tx.CloseOrder(ctx, o.OrderNum, at)
		}))
		nums = append(nums, o.OrderNum)
	}
	openOrder(t, r, cust.ID)

	total, orders, err := r.ListSubmittedOrders(ctx, cust.ID, 0, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, orders, 2)
	assert.Equal(t, nums[2], orders[0].OrderNum)
	assert.Equal(t, nums[1], orders[1].OrderNum)
	assert.Equal(t, models.OrderStatusSubmitted, orders[0].Status)
}

func TestCatalogQueries(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := testdb.Open(t)
	r := &repo.GormRepo{DB: db}
	owner := testdb.Owner(t, db)

	items := []models.Item{
		{Name: "Linen Shirt", Brand: "Acme", Type: "shirt", Price: decimal.RequireFromString("30"), OwnerID: owner.ID},
		{Name: "Wool Coat", Brand: "North", Type: "Coat", Price: decimal.RequireFromString("120"), OwnerID: owner.ID},
		{Name: "100% Cotton Tee", Brand: "Acme", Type: "shirt", Price: decimal.RequireFromString("15"), OwnerID: owner.ID},
	}
	for i := range items {
		require.NoError(t, r.CreateItem(ctx, &items[i]))
	}

	total, found, err := r.SearchItems(ctx, "acme", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, found, 2)

	total, found, err = r.SearchItems(ctx, "100%", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "100% Cotton Tee", found[0].Name)

	total, found, err = r.ListItems(ctx, "SHIRT", 0, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, found, 1)

	types, err := r.DistinctTypes(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"shirt", "Coat"}, types)

	err = r.CreateItem(ctx, &models.Item{Name: "Wool Coat", Price: decimal.NewFromInt(1), OwnerID: owner.ID})
	assert.True(t, pkgdb.IsUniqueViolation(err), "got %v", err)
}

func TestUpsertBilling(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := testdb.Open(t)
	r := &repo.GormRepo{DB: db}
	cust := testdb.Customer(t, db)

	require.NoError(t, r.UpsertBilling(ctx, &models.Billing{
		CustomerID: cust.ID, CardHash: "h1", CardLast4: "1111", ExpiryDate: "01/30",
	}))
	require.NoError(t, r.UpsertBilling(ctx, &models.Billing{
		CustomerID: cust.ID, CardHash: "h2", CardLast4: "2222", ExpiryDate: "02/31",
	}))

	b, err := r.GetBilling(ctx, cust.ID)
	require.NoError(t, err)
	assert.Equal(t, "2222", b.CardLast4)
	assert.Equal(t, "h2", b.CardHash)

	var count int64
	require.NoError(t, db.Model(&models.Billing{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
