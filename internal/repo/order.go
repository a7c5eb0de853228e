package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/clothing_shop/internal/models"
)

// OpenOrderForUpdate returns the customer's open order and locks its row
// until the transaction ends.
func (t *Tx) OpenOrderForUpdate(ctx context.Context, customerID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := t.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("customer_id = ? AND status = ?", customerID, models.OrderStatusOpen).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (t *Tx) OpenOrder(ctx context.Context, customerID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := t.conn(ctx).
		Where("customer_id = ? AND status = ?", customerID, models.OrderStatusOpen).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (t *Tx) CreateOrder(ctx context.Context, order *models.Order) error {
	return t.conn(ctx).Create(order).Error
}

func (t *Tx) GetOrder(ctx context.Context, orderNum uint64) (*models.Order, error) {
	var order models.Order
	if err := t.conn(ctx).Where("order_num = ?", orderNum).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (t *Tx) SetTotal(ctx context.Context, orderNum uint64, total decimal.Decimal) error {
	return t.conn(ctx).
		Model(&models.Order{}).
		Where("order_num = ?", orderNum).
		Update("total_price", total).Error
}

// CloseOrder marks an open order submitted. Line items are purged separately.
func (t *Tx) CloseOrder(ctx context.Context, orderNum uint64, at time.Time) error {
	res := t.conn(ctx).
		Model(&models.Order{}).
		Where("order_num = ? AND status = ?", orderNum, models.OrderStatusOpen).
		Updates(map[string]any{
			"status":       models.OrderStatusSubmitted,
			"submitted_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errNoRows
	}
	return nil
}

// OpenOrdersContaining locks and returns the open orders that hold itemID.
func (t *Tx) OpenOrdersContaining(ctx context.Context, itemID uuid.UUID) ([]uint64, error) {
	var nums []uint64
	err := t.conn(ctx).
		Model(&models.Order{}).
		Joins("JOIN line_items ON line_items.order_num = orders.order_num").
		Where("line_items.item_id = ? AND orders.status = ?", itemID, models.OrderStatusOpen).
		Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: "orders"}}).
		Order("orders.order_num ASC").
		Pluck("orders.order_num", &nums).Error
	return nums, err
}

func (t *Tx) OpenOrderNums(ctx context.Context) ([]uint64, error) {
	var nums []uint64
	err := t.conn(ctx).
		Model(&models.Order{}).
		Where("status = ?", models.OrderStatusOpen).
		Order("order_num ASC").
		Pluck("order_num", &nums).Error
	return nums, err
}

// ListSubmittedOrders pages through a customer's receipts, newest first.
func (r *GormRepo) ListSubmittedOrders(ctx context.Context, customerID uuid.UUID, offset, limit int) (int64, []models.Order, error) {
	q := r.DB.WithContext(ctx).
		Model(&models.Order{}).
		Where("customer_id = ? AND status = ?", customerID, models.OrderStatusSubmitted)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	orders := make([]models.Order, 0, limit)
	if err := q.Order("submitted_at DESC, order_num DESC").Offset(offset).Limit(limit).Find(&orders).Error; err != nil {
		return 0, nil, err
	}
	return total, orders, nil
}
