package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/clothing_shop/internal/models"
)

var errNoRows = gorm.ErrRecordNotFound

func (t *Tx) InsertLineItem(ctx context.Context, orderNum uint64, itemID uuid.UUID) error {
	li := models.LineItem{
		ItemID:   itemID,
		OrderNum: orderNum,
		AddedAt:  time.Now().UTC(),
	}
	return t.conn(ctx).Omit(clause.Associations).Create(&li).Error
}

// DeleteLineItem removes exactly one (item, order) row. It returns
// gorm.ErrRecordNotFound when the item is not in the order.
func (t *Tx) DeleteLineItem(ctx context.Context, orderNum uint64, itemID uuid.UUID) error {
	res := t.conn(ctx).
		Where("item_id = ? AND order_num = ?", itemID, orderNum).
		Delete(&models.LineItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errNoRows
	}
	return nil
}

func (t *Tx) PurgeLineItems(ctx context.Context, orderNum uint64) (int64, error) {
	res := t.conn(ctx).Where("order_num = ?", orderNum).Delete(&models.LineItem{})
	return res.RowsAffected, res.Error
}

func (t *Tx) DeleteLineItemsOfItem(ctx context.Context, itemID uuid.UUID) (int64, error) {
	res := t.conn(ctx).Where("item_id = ?", itemID).Delete(&models.LineItem{})
	return res.RowsAffected, res.Error
}

// ItemsInOrder lists the order's items in the order they were added.
func (t *Tx) ItemsInOrder(ctx context.Context, orderNum uint64) ([]models.Item, error) {
	var items []models.Item
	err := t.conn(ctx).
		Model(&models.Item{}).
		Joins("JOIN line_items ON line_items.item_id = items.id").
		Where("line_items.order_num = ?", orderNum).
		Order("line_items.added_at ASC, line_items.item_id ASC").
		Find(&items).Error
	return items, err
}

// PricesInOrder reads the current price of every item in the order and
// share-locks those item rows so a concurrent price edit waits.
func (t *Tx) PricesInOrder(ctx context.Context, orderNum uint64) ([]decimal.Decimal, error) {
	var rows []struct {
		Price decimal.Decimal
	}
	err := t.conn(ctx).
		Model(&models.Item{}).
		Select("items.price AS price").
		Joins("JOIN line_items ON line_items.item_id = items.id").
		Where("line_items.order_num = ?", orderNum).
		Clauses(clause.Locking{Strength: "SHARE", Table: clause.Table{Name: "items"}}).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	prices := make([]decimal.Decimal, len(rows))
	for i, r := range rows {
		prices[i] = r.Price
	}
	return prices, nil
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
