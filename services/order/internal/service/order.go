package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgdb "github.com/Skotchmaster/clothing_shop/pkg/db"
	"github.com/Skotchmaster/clothing_shop/pkg/metrics"
	"github.com/Skotchmaster/clothing_shop/pkg/pagination"

	"github.com/Skotchmaster/clothing_shop/internal/models"
	"github.com/Skotchmaster/clothing_shop/internal/pricing"
	"github.com/Skotchmaster/clothing_shop/internal/repo"
)

type OrderService struct {
	Store  Store
	Events EventPublisher

	DefaultShippingProviderID uint
	TxTimeout                 time.Duration

	Now func() time.Time
}

// OrderView is an order together with the items placed in it, oldest first.
type OrderView struct {
	Order models.Order
	Items []models.Item
}

func (s *OrderService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *OrderService) txContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.TxTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.TxTimeout)
}

// AddItem places one unit of itemID in the customer's open order, creating
// the order on first use, and reprices it.
func (s *OrderService) AddItem(ctx context.Context, customerID, itemID uuid.UUID) (*models.Order, error) {
	started := time.Now()
	if customerID == uuid.Nil || itemID == uuid.Nil {
		return nil, fmt.Errorf("%w: customer and item id required", ErrValidation)
	}

	order, created, err := s.addItem(ctx, customerID, itemID)
	if errors.Is(err, errOpenOrderRace) {
		order, created, err = s.addItem(ctx, customerID, itemID)
		if errors.Is(err, errOpenOrderRace) {
			err = fmt.Errorf("%w: %v", ErrConflict, err)
		}
	}
	err = classify(err)
	metrics.Observe("add_item", started, resultOf(err))
	if err != nil {
		return nil, err
	}

	if created {
		s.publish(ctx, "order_created", order, nil)
	}
	s.publish(ctx, "order_item_added", order, map[string]any{"item_id": itemID.String()})
	return order, nil
}

func (s *OrderService) addItem(ctx context.Context, customerID, itemID uuid.UUID) (*models.Order, bool, error) {
	ctx, cancel := s.txContext(ctx)
	defer cancel()

	var (
		order   *models.Order
		created bool
	)
	err := s.Store.InTx(ctx, func(uow UnitOfWork) error {
		acc, err := uow.GetAccount(ctx, customerID)
		if err != nil {
			if repo.IsNotFound(err) {
				return fmt.Errorf("customer %s: %w", customerID, ErrNotFound)
			}
			return err
		}
		if acc.Role != models.RoleCustomer {
			return fmt.Errorf("account %s is not a customer: %w", customerID, ErrNotFound)
		}

		if _, err := uow.GetItem(ctx, itemID); err != nil {
			if repo.IsNotFound(err) {
				return fmt.Errorf("item %s: %w", itemID, ErrNotFound)
			}
			return err
		}

		o, err := uow.OpenOrderForUpdate(ctx, customerID)
		switch {
		case repo.IsNotFound(err):
			o = &models.Order{
				CustomerID:         customerID,
				Status:             models.OrderStatusOpen,
				OrderDate:          s.now(),
				TotalPrice:         decimal.Zero,
				ShippingProviderID: s.shippingProviderFor(acc),
			}
			if err := uow.CreateOrder(ctx, o); err != nil {
				if pkgdb.IsUniqueViolation(err) {
					return errOpenOrderRace
				}
				return err
			}
			created = true
		case err != nil:
			return err
		}

		if err := uow.InsertLineItem(ctx, o.OrderNum, itemID); err != nil {
			if pkgdb.IsUniqueViolation(err) {
				return fmt.Errorf("item %s already in order %d: %w", itemID, o.OrderNum, ErrConflict)
			}
			return err
		}

		total, err := pricing.Recompute(ctx, uow, o.OrderNum)
		if err != nil {
			return err
		}
		o.TotalPrice = total
		order = o
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return order, created, nil
}

func (s *OrderService) shippingProviderFor(acc *models.Account) *uint {
	if acc.ShippingProviderID != nil {
		id := *acc.ShippingProviderID
		return &id
	}
	if s.DefaultShippingProviderID == 0 {
		return nil
	}
	id := s.DefaultShippingProviderID
	return &id
}

// RemoveItem takes itemID out of the customer's open order and reprices it.
func (s *OrderService) RemoveItem(ctx context.Context, customerID, itemID uuid.UUID) (*models.Order, error) {
	started := time.Now()
	ctx, cancel := s.txContext(ctx)
	defer cancel()

	var order *models.Order
	err := s.Store.InTx(ctx, func(uow UnitOfWork) error {
		o, err := uow.OpenOrderForUpdate(ctx, customerID)
		if err != nil {
			if repo.IsNotFound(err) {
				return fmt.Errorf("open order of %s: %w", customerID, ErrNotFound)
			}
			return err
		}

		if err := uow.DeleteLineItem(ctx, o.OrderNum, itemID); err != nil {
			if repo.IsNotFound(err) {
				return fmt.Errorf("item %s in order %d: %w", itemID, o.OrderNum, ErrNotFound)
			}
			return err
		}

		total, err := pricing.Recompute(ctx, uow, o.OrderNum)
		if err != nil {
			return err
		}
		o.TotalPrice = total
		order = o
		return nil
	})
	err = classify(err)
	metrics.Observe("remove_item", started, resultOf(err))
	if err != nil {
		return nil, err
	}

	s.publish(ctx, "order_item_removed", order, map[string]any{"item_id": itemID.String()})
	return order, nil
}

func (s *OrderService) ViewOrder(ctx context.Context, customerID uuid.UUID) (*OrderView, error) {
	started := time.Now()
	ctx, cancel := s.txContext(ctx)
	defer cancel()

	var view OrderView
	err := s.Store.InTx(ctx, func(uow UnitOfWork) error {
		o, err := uow.OpenOrder(ctx, customerID)
		if err != nil {
			if repo.IsNotFound(err) {
				return fmt.Errorf("open order of %s: %w", customerID, ErrNotFound)
			}
			return err
		}

		items, err := uow.ItemsInOrder(ctx, o.OrderNum)
		if err != nil {
			return err
		}
		view = OrderView{Order: *o, Items: items}
		return nil
	})
	err = classify(err)
	metrics.Observe("view_order", started, resultOf(err))
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// SubmitOrder closes the open order. Its line items are purged and the order
// stays behind as a receipt with its last total.
func (s *OrderService) SubmitOrder(ctx context.Context, customerID uuid.UUID) (*OrderView, error) {
	started := time.Now()
	ctx, cancel := s.txContext(ctx)
	defer cancel()

	var receipt OrderView
	err := s.Store.InTx(ctx, func(uow UnitOfWork) error {
		o, err := uow.OpenOrderForUpdate(ctx, customerID)
		if err != nil {
			if repo.IsNotFound(err) {
				return fmt.Errorf("open order of %s: %w", customerID, ErrNotFound)
			}
			return err
		}

		items, err := uow.ItemsInOrder(ctx, o.OrderNum)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return fmt.Errorf("order %d is empty: %w", o.OrderNum, ErrValidation)
		}

		if _, err := uow.PurgeLineItems(ctx, o.OrderNum); err != nil {
			return err
		}

		at := s.now()
		if err := uow.CloseOrder(ctx, o.OrderNum, at); err != nil {
			return err
		}

		o.Status = models.OrderStatusSubmitted
		o.SubmittedAt = &at
		receipt = OrderView{Order: *o, Items: items}
		return nil
	})
	err = classify(err)
	metrics.Observe("submit_order", started, resultOf(err))
	if err != nil {
		return nil, err
	}

	s.publish(ctx, "order_submitted", &receipt.Order, map[string]any{"item_count": len(receipt.Items)})
	return &receipt, nil
}

// History lists the customer's submitted orders, newest first.
func (s *OrderService) History(ctx context.Context, customerID uuid.UUID, page, size int) (pagination.Meta, []models.Order, error) {
	offset, limit := pagination.Calculate(page, size)

	total, orders, err := s.Store.ListSubmittedOrders(ctx, customerID, offset, limit)
	if err != nil {
		return pagination.Meta{}, nil, classify(err)
	}
	return pagination.NewMeta(page, offset, limit, total), orders, nil
}
