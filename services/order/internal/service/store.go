package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/clothing_shop/internal/models"
	"github.com/Skotchmaster/clothing_shop/internal/pricing"
	"github.com/Skotchmaster/clothing_shop/internal/repo"
)

// UnitOfWork is everything an order operation may do inside one
// transaction.
type UnitOfWork interface {
	pricing.LineItemSource

	GetAccount(ctx context.Context, id uuid.UUID) (*models.Account, error)
	GetItem(ctx context.Context, id uuid.UUID) (*models.Item, error)

	OpenOrder(ctx context.Context, customerID uuid.UUID) (*models.Order, error)
	OpenOrderForUpdate(ctx context.Context, customerID uuid.UUID) (*models.Order, error)
	CreateOrder(ctx context.Context, order *models.Order) error
	CloseOrder(ctx context.Context, orderNum uint64, at time.Time) error

	InsertLineItem(ctx context.Context, orderNum uint64, itemID uuid.UUID) error
	DeleteLineItem(ctx context.Context, orderNum uint64, itemID uuid.UUID) error
	ItemsInOrder(ctx context.Context, orderNum uint64) ([]models.Item, error)
	PurgeLineItems(ctx context.Context, orderNum uint64) (int64, error)
}

type Store interface {
	InTx(ctx context.Context, fn func(uow UnitOfWork) error) error

	ListSubmittedOrders(ctx context.Context, customerID uuid.UUID, offset, limit int) (int64, []models.Order, error)
	GetBilling(ctx context.Context, customerID uuid.UUID) (*models.Billing, error)
	UpsertBilling(ctx context.Context, b *models.Billing) error
}

// GormStore backs Store with the shared gorm repository.
type GormStore struct {
	*repo.GormRepo
}

func NewGormStore(r *repo.GormRepo) *GormStore {
	return &GormStore{GormRepo: r}
}

func (s *GormStore) InTx(ctx context.Context, fn func(uow UnitOfWork) error) error {
	return s.GormRepo.InTx(ctx, func(tx *repo.Tx) error {
		return fn(tx)
	})
}
