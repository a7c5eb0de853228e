package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgdb "github.com/Skotchmaster/clothing_shop/pkg/db"
	"github.com/Skotchmaster/clothing_shop/pkg/logging"
	"github.com/Skotchmaster/clothing_shop/pkg/metrics"
	"github.com/Skotchmaster/clothing_shop/pkg/pagination"

	"github.com/Skotchmaster/clothing_shop/internal/models"
	"github.com/Skotchmaster/clothing_shop/internal/pricing"
	"github.com/Skotchmaster/clothing_shop/internal/repo"
	"github.com/Skotchmaster/clothing_shop/services/catalog/internal/transport"
)

var (
	ErrValidation  = errors.New("validation")
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrInvalid     = pricing.ErrInvalid
	ErrUnavailable = errors.New("store unavailable")
)

const ItemEventsTopic = "item_events"

var resultOf = metrics.ResultOf(map[error]string{
	ErrValidation:  "validation",
	ErrNotFound:    "not_found",
	ErrConflict:    "conflict",
	ErrInvalid:     "invalid",
	ErrUnavailable: "unavailable",
})

type Searcher interface {
	Search(ctx context.Context, query string, from, size int) (int64, []uuid.UUID, error)
	IndexItem(ctx context.Context, item *models.Item) error
	DeleteItem(ctx context.Context, id uuid.UUID) error
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

type CatalogService struct {
	Repo   *repo.GormRepo
	Search Searcher
	Events EventPublisher

	TxTimeout time.Duration
}

// ItemChange is the outcome of an owner edit: the item as stored and the
// open orders whose totals were recomputed with it.
type ItemChange struct {
	Item           *models.Item
	RepricedOrders []uint64
}

func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrValidation), errors.Is(err, ErrNotFound),
		errors.Is(err, ErrConflict), errors.Is(err, ErrInvalid):
		return err
	case repo.IsNotFound(err):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case pkgdb.IsUniqueViolation(err):
		return fmt.Errorf("%w: item name already taken", ErrConflict)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	case pkgdb.IsTxConflict(err):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}

func (s *CatalogService) txContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.TxTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.TxTimeout)
}

func (s *CatalogService) GetItem(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	item, err := s.Repo.GetItem(ctx, id)
	if err != nil {
		return nil, classify(err)
	}
	return item, nil
}

func (s *CatalogService) ListItems(ctx context.Context, itemType string, page, size int) (pagination.Meta, []models.Item, error) {
	offset, limit := pagination.Calculate(page, size)
	total, items, err := s.Repo.ListItems(ctx, strings.TrimSpace(itemType), offset, limit)
	if err != nil {
		return pagination.Meta{}, nil, classify(err)
	}
	return pagination.NewMeta(page, offset, limit, total), items, nil
}

// SearchItems asks Elasticsearch when it is configured and falls back to a
// case-insensitive match on name, brand and type otherwise.
func (s *CatalogService) SearchItems(ctx context.Context, query string, page, size int) (pagination.Meta, []models.Item, error) {
	query = strings.TrimSpace(query)
	offset, limit := pagination.Calculate(page, size)
	if query == "" {
		return pagination.NewMeta(page, offset, limit, 0), []models.Item{}, nil
	}

	if s.Search != nil {
		total, ids, err := s.Search.Search(ctx, query, offset, limit)
		if err == nil {
			items, err := s.Repo.GetItemsByIDs(ctx, ids)
			if err != nil {
				return pagination.Meta{}, nil, classify(err)
			}
			return pagination.NewMeta(page, offset, limit, total), items, nil
		}
		logging.FromContext(ctx).With("svc", "catalog").Warn("search_fallback", "error", err)
	}

	total, items, err := s.Repo.SearchItems(ctx, query, offset, limit)
	if err != nil {
		return pagination.Meta{}, nil, classify(err)
	}
	return pagination.NewMeta(page, offset, limit, total), items, nil
}

// Types lists the distinct clothing types, sorted ignoring case.
func (s *CatalogService) Types(ctx context.Context) ([]string, error) {
	types, err := s.Repo.DistinctTypes(ctx)
	if err != nil {
		return nil, classify(err)
	}
	sort.SliceStable(types, func(i, j int) bool {
		return strings.ToLower(types[i]) < strings.ToLower(types[j])
	})
	return types, nil
}

func (s *CatalogService) CreateItem(ctx context.Context, ownerID uuid.UUID, req transport.CreateItemRequest) (*models.Item, error) {
	started := time.Now()
	item := &models.Item{
		Name:        strings.TrimSpace(req.Name),
		ImgURL:      strings.TrimSpace(req.ImgURL),
		Price:       req.Price,
		Sex:         req.Sex,
		Size:        req.Size,
		Brand:       req.Brand,
		Type:        strings.TrimSpace(req.Type),
		Weight:      req.Weight,
		Color:       req.Color,
		OwnerID:     ownerID,
		InventoryID: req.InventoryID,
	}
	if err := validateItem(item); err != nil {
		return nil, err
	}

	err := classify(s.Repo.CreateItem(ctx, item))
	metrics.Observe("create_item", started, resultOf(err))
	if err != nil {
		return nil, err
	}

	s.afterCommit(ctx, "item_created", item, nil)
	return item, nil
}

// PatchItem applies an owner edit. A price change reprices every open order
// holding the item in the same transaction.
func (s *CatalogService) PatchItem(ctx context.Context, id uuid.UUID, req transport.PatchItemRequest) (*ItemChange, error) {
	started := time.Now()
	txCtx, cancel := s.txContext(ctx)
	defer cancel()

	var change ItemChange
	err := s.Repo.InTx(txCtx, func(tx *repo.Tx) error {
		item, err := tx.GetItemForUpdate(txCtx, id)
		if err != nil {
			return err
		}

		oldPrice := item.Price
		applyPatch(item, req)
		if err := validateItem(item); err != nil {
			return err
		}
		if err := tx.SaveItem(txCtx, item); err != nil {
			return err
		}
		change.Item = item

		if item.Price.Equal(oldPrice) {
			return nil
		}
		nums, err := tx.OpenOrdersContaining(txCtx, id)
		if err != nil {
			return err
		}
		for _, n := range nums {
			if _, err := pricing.Recompute(txCtx, tx, n); err != nil {
				return err
			}
		}
		change.RepricedOrders = nums
		return nil
	})
	err = classify(err)
	metrics.Observe("patch_item", started, resultOf(err))
	if err != nil {
		return nil, err
	}

	s.afterCommit(ctx, "item_updated", change.Item, change.RepricedOrders)
	return &change, nil
}

// DeleteItem removes the item from the catalog and from every order holding
// it, then reprices the open ones.
func (s *CatalogService) DeleteItem(ctx context.Context, id uuid.UUID) (*ItemChange, error) {
	started := time.Now()
	txCtx, cancel := s.txContext(ctx)
	defer cancel()

	var change ItemChange
	err := s.Repo.InTx(txCtx, func(tx *repo.Tx) error {
		item, err := tx.GetItemForUpdate(txCtx, id)
		if err != nil {
			return err
		}

		nums, err := tx.OpenOrdersContaining(txCtx, id)
		if err != nil {
			return err
		}
		if _, err := tx.DeleteLineItemsOfItem(txCtx, id); err != nil {
			return err
		}
		if err := tx.DeleteItem(txCtx, id); err != nil {
			return err
		}
		for _, n := range nums {
			if _, err := pricing.Recompute(txCtx, tx, n); err != nil {
				return err
			}
		}

		change = ItemChange{Item: item, RepricedOrders: nums}
		return nil
	})
	err = classify(err)
	metrics.Observe("delete_item", started, resultOf(err))
	if err != nil {
		return nil, err
	}

	s.afterCommit(ctx, "item_deleted", change.Item, change.RepricedOrders)
	return &change, nil
}

func applyPatch(item *models.Item, req transport.PatchItemRequest) {
	if req.Name != nil {
		item.Name = strings.TrimSpace(*req.Name)
	}
	if req.ImgURL != nil {
		item.ImgURL = strings.TrimSpace(*req.ImgURL)
	}
	if req.Price != nil {
		item.Price = *req.Price
	}
	if req.Sex != nil {
		item.Sex = *req.Sex
	}
	if req.Size != nil {
		item.Size = *req.Size
	}
	if req.Brand != nil {
		item.Brand = *req.Brand
	}
	if req.Type != nil {
		item.Type = strings.TrimSpace(*req.Type)
	}
	if req.Weight != nil {
		item.Weight = *req.Weight
	}
	if req.Color != nil {
		item.Color = *req.Color
	}
}

func validateItem(item *models.Item) error {
	if item.Name == "" {
		return fmt.Errorf("%w: name required", ErrValidation)
	}
	if item.Price.IsNegative() {
		return fmt.Errorf("%w: price must be >= 0", ErrValidation)
	}
	if !item.Price.Equal(item.Price.Round(2)) {
		return fmt.Errorf("%w: price has more than two decimals", ErrValidation)
	}
	if item.Weight.IsNegative() {
		return fmt.Errorf("%w: weight must be >= 0", ErrValidation)
	}
	if item.Price.GreaterThanOrEqual(decimal.New(1, 10)) {
		return fmt.Errorf("%w: price too large", ErrValidation)
	}
	return nil
}

// afterCommit keeps the search index and the event stream in step with a
// committed change. Failures are logged only.
func (s *CatalogService) afterCommit(ctx context.Context, eventType string, item *models.Item, repriced []uint64) {
	l := logging.FromContext(ctx).With("svc", "catalog")
	bg, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if s.Search != nil {
		var err error
		if eventType == "item_deleted" {
			err = s.Search.DeleteItem(bg, item.ID)
		} else {
			err = s.Search.IndexItem(bg, item)
		}
		if err != nil {
			l.Error("search_index_failed", "type", eventType, "item_id", item.ID, "error", err)
		}
	}

	if s.Events == nil {
		return
	}
	event := map[string]any{
		"type":            eventType,
		"item_id":         item.ID.String(),
		"name":            item.Name,
		"price":           item.Price.StringFixed(2),
		"repriced_orders": repriced,
	}
	if err := s.Events.PublishEvent(bg, ItemEventsTopic, item.ID.String(), event); err != nil {
		l.Error("publish_event_failed", "type", eventType, "item_id", item.ID, "error", err)
	}
}
