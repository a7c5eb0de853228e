package repo

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/clothing_shop/internal/models"
)

func (r *GormRepo) GetItem(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	var item models.Item
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) ListItems(ctx context.Context, itemType string, offset, limit int) (int64, []models.Item, error) {
	q := r.DB.WithContext(ctx).Model(&models.Item{})
	if itemType != "" {
		q = q.Where("LOWER(type) = ?", strings.ToLower(itemType))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.Item, 0, limit)
	if err := q.Order("name ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

// SearchItems matches q against name, brand and type ignoring case.
func (r *GormRepo) SearchItems(ctx context.Context, q string, offset, limit int) (int64, []models.Item, error) {
	pattern := "%" + escapeLike(strings.ToLower(q)) + "%"
	where := "LOWER(name) LIKE ? ESCAPE '\\' OR LOWER(brand) LIKE ? ESCAPE '\\' OR LOWER(type) LIKE ? ESCAPE '\\'"

	base := r.DB.WithContext(ctx).Model(&models.Item{}).Where(where, pattern, pattern, pattern)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.Item, 0, limit)
	if err := base.Order("name ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func (r *GormRepo) DistinctTypes(ctx context.Context) ([]string, error) {
	var types []string
	err := r.DB.WithContext(ctx).
		Model(&models.Item{}).
		Where("type <> ''").
		Distinct("type").
		Pluck("type", &types).Error
	return types, err
}

func (r *GormRepo) CreateItem(ctx context.Context, item *models.Item) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(item).Error
}

// GetItem reads an item and share-locks it for the rest of the transaction.
func (t *Tx) GetItem(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	var item models.Item
	err := t.conn(ctx).
		Clauses(clause.Locking{Strength: "SHARE"}).
		Where("id = ?", id).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (t *Tx) GetItemForUpdate(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	var item models.Item
	err := t.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (t *Tx) SaveItem(ctx context.Context, item *models.Item) error {
	return t.conn(ctx).Omit(clause.Associations).Save(item).Error
}

func (t *Tx) DeleteItem(ctx context.Context, id uuid.UUID) error {
	res := t.conn(ctx).Where("id = ?", id).Delete(&models.Item{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errNoRows
	}
	return nil
}

// GetItemsByIDs loads items and returns them in the order of ids. Unknown
// ids are skipped.
func (r *GormRepo) GetItemsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Item, error) {
	if len(ids) == 0 {
		return []models.Item{}, nil
	}

	var found []models.Item
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]models.Item, len(found))
	for _, it := range found {
		byID[it.ID] = it
	}
	items := make([]models.Item, 0, len(found))
	for _, id := range ids {
		if it, ok := byID[id]; ok {
			items = append(items, it)
		}
	}
	return items, nil
}
