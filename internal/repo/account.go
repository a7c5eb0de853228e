package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/Skotchmaster/clothing_shop/internal/models"
)

func (t *Tx) GetAccount(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	var acc models.Account
	if err := t.conn(ctx).Where("id = ?", id).First(&acc).Error; err != nil {
		return nil, err
	}
	return &acc, nil
}

func (r *GormRepo) CreateAccount(ctx context.Context, acc *models.Account) error {
	return r.DB.WithContext(ctx).Create(acc).Error
}
