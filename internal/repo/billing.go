package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/clothing_shop/internal/models"
)

func (r *GormRepo) GetBilling(ctx context.Context, customerID uuid.UUID) (*models.Billing, error) {
	var b models.Billing
	if err := r.DB.WithContext(ctx).Where("customer_id = ?", customerID).First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// UpsertBilling replaces the card on file for the customer.
func (r *GormRepo) UpsertBilling(ctx context.Context, b *models.Billing) error {
	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "customer_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"card_hash", "card_last4", "expiry_date", "updated_at"}),
		}).
		Create(b).Error
}
