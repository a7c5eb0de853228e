package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/clothing_shop/internal/models"
)

type GormRepo struct {
	DB *gorm.DB
}

// Tx is one unit of work. Every method runs on the same database
// transaction, which InTx commits or rolls back exactly once.
type Tx struct {
	db *gorm.DB
}

func (t *Tx) conn(ctx context.Context) *gorm.DB {
	return t.db.WithContext(ctx)
}

// InTx runs fn in a transaction. A non-nil error from fn rolls back.
func (r *GormRepo) InTx(ctx context.Context, fn func(tx *Tx) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Tx{db: tx})
	})
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.ShippingProvider{},
		&models.Account{},
		&models.Inventory{},
		&models.Warehouse{},
		&models.Item{},
		&models.Order{},
		&models.LineItem{},
		&models.Billing{},
	)
}
