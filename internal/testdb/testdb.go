// Package testdb opens throwaway databases for tests.
package testdb

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	pkgdb "github.com/Skotchmaster/clothing_shop/pkg/db"

	"github.com/Skotchmaster/clothing_shop/internal/models"
	"github.com/Skotchmaster/clothing_shop/internal/repo"
)

// Open returns a migrated in-memory SQLite database private to t. The pool
// holds a single connection, so concurrent transactions run one after another.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()) + "_" + uuid.NewString()[:8]
	dsn := fmt.Sprintf("sqlite:file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", name)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := pkgdb.Open(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, repo.Migrate(db))

	t.Cleanup(func() { _ = pkgdb.Close(db) })
	return db
}

func Customer(t *testing.T, db *gorm.DB) models.Account {
	t.Helper()
	id := uuid.New()
	acc := models.Account{
		ID:       id,
		Username: "customer",
		Email:    id.String() + "@example.com",
		Role:     models.RoleCustomer,
	}
	require.NoError(t, db.Create(&acc).Error)
	return acc
}

func Owner(t *testing.T, db *gorm.DB) models.Account {
	t.Helper()
	id := uuid.New()
	acc := models.Account{
		ID:       id,
		Username: "owner",
		Email:    id.String() + "@example.com",
		Role:     models.RoleOwner,
	}
	require.NoError(t, db.Create(&acc).Error)
	return acc
}

// Item inserts a catalog item with the given name and price.
func Item(t *testing.T, db *gorm.DB, ownerID uuid.UUID, name, price string) models.Item {
	t.Helper()
	item := models.Item{
		Name:    name,
		ImgURL:  "https://img.example.com/" + name + ".png",
		Price:   decimal.RequireFromString(price),
		Type:    "shirt",
		OwnerID: ownerID,
	}
	require.NoError(t, db.Create(&item).Error)
	return item
}
