package service

import (
	"testing"

	"stockroom/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Permission{},
		&model.Role{},
		&model.User{},
		&model.Product{},
		&model.ProductVariant{},
		&model.Template{},
		&model.TemplateItem{},
		&model.StockInRecord{},
		&model.StockInItem{},
		&model.StockOutRecord{},
		&model.StockOutItem{},
	))
	return db
}

// createVariant creates a one-variant product and returns the variant with the
// given starting stock.
func createVariant(t *testing.T, db *gorm.DB, sku string, stock int) *model.ProductVariant {
	t.Helper()
	product := &model.Product{
		Name: "Product " + sku,
		SKU:  "P-" + sku,
		Variants: []model.ProductVariant{
			{Name: "Variant " + sku, SKU: sku, StockCurrent: stock},
		},
	}
	require.NoError(t, db.Create(product).Error)
	return &product.Variants[0]
}

func currentStock(t *testing.T, db *gorm.DB, variant *model.ProductVariant) int {
	t.Helper()
	var fresh model.ProductVariant
	require.NoError(t, db.First(&fresh, "id = ?", variant.ID).Error)
	return fresh.StockCurrent
}
