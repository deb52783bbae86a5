package service

import (
	"testing"

	"stockroom/internal/apierror"
	"stockroom/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newProductService(db *gorm.DB) ProductService {
	return NewProductService(repository.NewProductRepo(db), repository.NewVariantRepo(db))
}

func TestProductCreateWithVariants(t *testing.T) {
	db := setupDB(t)
	svc := newProductService(db)

	product, err := svc.Create(&ProductRequest{
		Name: "Coffee",
		SKU:  "COF",
		Variants: []ProductVariantRequest{
			{Name: "250g", SKU: "COF-250"},
			{Name: "1kg", SKU: "COF-1000"},
		},
	}, "tester@example.com")
	require.NoError(t, err)
	require.Len(t, product.Variants, 2)
	assert.Zero(t, product.Variants[0].StockCurrent)
}

func TestProductCreateRequiresVariant(t *testing.T) {
	db := setupDB(t)
	svc := newProductService(db)

	_, err := svc.Create(&ProductRequest{Name: "Empty", SKU: "EMP"}, "tester@example.com")
	verr, ok := apierror.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "variants")
}

func TestProductDuplicateVariantSKURejected(t *testing.T) {
	db := setupDB(t)
	svc := newProductService(db)
	createVariant(t, db, "TAKEN", 0)

	_, err := svc.Create(&ProductRequest{
		Name: "Clash",
		SKU:  "CLASH",
		Variants: []ProductVariantRequest{
			{Name: "a", SKU: "NEW-1"},
			{Name: "b", SKU: "TAKEN"},
		},
	}, "tester@example.com")
	verr, ok := apierror.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "variants.1.sku")

	_, err = svc.Create(&ProductRequest{
		Name: "Self clash",
		SKU:  "SELF",
		Variants: []ProductVariantRequest{
			{Name: "a", SKU: "SAME"},
			{Name: "b", SKU: "SAME"},
		},
	}, "tester@example.com")
	verr, ok = apierror.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "variants.1.sku")
}

func TestProductUpdateTombstonesDroppedVariants(t *testing.T) {
	db := setupDB(t)
	svc := newProductService(db)

	product, err := svc.Create(&ProductRequest{
		Name: "Tea",
		SKU:  "TEA",
		Variants: []ProductVariantRequest{
			{Name: "green", SKU: "TEA-G"},
			{Name: "black", SKU: "TEA-B"},
		},
	}, "tester@example.com")
	require.NoError(t, err)

	kept := product.Variants[0].ID
	dropped := product.Variants[1].ID

	updated, err := svc.Update(product.ID, &ProductRequest{
		Name: "Tea",
		SKU:  "TEA",
		Variants: []ProductVariantRequest{
			{ID: &kept, Name: "green loose", SKU: "TEA-G"},
			{Name: "white", SKU: "TEA-W"},
		},
	}, "tester@example.com")
	require.NoError(t, err)
	require.Len(t, updated.Variants, 2)

	skus := []string{updated.Variants[0].SKU, updated.Variants[1].SKU}
	assert.ElementsMatch(t, []string{"TEA-G", "TEA-W"}, skus)

	// Dropped variant is tombstoned, not purged.
	var droppedCount int64
	require.NoError(t, db.Table("product_variants").
		Where("id = ? AND deleted_at IS NOT NULL", dropped).Count(&droppedCount).Error)
	assert.EqualValues(t, 1, droppedCount)
}

func TestProductUpdateVariantOwnershipChecked(t *testing.T) {
	db := setupDB(t)
	svc := newProductService(db)
	foreign := createVariant(t, db, "FOREIGN", 0)

	product, err := svc.Create(&ProductRequest{
		Name:     "Own",
		SKU:      "OWN",
		Variants: []ProductVariantRequest{{Name: "v", SKU: "OWN-V"}},
	}, "tester@example.com")
	require.NoError(t, err)

	_, err = svc.Update(product.ID, &ProductRequest{
		Name:     "Own",
		SKU:      "OWN",
		Variants: []ProductVariantRequest{{ID: &foreign.ID, Name: "stolen", SKU: "OWN-X"}},
	}, "tester@example.com")
	verr, ok := apierror.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "variants.0.id")
}

func TestProductSoftDeleteRestoreForceDelete(t *testing.T) {
	db := setupDB(t)
	svc := newProductService(db)

	product, err := svc.Create(&ProductRequest{
		Name:     "Gone",
		SKU:      "GONE",
		Variants: []ProductVariantRequest{{Name: "v", SKU: "GONE-V"}},
	}, "tester@example.com")
	require.NoError(t, err)
	variantID := product.Variants[0].ID

	require.NoError(t, svc.Delete(product.ID, "tester@example.com"))

	_, err = svc.GetByID(product.ID)
	assert.True(t, apierror.IsNotFound(err))

	// Cascade tombstones the variants too.
	var count int64
	require.NoError(t, db.Table("product_variants").
		Where("id = ? AND deleted_at IS NULL", variantID).Count(&count).Error)
	assert.Zero(t, count)

	restored, err := svc.Restore(product.ID)
	require.NoError(t, err)
	require.Len(t, restored.Variants, 1)
	assert.False(t, restored.Variants[0].Trashed())

	require.NoError(t, svc.Delete(product.ID, "tester@example.com"))
	require.NoError(t, svc.ForceDelete(product.ID))

	trashed, err := svc.GetTrashed()
	require.NoError(t, err)
	assert.Empty(t, trashed)
}

func TestProductRestoreRequiresTombstone(t *testing.T) {
	db := setupDB(t)
	svc := newProductService(db)

	_, err := svc.Restore(uuid.New())
	assert.True(t, apierror.IsNotFound(err))
}
