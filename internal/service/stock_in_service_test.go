package service

import (
	"testing"

	"stockroom/internal/apierror"
	"stockroom/internal/model"
	"stockroom/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newStockInService(db *gorm.DB) StockInService {
	return NewStockInService(repository.NewStockInRepo(db), repository.NewVariantRepo(db), nil)
}

func TestStockInLifecycle(t *testing.T) {
	db := setupDB(t)
	svc := newStockInService(db)
	variant := createVariant(t, db, "SKU-IN", 2)

	record, err := svc.Create(&StockInRequest{
		OccurredOn: "2026-08-29",
		Note:       "weekly delivery",
		Items:      []RecordItemRequest{{ProductVariantID: variant.ID, Quantity: 3}},
	}, "tester@example.com")
	require.NoError(t, err)
	assert.Equal(t, model.StatusDraft, record.Status)
	// Drafts never touch the ledger.
	assert.Equal(t, 2, currentStock(t, db, variant))

	record, err = svc.Update(record.ID, &StockInRequest{
		OccurredOn: "2026-08-30",
		Note:       "corrected date",
		Items:      []RecordItemRequest{{ProductVariantID: variant.ID, Quantity: 5}},
	}, "tester@example.com")
	require.NoError(t, err)
	require.Len(t, record.Items, 1)
	assert.Equal(t, 5, record.Items[0].Quantity)

	submitted, err := svc.Submit(record.ID, &SubmitItemsRequest{
		Items: []RecordItemRequest{{ProductVariantID: variant.ID, Quantity: 5}},
	}, "tester@example.com")
	require.NoError(t, err)
	assert.Equal(t, model.StatusSubmitted, submitted.Status)
	require.NotNil(t, submitted.SubmittedAt)
	assert.Equal(t, 7, currentStock(t, db, variant))
}

func TestStockInSubmitReplacesDraftItems(t *testing.T) {
	db := setupDB(t)
	svc := newStockInService(db)
	first := createVariant(t, db, "SKU-A", 0)
	second := createVariant(t, db, "SKU-B", 0)

	record, err := svc.Create(&StockInRequest{
		OccurredOn: "2026-08-30",
		Items:      []RecordItemRequest{{ProductVariantID: first.ID, Quantity: 9}},
	}, "tester@example.com")
	require.NoError(t, err)

	submitted, err := svc.Submit(record.ID, &SubmitItemsRequest{
		Items: []RecordItemRequest{{ProductVariantID: second.ID, Quantity: 4}},
	}, "tester@example.com")
	require.NoError(t, err)

	// The submitted set wins over what the draft held.
	require.Len(t, submitted.Items, 1)
	assert.Equal(t, second.ID, submitted.Items[0].ProductVariantID)
	assert.Equal(t, 0, currentStock(t, db, first))
	assert.Equal(t, 4, currentStock(t, db, second))
}

func TestStockInUnknownVariantRejected(t *testing.T) {
	db := setupDB(t)
	svc := newStockInService(db)

	_, err := svc.Create(&StockInRequest{
		OccurredOn: "2026-08-30",
		Items:      []RecordItemRequest{{ProductVariantID: uuid.New(), Quantity: 1}},
	}, "tester@example.com")

	verr, ok := apierror.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "items.0.product_variant_id")
}

func TestStockInBadDateRejected(t *testing.T) {
	db := setupDB(t)
	svc := newStockInService(db)

	_, err := svc.Create(&StockInRequest{OccurredOn: "30-08-2026"}, "tester@example.com")
	verr, ok := apierror.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "occurred_on")
}

func TestStockInMutationAfterSubmitRejected(t *testing.T) {
	db := setupDB(t)
	svc := newStockInService(db)
	variant := createVariant(t, db, "SKU-SUB", 0)

	record, err := svc.Create(&StockInRequest{OccurredOn: "2026-08-30"}, "tester@example.com")
	require.NoError(t, err)
	_, err = svc.Submit(record.ID, &SubmitItemsRequest{
		Items: []RecordItemRequest{{ProductVariantID: variant.ID, Quantity: 1}},
	}, "tester@example.com")
	require.NoError(t, err)

	_, err = svc.Update(record.ID, &StockInRequest{OccurredOn: "2026-08-31"}, "tester@example.com")
	_, ok := apierror.AsValidation(err)
	assert.True(t, ok)

	err = svc.Delete(record.ID)
	_, ok = apierror.AsValidation(err)
	assert.True(t, ok)

	_, err = svc.Submit(record.ID, &SubmitItemsRequest{
		Items: []RecordItemRequest{{ProductVariantID: variant.ID, Quantity: 1}},
	}, "tester@example.com")
	_, ok = apierror.AsValidation(err)
	assert.True(t, ok)
	assert.Equal(t, 1, currentStock(t, db, variant))
}

func TestStockInDeleteDraft(t *testing.T) {
	db := setupDB(t)
	svc := newStockInService(db)

	record, err := svc.Create(&StockInRequest{OccurredOn: "2026-08-30"}, "tester@example.com")
	require.NoError(t, err)
	require.NoError(t, svc.Delete(record.ID))

	_, err = svc.GetByID(record.ID)
	assert.True(t, apierror.IsNotFound(err))
}
