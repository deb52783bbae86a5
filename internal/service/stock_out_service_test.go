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

func newStockOutService(db *gorm.DB) StockOutService {
	return NewStockOutService(
		repository.NewStockOutRepo(db),
		repository.NewVariantRepo(db),
		repository.NewTemplateRepo(db),
		nil,
	)
}

func createDraftStockOut(t *testing.T, svc StockOutService, items []RecordItemRequest) *model.StockOutRecord {
	t.Helper()
	record, err := svc.Create(&StockOutRequest{OccurredOn: "2026-08-30", Items: items}, "tester@example.com")
	require.NoError(t, err)
	require.Equal(t, model.StatusDraft, record.Status)
	return record
}

func TestStockOutSubmitReducesStock(t *testing.T) {
	db := setupDB(t)
	svc := newStockOutService(db)
	variant := createVariant(t, db, "SKU-001", 10)

	record := createDraftStockOut(t, svc, nil)
	submitted, err := svc.Submit(record.ID, &SubmitItemsRequest{
		Items: []RecordItemRequest{{ProductVariantID: variant.ID, Quantity: 4}},
	}, "tester@example.com")
	require.NoError(t, err)

	assert.Equal(t, model.StatusSubmitted, submitted.Status)
	require.NotNil(t, submitted.SubmittedAt)
	assert.Equal(t, 6, currentStock(t, db, variant))
}

func TestStockOutSubmitInsufficientStockRollsBack(t *testing.T) {
	db := setupDB(t)
	svc := newStockOutService(db)
	plenty := createVariant(t, db, "SKU-OK", 100)
	scarce := createVariant(t, db, "SKU-LOW", 3)

	record := createDraftStockOut(t, svc, nil)
	_, err := svc.Submit(record.ID, &SubmitItemsRequest{
		Items: []RecordItemRequest{
			{ProductVariantID: plenty.ID, Quantity: 10},
			{ProductVariantID: scarce.ID, Quantity: 5},
		},
	}, "tester@example.com")

	verr, ok := apierror.AsValidation(err)
	require.True(t, ok)
	require.Contains(t, verr.Fields, "items.1.quantity")
	assert.Contains(t, verr.Fields["items.1.quantity"][0], "insufficient stock")
	assert.Contains(t, verr.Fields["items.1.quantity"][0], "requested 5, available 3")

	// Nothing moved, including the line that on its own was satisfiable.
	assert.Equal(t, 100, currentStock(t, db, plenty))
	assert.Equal(t, 3, currentStock(t, db, scarce))

	fresh, err := svc.GetByID(record.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusDraft, fresh.Status)
}

func TestStockOutSubmitAggregatesLinesPerVariant(t *testing.T) {
	db := setupDB(t)
	svc := newStockOutService(db)
	variant := createVariant(t, db, "SKU-AGG", 10)

	record := createDraftStockOut(t, svc, nil)
	_, err := svc.Submit(record.ID, &SubmitItemsRequest{
		Items: []RecordItemRequest{
			{ProductVariantID: variant.ID, Quantity: 7},
			{ProductVariantID: variant.ID, Quantity: 7},
		},
	}, "tester@example.com")

	// Each line alone fits; together they overdraw.
	verr, ok := apierror.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "items.1.quantity")
	assert.Equal(t, 10, currentStock(t, db, variant))
}

func TestStockOutSubmitDrainToZeroAllowed(t *testing.T) {
	db := setupDB(t)
	svc := newStockOutService(db)
	variant := createVariant(t, db, "SKU-ZERO", 5)

	record := createDraftStockOut(t, svc, nil)
	_, err := svc.Submit(record.ID, &SubmitItemsRequest{
		Items: []RecordItemRequest{{ProductVariantID: variant.ID, Quantity: 5}},
	}, "tester@example.com")
	require.NoError(t, err)
	assert.Equal(t, 0, currentStock(t, db, variant))
}

func TestStockOutSubmitTwiceRejected(t *testing.T) {
	db := setupDB(t)
	svc := newStockOutService(db)
	variant := createVariant(t, db, "SKU-TWICE", 10)

	record := createDraftStockOut(t, svc, nil)
	items := &SubmitItemsRequest{Items: []RecordItemRequest{{ProductVariantID: variant.ID, Quantity: 2}}}
	_, err := svc.Submit(record.ID, items, "tester@example.com")
	require.NoError(t, err)

	_, err = svc.Submit(record.ID, items, "tester@example.com")
	verr, ok := apierror.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "status")

	// Applied exactly once.
	assert.Equal(t, 8, currentStock(t, db, variant))
}

func TestStockOutSubmitUnknownVariantRejected(t *testing.T) {
	db := setupDB(t)
	svc := newStockOutService(db)

	record := createDraftStockOut(t, svc, nil)
	_, err := svc.Submit(record.ID, &SubmitItemsRequest{
		Items: []RecordItemRequest{{ProductVariantID: uuid.New(), Quantity: 1}},
	}, "tester@example.com")

	verr, ok := apierror.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "items.0.product_variant_id")
}

func TestStockOutMutationAfterSubmitRejected(t *testing.T) {
	db := setupDB(t)
	svc := newStockOutService(db)
	variant := createVariant(t, db, "SKU-MUT", 10)

	record := createDraftStockOut(t, svc, nil)
	_, err := svc.Submit(record.ID, &SubmitItemsRequest{
		Items: []RecordItemRequest{{ProductVariantID: variant.ID, Quantity: 1}},
	}, "tester@example.com")
	require.NoError(t, err)

	_, err = svc.Update(record.ID, &StockOutRequest{OccurredOn: "2026-08-31"}, "tester@example.com")
	_, ok := apierror.AsValidation(err)
	assert.True(t, ok)

	err = svc.Delete(record.ID)
	_, ok = apierror.AsValidation(err)
	assert.True(t, ok)
}

func TestStockOutPrefillFromActiveTemplate(t *testing.T) {
	db := setupDB(t)
	svc := newStockOutService(db)
	variant := createVariant(t, db, "SKU-PRE", 42)

	templateSvc := NewTemplateService(repository.NewTemplateRepo(db), repository.NewVariantRepo(db))
	template, err := templateSvc.Create(&TemplateRequest{
		Name:       "Morning run",
		VariantIDs: []uuid.UUID{variant.ID},
	}, "tester@example.com")
	require.NoError(t, err)
	_, err = templateSvc.SetActive(template.ID, "tester@example.com")
	require.NoError(t, err)

	items, err := svc.Prefill()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, variant.ID, items[0].ProductVariantID)
	assert.Equal(t, "SKU-PRE", items[0].VariantSKU)
	assert.Equal(t, 42, items[0].StockCurrent)
	assert.Zero(t, items[0].Quantity)
}

func TestStockOutPrefillWithoutActiveTemplate(t *testing.T) {
	db := setupDB(t)
	svc := newStockOutService(db)

	items, err := svc.Prefill()
	require.NoError(t, err)
	assert.Empty(t, items)
}
