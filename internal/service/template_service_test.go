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

func newTemplateService(db *gorm.DB) TemplateService {
	return NewTemplateService(repository.NewTemplateRepo(db), repository.NewVariantRepo(db))
}

func createTemplate(t *testing.T, svc TemplateService, name string, variantIDs []uuid.UUID) *model.Template {
	t.Helper()
	template, err := svc.Create(&TemplateRequest{Name: name, VariantIDs: variantIDs}, "tester@example.com")
	require.NoError(t, err)
	return template
}

func activeTemplates(t *testing.T, db *gorm.DB) []model.Template {
	t.Helper()
	var templates []model.Template
	require.NoError(t, db.Where("is_active = ?", true).Find(&templates).Error)
	return templates
}

func TestSetActiveKeepsSingleActiveTemplate(t *testing.T) {
	db := setupDB(t)
	svc := newTemplateService(db)

	first := createTemplate(t, svc, "first", nil)
	second := createTemplate(t, svc, "second", nil)

	activated, err := svc.SetActive(first.ID, "tester@example.com")
	require.NoError(t, err)
	assert.True(t, activated.IsActive)

	activated, err = svc.SetActive(second.ID, "tester@example.com")
	require.NoError(t, err)
	assert.True(t, activated.IsActive)

	active := activeTemplates(t, db)
	require.Len(t, active, 1)
	assert.Equal(t, second.ID, active[0].ID)
}

func TestSetActiveUnknownTemplate(t *testing.T) {
	db := setupDB(t)
	svc := newTemplateService(db)
	createTemplate(t, svc, "only", nil)

	_, err := svc.SetActive(uuid.New(), "tester@example.com")
	assert.True(t, apierror.IsNotFound(err))
}

func TestSetActiveIdempotent(t *testing.T) {
	db := setupDB(t)
	svc := newTemplateService(db)
	template := createTemplate(t, svc, "solo", nil)

	_, err := svc.SetActive(template.ID, "tester@example.com")
	require.NoError(t, err)
	_, err = svc.SetActive(template.ID, "tester@example.com")
	require.NoError(t, err)
	assert.Len(t, activeTemplates(t, db), 1)
}

func TestTemplateDuplicateVariantRejected(t *testing.T) {
	db := setupDB(t)
	svc := newTemplateService(db)
	variant := createVariant(t, db, "SKU-TPL", 0)

	_, err := svc.Create(&TemplateRequest{
		Name:       "dupes",
		VariantIDs: []uuid.UUID{variant.ID, variant.ID},
	}, "tester@example.com")

	verr, ok := apierror.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "variant_ids.1")
}

func TestTemplateUnknownVariantRejected(t *testing.T) {
	db := setupDB(t)
	svc := newTemplateService(db)

	_, err := svc.Create(&TemplateRequest{
		Name:       "ghost",
		VariantIDs: []uuid.UUID{uuid.New()},
	}, "tester@example.com")

	verr, ok := apierror.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "variant_ids.0")
}

func TestTemplateDeleteGuards(t *testing.T) {
	db := setupDB(t)
	svc := newTemplateService(db)
	variant := createVariant(t, db, "SKU-DEL", 0)

	template := createTemplate(t, svc, "guarded", []uuid.UUID{variant.ID})
	_, err := svc.SetActive(template.ID, "tester@example.com")
	require.NoError(t, err)

	// Both violations are reported in one response.
	err = svc.Delete(template.ID)
	verr, ok := apierror.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "is_active")
	assert.Contains(t, verr.Fields, "items")

	other := createTemplate(t, svc, "other", nil)
	_, err = svc.SetActive(other.ID, "tester@example.com")
	require.NoError(t, err)

	// Still holds an item.
	err = svc.Delete(template.ID)
	verr, ok = apierror.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "items")
	assert.NotContains(t, verr.Fields, "is_active")

	_, err = svc.Update(template.ID, &TemplateRequest{Name: "guarded"}, "tester@example.com")
	require.NoError(t, err)
	require.NoError(t, svc.Delete(template.ID))
}

func TestTemplateRestoreAndForceDelete(t *testing.T) {
	db := setupDB(t)
	svc := newTemplateService(db)

	template := createTemplate(t, svc, "trashy", nil)
	require.NoError(t, svc.Delete(template.ID))

	_, err := svc.GetByID(template.ID)
	assert.True(t, apierror.IsNotFound(err))

	trashed, err := svc.GetTrashed()
	require.NoError(t, err)
	require.Len(t, trashed, 1)

	restored, err := svc.Restore(template.ID)
	require.NoError(t, err)
	assert.False(t, restored.Trashed())

	// Force delete requires the tombstone first.
	err = svc.ForceDelete(template.ID)
	assert.True(t, apierror.IsNotFound(err))

	require.NoError(t, svc.Delete(template.ID))
	require.NoError(t, svc.ForceDelete(template.ID))

	_, err = svc.Restore(template.ID)
	assert.True(t, apierror.IsNotFound(err))
}

func TestTemplateDuplicateNameRejected(t *testing.T) {
	db := setupDB(t)
	svc := newTemplateService(db)
	createTemplate(t, svc, "taken", nil)

	_, err := svc.Create(&TemplateRequest{Name: "taken"}, "tester@example.com")
	verr, ok := apierror.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "name")
}
