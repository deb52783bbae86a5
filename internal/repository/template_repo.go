package repository

import (
	"stockroom/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TemplateRepository interface {
	FindAll() ([]model.Template, error)
	FindAllTrashed() ([]model.Template, error)
	FindByID(id uuid.UUID) (*model.Template, error)
	FindTrashedByID(id uuid.UUID) (*model.Template, error)
	FindByName(name string) (*model.Template, error)
	// FindActive returns the single active template, gorm.ErrRecordNotFound
	// when none is designated.
	FindActive() (*model.Template, error)
	Create(tx *gorm.DB, template *model.Template) error
	Save(tx *gorm.DB, template *model.Template) error
	ReplaceItems(tx *gorm.DB, templateID uuid.UUID, items []model.TemplateItem) error
	CountItems(id uuid.UUID) (int64, error)
	// DeactivateOthers and Activate together form the atomic set-active
	// sequence; both must run inside the same transaction.
	DeactivateOthers(tx *gorm.DB, id uuid.UUID) error
	Activate(tx *gorm.DB, id uuid.UUID) (bool, error)
	SoftDelete(tx *gorm.DB, id uuid.UUID) error
	Restore(tx *gorm.DB, id uuid.UUID) error
	ForceDelete(tx *gorm.DB, id uuid.UUID) error
	DB() *gorm.DB
}

type templateRepo struct {
	db *gorm.DB
}

func NewTemplateRepo(db *gorm.DB) TemplateRepository {
	return &templateRepo{db}
}

func (r *templateRepo) FindAll() ([]model.Template, error) {
	var templates []model.Template
	err := r.db.Preload("Items.ProductVariant").Order("created_at").Find(&templates).Error
	return templates, err
}

func (r *templateRepo) FindAllTrashed() ([]model.Template, error) {
	var templates []model.Template
	err := r.db.Unscoped().Where("deleted_at IS NOT NULL").
		Preload("Items").Order("created_at").Find(&templates).Error
	return templates, err
}

func (r *templateRepo) FindByID(id uuid.UUID) (*model.Template, error) {
	var template model.Template
	if err := r.db.Preload("Items.ProductVariant").First(&template, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &template, nil
}

func (r *templateRepo) FindTrashedByID(id uuid.UUID) (*model.Template, error) {
	var template model.Template
	err := r.db.Unscoped().Where("id = ? AND deleted_at IS NOT NULL", id).
		Preload("Items").First(&template).Error
	if err != nil {
		return nil, err
	}
	return &template, nil
}

func (r *templateRepo) FindByName(name string) (*model.Template, error) {
	var template model.Template
	if err := r.db.First(&template, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &template, nil
}

func (r *templateRepo) FindActive() (*model.Template, error) {
	var template model.Template
	if err := r.db.Preload("Items.ProductVariant").First(&template, "is_active = ?", true).Error; err != nil {
		return nil, err
	}
	return &template, nil
}

func (r *templateRepo) Create(tx *gorm.DB, template *model.Template) error {
	return tx.Create(template).Error
}

func (r *templateRepo) Save(tx *gorm.DB, template *model.Template) error {
	return tx.Save(template).Error
}

func (r *templateRepo) ReplaceItems(tx *gorm.DB, templateID uuid.UUID, items []model.TemplateItem) error {
	if err := tx.Where("template_id = ?", templateID).Delete(&model.TemplateItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return tx.Create(&items).Error
}

func (r *templateRepo) CountItems(id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.TemplateItem{}).Where("template_id = ?", id).Count(&count).Error
	return count, err
}

func (r *templateRepo) DeactivateOthers(tx *gorm.DB, id uuid.UUID) error {
	return tx.Model(&model.Template{}).
		Where("is_active = ? AND id <> ?", true, id).
		UpdateColumn("is_active", false).Error
}

func (r *templateRepo) Activate(tx *gorm.DB, id uuid.UUID) (bool, error) {
	res := tx.Model(&model.Template{}).Where("id = ?", id).UpdateColumn("is_active", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *templateRepo) SoftDelete(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.Template{}, "id = ?", id).Error
}

func (r *templateRepo) Restore(tx *gorm.DB, id uuid.UUID) error {
	return tx.Unscoped().Model(&model.Template{}).Where("id = ?", id).
		Update("deleted_at", nil).Error
}

func (r *templateRepo) ForceDelete(tx *gorm.DB, id uuid.UUID) error {
	if err := tx.Where("template_id = ?", id).Delete(&model.TemplateItem{}).Error; err != nil {
		return err
	}
	return tx.Unscoped().Delete(&model.Template{}, "id = ?", id).Error
}

func (r *templateRepo) DB() *gorm.DB {
	return r.db
}
