package repository

import (
	"stockroom/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepository interface {
	FindAll() ([]model.Product, error)
	FindAllTrashed() ([]model.Product, error)
	FindByID(id uuid.UUID) (*model.Product, error)
	FindTrashedByID(id uuid.UUID) (*model.Product, error)
	FindBySKU(sku string) (*model.Product, error)
	Create(tx *gorm.DB, product *model.Product) error
	Save(tx *gorm.DB, product *model.Product) error
	// SoftDelete tombstones the product and cascades to its variants.
	SoftDelete(tx *gorm.DB, id uuid.UUID, deletedBy string) error
	// Restore clears the tombstone on the product and its variants.
	Restore(tx *gorm.DB, id uuid.UUID) error
	// ForceDelete purges a tombstoned product and its variants.
	ForceDelete(tx *gorm.DB, id uuid.UUID) error
	DB() *gorm.DB
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) FindAll() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Preload("Variants").Order("created_at").Find(&products).Error
	return products, err
}

func (r *productRepo) FindAllTrashed() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Unscoped().Where("deleted_at IS NOT NULL").
		Preload("Variants", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Order("created_at").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := r.db.Preload("Variants").First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindTrashedByID(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.Unscoped().Where("id = ? AND deleted_at IS NOT NULL", id).
		Preload("Variants", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindBySKU(sku string) (*model.Product, error) {
	var product model.Product
	if err := r.db.First(&product, "sku = ?", sku).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) Create(tx *gorm.DB, product *model.Product) error {
	return tx.Create(product).Error
}

func (r *productRepo) Save(tx *gorm.DB, product *model.Product) error {
	return tx.Save(product).Error
}

func (r *productRepo) SoftDelete(tx *gorm.DB, id uuid.UUID, deletedBy string) error {
	if err := tx.Model(&model.ProductVariant{}).Where("product_id = ?", id).
		Update("updated_by", deletedBy).Error; err != nil {
		return err
	}
	if err := tx.Where("product_id = ?", id).Delete(&model.ProductVariant{}).Error; err != nil {
		return err
	}
	return tx.Delete(&model.Product{}, "id = ?", id).Error
}

func (r *productRepo) Restore(tx *gorm.DB, id uuid.UUID) error {
	if err := tx.Unscoped().Model(&model.ProductVariant{}).Where("product_id = ?", id).
		Update("deleted_at", nil).Error; err != nil {
		return err
	}
	return tx.Unscoped().Model(&model.Product{}).Where("id = ?", id).
		Update("deleted_at", nil).Error
}

func (r *productRepo) ForceDelete(tx *gorm.DB, id uuid.UUID) error {
	if err := tx.Unscoped().Where("product_id = ?", id).Delete(&model.ProductVariant{}).Error; err != nil {
		return err
	}
	return tx.Unscoped().Delete(&model.Product{}, "id = ?", id).Error
}

func (r *productRepo) DB() *gorm.DB {
	return r.db
}
