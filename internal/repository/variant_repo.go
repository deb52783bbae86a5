package repository

import (
	"stockroom/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VariantRepository is the stock quantity ledger. StockCurrent is mutated
// exclusively through ApplyDelta so the non-negativity invariant is enforced
// in one place, at commit time, regardless of what pre-flight validation saw.
type VariantRepository interface {
	FindByID(id uuid.UUID) (*model.ProductVariant, error)
	// FindLiveByIDs returns only non-tombstoned variants among ids, inside
	// the caller's transaction.
	FindLiveByIDs(tx *gorm.DB, ids []uuid.UUID) ([]model.ProductVariant, error)
	FindAll() ([]model.ProductVariant, error)
	FindBySKU(sku string) (*model.ProductVariant, error)
	CurrentStock(tx *gorm.DB, id uuid.UUID) (int, error)
	// ApplyDelta adds delta to the variant's stock in a single guarded
	// UPDATE. It reports false when the guard rejects the change, i.e. the
	// resulting quantity would be negative or the row is gone.
	ApplyDelta(tx *gorm.DB, id uuid.UUID, delta int) (bool, error)
}

type variantRepo struct {
	db *gorm.DB
}

func NewVariantRepo(db *gorm.DB) VariantRepository {
	return &variantRepo{db}
}

func (r *variantRepo) FindByID(id uuid.UUID) (*model.ProductVariant, error) {
	var variant model.ProductVariant
	if err := r.db.First(&variant, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &variant, nil
}

func (r *variantRepo) FindLiveByIDs(tx *gorm.DB, ids []uuid.UUID) ([]model.ProductVariant, error) {
	var variants []model.ProductVariant
	if err := tx.Where("id IN ?", ids).Find(&variants).Error; err != nil {
		return nil, err
	}
	return variants, nil
}

func (r *variantRepo) FindAll() ([]model.ProductVariant, error) {
	var variants []model.ProductVariant
	if err := r.db.Order("sku").Find(&variants).Error; err != nil {
		return nil, err
	}
	return variants, nil
}

func (r *variantRepo) FindBySKU(sku string) (*model.ProductVariant, error) {
	var variant model.ProductVariant
	if err := r.db.First(&variant, "sku = ?", sku).Error; err != nil {
		return nil, err
	}
	return &variant, nil
}

func (r *variantRepo) CurrentStock(tx *gorm.DB, id uuid.UUID) (int, error) {
	var variant model.ProductVariant
	if err := tx.Select("stock_current").First(&variant, "id = ?", id).Error; err != nil {
		return 0, err
	}
	return variant.StockCurrent, nil
}

func (r *variantRepo) ApplyDelta(tx *gorm.DB, id uuid.UUID, delta int) (bool, error) {
	res := tx.Model(&model.ProductVariant{}).
		Where("id = ? AND stock_current + ? >= 0", id, delta).
		UpdateColumn("stock_current", gorm.Expr("stock_current + ?", delta))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
