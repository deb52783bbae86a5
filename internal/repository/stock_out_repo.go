package repository

import (
	"time"

	"stockroom/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StockOutRepository interface {
	FindAll() ([]model.StockOutRecord, error)
	FindByID(id uuid.UUID) (*model.StockOutRecord, error)
	Create(record *model.StockOutRecord) error
	Save(tx *gorm.DB, record *model.StockOutRecord) error
	ReplaceItems(tx *gorm.DB, recordID uuid.UUID, items []model.StockOutItem) error
	MarkSubmitted(tx *gorm.DB, recordID uuid.UUID, at time.Time, by string) error
	Delete(id uuid.UUID) error
	DB() *gorm.DB
}

type stockOutRepo struct {
	db *gorm.DB
}

func NewStockOutRepo(db *gorm.DB) StockOutRepository {
	return &stockOutRepo{db}
}

func (r *stockOutRepo) FindAll() ([]model.StockOutRecord, error) {
	var records []model.StockOutRecord
	err := r.db.Preload("Items.ProductVariant").Order("occurred_on DESC").Find(&records).Error
	return records, err
}

func (r *stockOutRepo) FindByID(id uuid.UUID) (*model.StockOutRecord, error) {
	var record model.StockOutRecord
	if err := r.db.Preload("Items.ProductVariant").First(&record, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *stockOutRepo) Create(record *model.StockOutRecord) error {
	return r.db.Create(record).Error
}

func (r *stockOutRepo) Save(tx *gorm.DB, record *model.StockOutRecord) error {
	return tx.Save(record).Error
}

func (r *stockOutRepo) ReplaceItems(tx *gorm.DB, recordID uuid.UUID, items []model.StockOutItem) error {
	if err := tx.Where("record_id = ?", recordID).Delete(&model.StockOutItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return tx.Create(&items).Error
}

func (r *stockOutRepo) MarkSubmitted(tx *gorm.DB, recordID uuid.UUID, at time.Time, by string) error {
	return tx.Model(&model.StockOutRecord{}).Where("id = ?", recordID).
		Updates(map[string]interface{}{
			"status":       model.StatusSubmitted,
			"submitted_at": at,
			"updated_by":   by,
		}).Error
}

func (r *stockOutRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.StockOutRecord{}, "id = ?", id).Error
}

func (r *stockOutRepo) DB() *gorm.DB {
	return r.db
}
