package repository

import (
	"time"

	"stockroom/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StockInRepository interface {
	FindAll() ([]model.StockInRecord, error)
	FindByID(id uuid.UUID) (*model.StockInRecord, error)
	Create(record *model.StockInRecord) error
	Save(tx *gorm.DB, record *model.StockInRecord) error
	ReplaceItems(tx *gorm.DB, recordID uuid.UUID, items []model.StockInItem) error
	MarkSubmitted(tx *gorm.DB, recordID uuid.UUID, at time.Time, by string) error
	Delete(id uuid.UUID) error
	DB() *gorm.DB
}

type stockInRepo struct {
	db *gorm.DB
}

func NewStockInRepo(db *gorm.DB) StockInRepository {
	return &stockInRepo{db}
}

func (r *stockInRepo) FindAll() ([]model.StockInRecord, error) {
	var records []model.StockInRecord
	err := r.db.Preload("Items.ProductVariant").Order("occurred_on DESC").Find(&records).Error
	return records, err
}

func (r *stockInRepo) FindByID(id uuid.UUID) (*model.StockInRecord, error) {
	var record model.StockInRecord
	if err := r.db.Preload("Items.ProductVariant").First(&record, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *stockInRepo) Create(record *model.StockInRecord) error {
	return r.db.Create(record).Error
}

func (r *stockInRepo) Save(tx *gorm.DB, record *model.StockInRecord) error {
	return tx.Save(record).Error
}

func (r *stockInRepo) ReplaceItems(tx *gorm.DB, recordID uuid.UUID, items []model.StockInItem) error {
	if err := tx.Where("record_id = ?", recordID).Delete(&model.StockInItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return tx.Create(&items).Error
}

func (r *stockInRepo) MarkSubmitted(tx *gorm.DB, recordID uuid.UUID, at time.Time, by string) error {
	return tx.Model(&model.StockInRecord{}).Where("id = ?", recordID).
		Updates(map[string]interface{}{
			"status":       model.StatusSubmitted,
			"submitted_at": at,
			"updated_by":   by,
		}).Error
}

func (r *stockInRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.StockInRecord{}, "id = ?", id).Error
}

func (r *stockInRepo) DB() *gorm.DB {
	return r.db
}
