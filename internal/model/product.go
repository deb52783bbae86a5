package model

import "github.com/google/uuid"

// Product owns a set of variants. Tombstoning a product cascades to its
// variants, and restore brings them back together.
type Product struct {
	BaseModel
	Name        string           `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	SKU         string           `gorm:"type:varchar(64);uniqueIndex;not null" json:"sku" validate:"required"`
	Description string           `gorm:"type:text" json:"description"`
	Variants    []ProductVariant `gorm:"foreignKey:ProductID" json:"variants,omitempty"`
}

// ProductVariant carries the per-variant stock ledger. StockCurrent is only
// ever mutated through the guarded delta update in the variant repository, so
// it is never observably negative after a committed submission.
type ProductVariant struct {
	BaseModel
	ProductID    uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	SKU          string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"sku" validate:"required"`
	StockCurrent int       `gorm:"not null;default:0" json:"stock_current"`
}
