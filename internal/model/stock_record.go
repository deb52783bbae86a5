package model

import (
	"time"

	"github.com/google/uuid"
)

// RecordStatus is the stock record lifecycle. Submitted is terminal: a
// submitted record can no longer be mutated, deleted or re-submitted.
type RecordStatus string

const (
	StatusDraft     RecordStatus = "draft"
	StatusSubmitted RecordStatus = "submitted"
)

// IsDraft is the draft-state guard consulted before every mutation of a
// stock record.
func (s RecordStatus) IsDraft() bool {
	return s == StatusDraft
}

// StockInRecord is an inbound stock document. While draft it is freely
// editable; submission applies its line quantities to the ledger.
type StockInRecord struct {
	BaseModel
	OccurredOn  time.Time     `gorm:"type:date;not null" json:"occurred_on"`
	Note        string        `gorm:"type:text" json:"note"`
	Status      RecordStatus  `gorm:"type:varchar(16);not null;default:draft" json:"status"`
	SubmittedAt *time.Time    `json:"submitted_at,omitempty"`
	Items       []StockInItem `gorm:"foreignKey:RecordID" json:"items,omitempty"`
}

type StockInItem struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	RecordID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"record_id"`
	ProductVariantID uuid.UUID       `gorm:"type:uuid;not null" json:"product_variant_id"`
	ProductVariant   *ProductVariant `gorm:"foreignKey:ProductVariantID" json:"product_variant,omitempty"`
	Quantity         int             `gorm:"not null" json:"quantity"`
}

// StockOutRecord is an outbound stock document. Submission additionally
// checks per-line stock sufficiency inside the transaction.
type StockOutRecord struct {
	BaseModel
	OccurredOn  time.Time      `gorm:"type:date;not null" json:"occurred_on"`
	Status      RecordStatus   `gorm:"type:varchar(16);not null;default:draft" json:"status"`
	SubmittedAt *time.Time     `json:"submitted_at,omitempty"`
	Items       []StockOutItem `gorm:"foreignKey:RecordID" json:"items,omitempty"`
}

type StockOutItem struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	RecordID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"record_id"`
	ProductVariantID uuid.UUID       `gorm:"type:uuid;not null" json:"product_variant_id"`
	ProductVariant   *ProductVariant `gorm:"foreignKey:ProductVariantID" json:"product_variant,omitempty"`
	Quantity         int             `gorm:"not null" json:"quantity"`
}
