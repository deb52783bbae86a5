package model

import "github.com/google/uuid"

// Template is a reusable set of variants used to pre-populate stock-out
// forms. At most one template is active system-wide; SetActive enforces the
// invariant transactionally.
type Template struct {
	BaseModel
	Name     string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"name" validate:"required"`
	IsActive bool           `gorm:"not null;default:false" json:"is_active"`
	Items    []TemplateItem `gorm:"foreignKey:TemplateID" json:"items,omitempty"`
}

// TemplateItem links a template to a variant. A variant appears at most once
// per template.
type TemplateItem struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	TemplateID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_template_variant" json:"template_id"`
	ProductVariantID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_template_variant" json:"product_variant_id"`
	ProductVariant   *ProductVariant `gorm:"foreignKey:ProductVariantID" json:"product_variant,omitempty"`
}
