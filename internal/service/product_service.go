package service

import (
	"errors"
	"fmt"

	"stockroom/internal/apierror"
	"stockroom/internal/model"
	"stockroom/internal/repository"
	"stockroom/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductService interface {
	GetAll() ([]model.Product, error)
	GetTrashed() ([]model.Product, error)
	GetByID(id uuid.UUID) (*model.Product, error)
	Create(req *ProductRequest, actor string) (*model.Product, error)
	Update(id uuid.UUID, req *ProductRequest, actor string) (*model.Product, error)
	Delete(id uuid.UUID, actor string) error
	Restore(id uuid.UUID) (*model.Product, error)
	ForceDelete(id uuid.UUID) error
}

type ProductRequest struct {
	Name        string                  `json:"name" validate:"required"`
	SKU         string                  `json:"sku" validate:"required"`
	Description string                  `json:"description"`
	Variants    []ProductVariantRequest `json:"variants" validate:"required,min=1,dive"`
}

// ProductVariantRequest with a nil ID creates a new variant; with an ID it
// updates the existing one. Variants omitted from an update are tombstoned,
// never hard-removed, so submitted stock history keeps its references.
type ProductVariantRequest struct {
	ID   *uuid.UUID `json:"id,omitempty"`
	Name string     `json:"name" validate:"required"`
	SKU  string     `json:"sku" validate:"required"`
}

type productService struct {
	productRepo repository.ProductRepository
	variantRepo repository.VariantRepository
}

func NewProductService(productRepo repository.ProductRepository, variantRepo repository.VariantRepository) ProductService {
	return &productService{productRepo: productRepo, variantRepo: variantRepo}
}

func (s *productService) GetAll() ([]model.Product, error) {
	return s.productRepo.FindAll()
}

func (s *productService) GetTrashed() ([]model.Product, error) {
	return s.productRepo.FindAllTrashed()
}

func (s *productService) GetByID(id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, apierror.NotFound("product")
	}
	return product, nil
}

// validateSKUs rejects duplicate variant SKUs within the request and SKUs
// already taken by other products or variants.
func (s *productService) validateSKUs(req *ProductRequest, productID uuid.UUID) error {
	verr := apierror.NewValidation()

	if existing, _ := s.productRepo.FindBySKU(req.SKU); existing != nil && existing.ID != productID {
		verr.Add("sku", "sku already exists")
	}

	seen := make(map[string]bool)
	for i, v := range req.Variants {
		field := fmt.Sprintf("variants.%d.sku", i)
		if seen[v.SKU] {
			verr.Add(field, "duplicate sku in request")
			continue
		}
		seen[v.SKU] = true
		if existing, _ := s.variantRepo.FindBySKU(v.SKU); existing != nil {
			if v.ID == nil || existing.ID != *v.ID {
				verr.Add(field, "sku already exists")
			}
		}
	}
	return verr.ErrOrNil()
}

func (s *productService) Create(req *ProductRequest, actor string) (*model.Product, error) {
	if err := validator.Struct(req); err != nil {
		return nil, err
	}
	if err := s.validateSKUs(req, uuid.Nil); err != nil {
		return nil, err
	}

	product := &model.Product{
		Name:        req.Name,
		SKU:         req.SKU,
		Description: req.Description,
	}
	product.CreatedBy = actor
	product.UpdatedBy = actor
	for _, v := range req.Variants {
		variant := model.ProductVariant{Name: v.Name, SKU: v.SKU}
		variant.CreatedBy = actor
		variant.UpdatedBy = actor
		product.Variants = append(product.Variants, variant)
	}

	err := s.productRepo.DB().Transaction(func(tx *gorm.DB) error {
		return s.productRepo.Create(tx, product)
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productService) Update(id uuid.UUID, req *ProductRequest, actor string) (*model.Product, error) {
	if err := validator.Struct(req); err != nil {
		return nil, err
	}
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, apierror.NotFound("product")
	}
	if err := s.validateSKUs(req, product.ID); err != nil {
		return nil, err
	}

	current := make(map[uuid.UUID]*model.ProductVariant, len(product.Variants))
	for i := range product.Variants {
		current[product.Variants[i].ID] = &product.Variants[i]
	}

	verr := apierror.NewValidation()
	for i, v := range req.Variants {
		if v.ID != nil {
			if _, ok := current[*v.ID]; !ok {
				verr.Add(fmt.Sprintf("variants.%d.id", i), "variant does not belong to this product")
			}
		}
	}
	if !verr.Empty() {
		return nil, verr
	}

	err = s.productRepo.DB().Transaction(func(tx *gorm.DB) error {
		product.Name = req.Name
		product.SKU = req.SKU
		product.Description = req.Description
		product.UpdatedBy = actor
		product.Variants = nil // variants handled explicitly below
		if err := s.productRepo.Save(tx, product); err != nil {
			return err
		}

		kept := make(map[uuid.UUID]bool)
		for _, v := range req.Variants {
			if v.ID != nil {
				existing := current[*v.ID]
				existing.Name = v.Name
				existing.SKU = v.SKU
				existing.UpdatedBy = actor
				if err := tx.Save(existing).Error; err != nil {
					return err
				}
				kept[*v.ID] = true
				continue
			}
			variant := model.ProductVariant{ProductID: product.ID, Name: v.Name, SKU: v.SKU}
			variant.CreatedBy = actor
			variant.UpdatedBy = actor
			if err := tx.Create(&variant).Error; err != nil {
				return err
			}
		}

		// Tombstone variants dropped from the request.
		for variantID := range current {
			if !kept[variantID] {
				if err := tx.Delete(&model.ProductVariant{}, "id = ?", variantID).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.productRepo.FindByID(id)
}

func (s *productService) Delete(id uuid.UUID, actor string) error {
	if _, err := s.productRepo.FindByID(id); err != nil {
		return apierror.NotFound("product")
	}
	return s.productRepo.DB().Transaction(func(tx *gorm.DB) error {
		return s.productRepo.SoftDelete(tx, id, actor)
	})
}

func (s *productService) Restore(id uuid.UUID) (*model.Product, error) {
	if _, err := s.productRepo.FindTrashedByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("trashed product")
		}
		return nil, err
	}
	err := s.productRepo.DB().Transaction(func(tx *gorm.DB) error {
		return s.productRepo.Restore(tx, id)
	})
	if err != nil {
		return nil, err
	}
	return s.productRepo.FindByID(id)
}

func (s *productService) ForceDelete(id uuid.UUID) error {
	if _, err := s.productRepo.FindTrashedByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.NotFound("trashed product")
		}
		return err
	}
	return s.productRepo.DB().Transaction(func(tx *gorm.DB) error {
		return s.productRepo.ForceDelete(tx, id)
	})
}
