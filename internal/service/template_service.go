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

type TemplateService interface {
	GetAll() ([]model.Template, error)
	GetTrashed() ([]model.Template, error)
	GetByID(id uuid.UUID) (*model.Template, error)
	// Resolve returns the active template with its variants, used to
	// pre-populate stock-out forms. Nil when no template is active.
	Resolve() (*model.Template, error)
	Create(req *TemplateRequest, actor string) (*model.Template, error)
	Update(id uuid.UUID, req *TemplateRequest, actor string) (*model.Template, error)
	SetActive(id uuid.UUID, actor string) (*model.Template, error)
	Delete(id uuid.UUID) error
	Restore(id uuid.UUID) (*model.Template, error)
	ForceDelete(id uuid.UUID) error
}

// TemplateRequest carries the full desired variant set. An empty set is
// legal; a template must be emptied before it can be soft-deleted.
type TemplateRequest struct {
	Name       string      `json:"name" validate:"required"`
	VariantIDs []uuid.UUID `json:"variant_ids"`
}

type templateService struct {
	templateRepo repository.TemplateRepository
	variantRepo  repository.VariantRepository
}

func NewTemplateService(templateRepo repository.TemplateRepository, variantRepo repository.VariantRepository) TemplateService {
	return &templateService{templateRepo: templateRepo, variantRepo: variantRepo}
}

func (s *templateService) GetAll() ([]model.Template, error) {
	return s.templateRepo.FindAll()
}

func (s *templateService) GetTrashed() ([]model.Template, error) {
	return s.templateRepo.FindAllTrashed()
}

func (s *templateService) GetByID(id uuid.UUID) (*model.Template, error) {
	template, err := s.templateRepo.FindByID(id)
	if err != nil {
		return nil, apierror.NotFound("template")
	}
	return template, nil
}

func (s *templateService) Resolve() (*model.Template, error) {
	template, err := s.templateRepo.FindActive()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return template, nil
}

// validateVariantIDs rejects duplicate ids (naming the offending index, never
// silently deduplicating) and ids that do not reference a live variant.
func (s *templateService) validateVariantIDs(ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	verr := apierror.NewValidation()

	seen := make(map[uuid.UUID]bool, len(ids))
	for i, id := range ids {
		if seen[id] {
			verr.Add(fmt.Sprintf("variant_ids.%d", i), "duplicate variant in template")
		}
		seen[id] = true
	}
	if !verr.Empty() {
		return verr
	}

	live, err := s.variantRepo.FindLiveByIDs(s.templateRepo.DB(), ids)
	if err != nil {
		return err
	}
	found := make(map[uuid.UUID]bool, len(live))
	for _, v := range live {
		found[v.ID] = true
	}
	for i, id := range ids {
		if !found[id] {
			verr.Add(fmt.Sprintf("variant_ids.%d", i), "variant does not exist")
		}
	}
	return verr.ErrOrNil()
}

func (s *templateService) Create(req *TemplateRequest, actor string) (*model.Template, error) {
	if err := validator.Struct(req); err != nil {
		return nil, err
	}
	if existing, _ := s.templateRepo.FindByName(req.Name); existing != nil {
		return nil, apierror.NewValidation().Add("name", "template name already exists")
	}
	if err := s.validateVariantIDs(req.VariantIDs); err != nil {
		return nil, err
	}

	template := &model.Template{Name: req.Name}
	template.CreatedBy = actor
	template.UpdatedBy = actor

	err := s.templateRepo.DB().Transaction(func(tx *gorm.DB) error {
		if err := s.templateRepo.Create(tx, template); err != nil {
			return err
		}
		items := make([]model.TemplateItem, len(req.VariantIDs))
		for i, variantID := range req.VariantIDs {
			items[i] = model.TemplateItem{TemplateID: template.ID, ProductVariantID: variantID}
		}
		return s.templateRepo.ReplaceItems(tx, template.ID, items)
	})
	if err != nil {
		return nil, err
	}
	return s.templateRepo.FindByID(template.ID)
}

func (s *templateService) Update(id uuid.UUID, req *TemplateRequest, actor string) (*model.Template, error) {
	if err := validator.Struct(req); err != nil {
		return nil, err
	}
	template, err := s.templateRepo.FindByID(id)
	if err != nil {
		return nil, apierror.NotFound("template")
	}
	if req.Name != template.Name {
		if existing, _ := s.templateRepo.FindByName(req.Name); existing != nil {
			return nil, apierror.NewValidation().Add("name", "template name already exists")
		}
	}
	if err := s.validateVariantIDs(req.VariantIDs); err != nil {
		return nil, err
	}

	err = s.templateRepo.DB().Transaction(func(tx *gorm.DB) error {
		template.Name = req.Name
		template.UpdatedBy = actor
		template.Items = nil // replaced explicitly below
		if err := s.templateRepo.Save(tx, template); err != nil {
			return err
		}
		items := make([]model.TemplateItem, len(req.VariantIDs))
		for i, variantID := range req.VariantIDs {
			items[i] = model.TemplateItem{TemplateID: template.ID, ProductVariantID: variantID}
		}
		return s.templateRepo.ReplaceItems(tx, template.ID, items)
	})
	if err != nil {
		return nil, err
	}
	return s.templateRepo.FindByID(id)
}

// SetActive deactivates every other template and activates the target as one
// atomic unit, so at most one template is active at any observable instant.
func (s *templateService) SetActive(id uuid.UUID, actor string) (*model.Template, error) {
	err := s.templateRepo.DB().Transaction(func(tx *gorm.DB) error {
		if err := s.templateRepo.DeactivateOthers(tx, id); err != nil {
			return err
		}
		activated, err := s.templateRepo.Activate(tx, id)
		if err != nil {
			return err
		}
		if !activated {
			return apierror.NotFound("template")
		}
		return tx.Model(&model.Template{}).Where("id = ?", id).
			Update("updated_by", actor).Error
	})
	if err != nil {
		return nil, err
	}
	return s.templateRepo.FindByID(id)
}

// Delete soft-deletes. An active template or one that still carries items is
// not deletable; each cause is reported separately.
func (s *templateService) Delete(id uuid.UUID) error {
	template, err := s.templateRepo.FindByID(id)
	if err != nil {
		return apierror.NotFound("template")
	}

	verr := apierror.NewValidation()
	if template.IsActive {
		verr.Add("is_active", "an active template cannot be deleted")
	}
	count, err := s.templateRepo.CountItems(id)
	if err != nil {
		return err
	}
	if count > 0 {
		verr.Addf("items", "template still has %d item(s)", count)
	}
	if !verr.Empty() {
		return verr
	}

	return s.templateRepo.DB().Transaction(func(tx *gorm.DB) error {
		return s.templateRepo.SoftDelete(tx, id)
	})
}

func (s *templateService) Restore(id uuid.UUID) (*model.Template, error) {
	if _, err := s.templateRepo.FindTrashedByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("trashed template")
		}
		return nil, err
	}
	err := s.templateRepo.DB().Transaction(func(tx *gorm.DB) error {
		return s.templateRepo.Restore(tx, id)
	})
	if err != nil {
		return nil, err
	}
	return s.templateRepo.FindByID(id)
}

func (s *templateService) ForceDelete(id uuid.UUID) error {
	if _, err := s.templateRepo.FindTrashedByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.NotFound("trashed template")
		}
		return err
	}
	return s.templateRepo.DB().Transaction(func(tx *gorm.DB) error {
		return s.templateRepo.ForceDelete(tx, id)
	})
}
