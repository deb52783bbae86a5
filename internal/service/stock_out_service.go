package service

import (
	"errors"
	"fmt"
	"time"

	"stockroom/internal/apierror"
	"stockroom/internal/model"
	"stockroom/internal/repository"
	"stockroom/internal/ws"
	"stockroom/pkg/validator"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type StockOutRequest struct {
	OccurredOn string              `json:"occurred_on" validate:"required"`
	Items      []RecordItemRequest `json:"items" validate:"dive"`
}

// PrefillItem is a stock-out form line seeded from the active template, with
// quantity zero and the current stock level for the operator's reference.
type PrefillItem struct {
	ProductVariantID uuid.UUID `json:"product_variant_id"`
	VariantName      string    `json:"variant_name"`
	VariantSKU       string    `json:"variant_sku"`
	StockCurrent     int       `json:"stock_current"`
	Quantity         int       `json:"quantity"`
}

type StockOutService interface {
	GetAll() ([]model.StockOutRecord, error)
	GetByID(id uuid.UUID) (*model.StockOutRecord, error)
	// Prefill returns form lines derived from the active template, or an
	// empty slice when no template is active.
	Prefill() ([]PrefillItem, error)
	Create(req *StockOutRequest, actor string) (*model.StockOutRecord, error)
	Update(id uuid.UUID, req *StockOutRequest, actor string) (*model.StockOutRecord, error)
	Delete(id uuid.UUID) error
	// Submit atomically replaces the draft items, applies -quantity per line
	// to the ledger and flips the record to submitted. No line may drive a
	// variant's stock below zero; if any would, the whole submission rolls
	// back and every failing line is reported.
	Submit(id uuid.UUID, req *SubmitItemsRequest, actor string) (*model.StockOutRecord, error)
}

type stockOutService struct {
	recordRepo   repository.StockOutRepository
	variantRepo  repository.VariantRepository
	templateRepo repository.TemplateRepository
	hub          *ws.Hub
}

func NewStockOutService(recordRepo repository.StockOutRepository, variantRepo repository.VariantRepository, templateRepo repository.TemplateRepository, hub *ws.Hub) StockOutService {
	return &stockOutService{recordRepo: recordRepo, variantRepo: variantRepo, templateRepo: templateRepo, hub: hub}
}

func (s *stockOutService) GetAll() ([]model.StockOutRecord, error) {
	return s.recordRepo.FindAll()
}

func (s *stockOutService) GetByID(id uuid.UUID) (*model.StockOutRecord, error) {
	record, err := s.recordRepo.FindByID(id)
	if err != nil {
		return nil, apierror.NotFound("stock-out record")
	}
	return record, nil
}

func (s *stockOutService) Prefill() ([]PrefillItem, error) {
	template, err := s.templateRepo.FindActive()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []PrefillItem{}, nil
		}
		return nil, err
	}

	items := make([]PrefillItem, 0, len(template.Items))
	for _, item := range template.Items {
		// Tombstoned variants are not preloaded, so they stay out of new
		// forms even while the template still references them.
		if item.ProductVariant == nil || item.ProductVariant.Trashed() {
			continue
		}
		items = append(items, PrefillItem{
			ProductVariantID: item.ProductVariantID,
			VariantName:      item.ProductVariant.Name,
			VariantSKU:       item.ProductVariant.SKU,
			StockCurrent:     item.ProductVariant.StockCurrent,
		})
	}
	return items, nil
}

func (s *stockOutService) Create(req *StockOutRequest, actor string) (*model.StockOutRecord, error) {
	if err := validator.Struct(req); err != nil {
		return nil, err
	}
	occurredOn, err := parseRecordDate(req.OccurredOn)
	if err != nil {
		return nil, err
	}
	if _, err := validateItemRefs(s.recordRepo.DB(), s.variantRepo, req.Items); err != nil {
		return nil, err
	}

	record := &model.StockOutRecord{
		OccurredOn: occurredOn,
		Status:     model.StatusDraft,
	}
	record.CreatedBy = actor
	record.UpdatedBy = actor
	for _, item := range req.Items {
		record.Items = append(record.Items, model.StockOutItem{
			ProductVariantID: item.ProductVariantID,
			Quantity:         item.Quantity,
		})
	}

	if err := s.recordRepo.Create(record); err != nil {
		return nil, err
	}
	return s.recordRepo.FindByID(record.ID)
}

func (s *stockOutService) Update(id uuid.UUID, req *StockOutRequest, actor string) (*model.StockOutRecord, error) {
	if err := validator.Struct(req); err != nil {
		return nil, err
	}
	record, err := s.recordRepo.FindByID(id)
	if err != nil {
		return nil, apierror.NotFound("stock-out record")
	}
	if err := guardDraft(record.Status); err != nil {
		return nil, err
	}
	occurredOn, err := parseRecordDate(req.OccurredOn)
	if err != nil {
		return nil, err
	}
	if _, err := validateItemRefs(s.recordRepo.DB(), s.variantRepo, req.Items); err != nil {
		return nil, err
	}

	err = s.recordRepo.DB().Transaction(func(tx *gorm.DB) error {
		record.OccurredOn = occurredOn
		record.UpdatedBy = actor
		record.Items = nil // replaced explicitly below
		if err := s.recordRepo.Save(tx, record); err != nil {
			return err
		}
		items := make([]model.StockOutItem, len(req.Items))
		for i, item := range req.Items {
			items[i] = model.StockOutItem{
				RecordID:         record.ID,
				ProductVariantID: item.ProductVariantID,
				Quantity:         item.Quantity,
			}
		}
		return s.recordRepo.ReplaceItems(tx, record.ID, items)
	})
	if err != nil {
		return nil, err
	}
	return s.recordRepo.FindByID(id)
}

func (s *stockOutService) Delete(id uuid.UUID) error {
	record, err := s.recordRepo.FindByID(id)
	if err != nil {
		return apierror.NotFound("stock-out record")
	}
	if err := guardDraft(record.Status); err != nil {
		return err
	}
	return s.recordRepo.Delete(id)
}

// checkSufficiency walks the lines accumulating per-variant consumption, so a
// variant drawn down by several lines is checked against its combined total.
// Every failing line is reported, under items.N.quantity.
func checkSufficiency(items []RecordItemRequest, live map[uuid.UUID]model.ProductVariant) error {
	verr := apierror.NewValidation()
	consumed := make(map[uuid.UUID]int)
	for i, item := range items {
		variant, ok := live[item.ProductVariantID]
		if !ok {
			continue
		}
		consumed[item.ProductVariantID] += item.Quantity
		if consumed[item.ProductVariantID] > variant.StockCurrent {
			verr.Addf(fmt.Sprintf("items.%d.quantity", i),
				"insufficient stock: requested %d, available %d",
				consumed[item.ProductVariantID], variant.StockCurrent)
		}
	}
	return verr.ErrOrNil()
}

func (s *stockOutService) Submit(id uuid.UUID, req *SubmitItemsRequest, actor string) (*model.StockOutRecord, error) {
	if err := validator.Struct(req); err != nil {
		return nil, err
	}

	var variantIDs []uuid.UUID
	err := s.recordRepo.DB().Transaction(func(tx *gorm.DB) error {
		var record model.StockOutRecord
		if err := tx.First(&record, "id = ?", id).Error; err != nil {
			return apierror.NotFound("stock-out record")
		}
		if err := guardDraft(record.Status); err != nil {
			return err
		}
		live, err := validateItemRefs(tx, s.variantRepo, req.Items)
		if err != nil {
			return err
		}
		if err := checkSufficiency(req.Items, live); err != nil {
			return err
		}

		items := make([]model.StockOutItem, len(req.Items))
		for i, item := range req.Items {
			items[i] = model.StockOutItem{
				RecordID:         record.ID,
				ProductVariantID: item.ProductVariantID,
				Quantity:         item.Quantity,
			}
			variantIDs = append(variantIDs, item.ProductVariantID)
		}
		if err := s.recordRepo.ReplaceItems(tx, record.ID, items); err != nil {
			return err
		}

		// The guarded update re-checks non-negativity at write time. A
		// concurrent submission that consumed the stock between the
		// pre-flight read and here surfaces as a rejected delta.
		for i, item := range req.Items {
			ok, err := s.variantRepo.ApplyDelta(tx, item.ProductVariantID, -item.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				available, err := s.variantRepo.CurrentStock(tx, item.ProductVariantID)
				if err != nil {
					return err
				}
				return apierror.NewValidation().Addf(
					fmt.Sprintf("items.%d.quantity", i),
					"insufficient stock: requested %d, available %d",
					item.Quantity, available)
			}
		}

		return s.recordRepo.MarkSubmitted(tx, record.ID, time.Now(), actor)
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("record_id", id.String()).Int("lines", len(req.Items)).Msg("stock-out submitted")
	s.broadcastStockLevels(variantIDs)
	return s.recordRepo.FindByID(id)
}

func (s *stockOutService) broadcastStockLevels(variantIDs []uuid.UUID) {
	if s.hub == nil {
		return
	}
	variants, err := s.variantRepo.FindLiveByIDs(s.recordRepo.DB(), variantIDs)
	if err != nil {
		return
	}
	s.hub.BroadcastStockLevels(variants)
}
