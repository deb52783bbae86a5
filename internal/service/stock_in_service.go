package service

import (
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

// RecordItemRequest is one line of a stock record: a variant reference and a
// requested quantity.
type RecordItemRequest struct {
	ProductVariantID uuid.UUID `json:"product_variant_id" validate:"uuid_required"`
	Quantity         int       `json:"quantity" validate:"gte=0"`
}

type StockInRequest struct {
	OccurredOn string              `json:"occurred_on" validate:"required"`
	Note       string              `json:"note"`
	Items      []RecordItemRequest `json:"items" validate:"dive"`
}

// SubmitItemsRequest finalizes a record. The submitted item set replaces
// whatever was saved in draft.
type SubmitItemsRequest struct {
	Items []RecordItemRequest `json:"items" validate:"required,min=1,dive"`
}

type StockInService interface {
	GetAll() ([]model.StockInRecord, error)
	GetByID(id uuid.UUID) (*model.StockInRecord, error)
	Create(req *StockInRequest, actor string) (*model.StockInRecord, error)
	Update(id uuid.UUID, req *StockInRequest, actor string) (*model.StockInRecord, error)
	Delete(id uuid.UUID) error
	// Submit atomically replaces the draft items, applies +quantity per line
	// to the ledger and flips the record to submitted.
	Submit(id uuid.UUID, req *SubmitItemsRequest, actor string) (*model.StockInRecord, error)
}

type stockInService struct {
	recordRepo  repository.StockInRepository
	variantRepo repository.VariantRepository
	hub         *ws.Hub
}

func NewStockInService(recordRepo repository.StockInRepository, variantRepo repository.VariantRepository, hub *ws.Hub) StockInService {
	return &stockInService{recordRepo: recordRepo, variantRepo: variantRepo, hub: hub}
}

func parseRecordDate(value string) (time.Time, error) {
	occurredOn, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, apierror.NewValidation().Add("occurred_on", "must be a date in YYYY-MM-DD format")
	}
	return occurredOn, nil
}

// validateItemRefs checks every line against the live variant set inside tx,
// reporting per-line errors under items.N.product_variant_id.
func validateItemRefs(tx *gorm.DB, variantRepo repository.VariantRepository, items []RecordItemRequest) (map[uuid.UUID]model.ProductVariant, error) {
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductVariantID)
	}

	live := make(map[uuid.UUID]model.ProductVariant)
	if len(ids) > 0 {
		variants, err := variantRepo.FindLiveByIDs(tx, ids)
		if err != nil {
			return nil, err
		}
		for _, v := range variants {
			live[v.ID] = v
		}
	}

	verr := apierror.NewValidation()
	for i, item := range items {
		if _, ok := live[item.ProductVariantID]; !ok {
			verr.Add(fmt.Sprintf("items.%d.product_variant_id", i), "variant does not exist")
		}
	}
	return live, verr.ErrOrNil()
}

// guardDraft is the draft-state guard: only draft records are mutable,
// deletable or submittable. The violation is a validation error on the
// status field, not an authorization failure.
func guardDraft(status model.RecordStatus) error {
	if !status.IsDraft() {
		return apierror.NewValidation().Add("status", "record has already been submitted")
	}
	return nil
}

func (s *stockInService) GetAll() ([]model.StockInRecord, error) {
	return s.recordRepo.FindAll()
}

func (s *stockInService) GetByID(id uuid.UUID) (*model.StockInRecord, error) {
	record, err := s.recordRepo.FindByID(id)
	if err != nil {
		return nil, apierror.NotFound("stock-in record")
	}
	return record, nil
}

func (s *stockInService) Create(req *StockInRequest, actor string) (*model.StockInRecord, error) {
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

	record := &model.StockInRecord{
		OccurredOn: occurredOn,
		Note:       req.Note,
		Status:     model.StatusDraft,
	}
	record.CreatedBy = actor
	record.UpdatedBy = actor
	for _, item := range req.Items {
		record.Items = append(record.Items, model.StockInItem{
			ProductVariantID: item.ProductVariantID,
			Quantity:         item.Quantity,
		})
	}

	if err := s.recordRepo.Create(record); err != nil {
		return nil, err
	}
	return s.recordRepo.FindByID(record.ID)
}

func (s *stockInService) Update(id uuid.UUID, req *StockInRequest, actor string) (*model.StockInRecord, error) {
	if err := validator.Struct(req); err != nil {
		return nil, err
	}
	record, err := s.recordRepo.FindByID(id)
	if err != nil {
		return nil, apierror.NotFound("stock-in record")
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
		record.Note = req.Note
		record.UpdatedBy = actor
		record.Items = nil // replaced explicitly below
		if err := s.recordRepo.Save(tx, record); err != nil {
			return err
		}
		items := make([]model.StockInItem, len(req.Items))
		for i, item := range req.Items {
			items[i] = model.StockInItem{
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

func (s *stockInService) Delete(id uuid.UUID) error {
	record, err := s.recordRepo.FindByID(id)
	if err != nil {
		return apierror.NotFound("stock-in record")
	}
	if err := guardDraft(record.Status); err != nil {
		return err
	}
	return s.recordRepo.Delete(id)
}

func (s *stockInService) Submit(id uuid.UUID, req *SubmitItemsRequest, actor string) (*model.StockInRecord, error) {
	if err := validator.Struct(req); err != nil {
		return nil, err
	}

	var variantIDs []uuid.UUID
	err := s.recordRepo.DB().Transaction(func(tx *gorm.DB) error {
		var record model.StockInRecord
		if err := tx.First(&record, "id = ?", id).Error; err != nil {
			return apierror.NotFound("stock-in record")
		}
		if err := guardDraft(record.Status); err != nil {
			return err
		}
		if _, err := validateItemRefs(tx, s.variantRepo, req.Items); err != nil {
			return err
		}

		items := make([]model.StockInItem, len(req.Items))
		for i, item := range req.Items {
			items[i] = model.StockInItem{
				RecordID:         record.ID,
				ProductVariantID: item.ProductVariantID,
				Quantity:         item.Quantity,
			}
			variantIDs = append(variantIDs, item.ProductVariantID)
		}
		if err := s.recordRepo.ReplaceItems(tx, record.ID, items); err != nil {
			return err
		}

		for _, item := range req.Items {
			ok, err := s.variantRepo.ApplyDelta(tx, item.ProductVariantID, item.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				// Inbound deltas are non-negative, so the guard only fires
				// when the variant row vanished mid-transaction.
				return apierror.NotFound("product variant")
			}
		}

		return s.recordRepo.MarkSubmitted(tx, record.ID, time.Now(), actor)
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("record_id", id.String()).Int("lines", len(req.Items)).Msg("stock-in submitted")
	s.broadcastStockLevels(variantIDs)
	return s.recordRepo.FindByID(id)
}

// broadcastStockLevels pushes post-commit stock levels to connected clients.
// Called only after the transaction commits, so rollbacks never emit.
func (s *stockInService) broadcastStockLevels(variantIDs []uuid.UUID) {
	if s.hub == nil {
		return
	}
	variants, err := s.variantRepo.FindLiveByIDs(s.recordRepo.DB(), variantIDs)
	if err != nil {
		return
	}
	s.hub.BroadcastStockLevels(variants)
}
