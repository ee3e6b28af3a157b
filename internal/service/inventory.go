package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/openinventory/inventory-admin/internal/apperr"
	"github.com/openinventory/inventory-admin/internal/event"
	"github.com/openinventory/inventory-admin/internal/model"
	"github.com/openinventory/inventory-admin/internal/repository"
	"github.com/openinventory/inventory-admin/internal/storage/db"
	"github.com/openinventory/inventory-admin/pkg/outbox"
	"github.com/openinventory/inventory-admin/pkg/ptr"
	"github.com/openinventory/inventory-admin/pkg/validator"
)

type CreateProductParams struct {
	Name        string  `validate:"required"`
	Description string  `validate:"-"`
	Category    string  `validate:"required"`
	Price       float64 `validate:"required,gt=0"`
	Stock       int     `validate:"gte=0"`
	ImageURL    string  `validate:"omitempty,url"`
}

// UpdateProductParams is a partial patch: nil fields keep their stored values.
type UpdateProductParams struct {
	Name        *string  `validate:"omitempty,min=1"`
	Description *string  `validate:"-"`
	Category    *string  `validate:"omitempty,min=1"`
	Price       *float64 `validate:"omitempty,gt=0"`
	Stock       *int     `validate:"omitempty,gte=0"`
	ImageURL    *string  `validate:"omitempty,url"`
}

type SellProductParams struct {
	ProductID uuid.UUID `validate:"required"`
	Quantity  int       `validate:"required,gt=0"`
}

// InventoryService applies the four catalog mutations. Each mutation is a
// best-effort two-step sequence: the catalog write commits first, then the
// audit record and its outbox event commit together in one transaction. A
// failure of the second step never fails the operation.
type InventoryService interface {
	CreateProduct(ctx context.Context, caller model.CallerIdentity, params CreateProductParams) (model.Product, error)
	UpdateProduct(ctx context.Context, caller model.CallerIdentity, id uuid.UUID, patch UpdateProductParams) (model.Product, error)
	DeleteProduct(ctx context.Context, caller model.CallerIdentity, id uuid.UUID) error
	SellProduct(ctx context.Context, caller model.CallerIdentity, params SellProductParams) (model.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (model.Product, error)
	ListProducts(ctx context.Context) ([]model.Product, error)
}

type inventoryService struct {
	db           db.DB
	logger       *slog.Logger
	validator    validator.Validator
	productRepo  repository.ProductRepository
	activityRepo repository.ActivityRepository
	outboxRepo   repository.OutboxMsgRepository
}

func NewInventoryService(
	db db.DB,
	logger *slog.Logger,
	v validator.Validator,
	productRepo repository.ProductRepository,
	activityRepo repository.ActivityRepository,
	outboxRepo repository.OutboxMsgRepository,
) InventoryService {
	return &inventoryService{
		db:           db,
		logger:       logger.With(slog.String("service", "inventory")),
		validator:    v,
		productRepo:  productRepo,
		activityRepo: activityRepo,
		outboxRepo:   outboxRepo,
	}
}

func (s *inventoryService) CreateProduct(ctx context.Context, caller model.CallerIdentity, params CreateProductParams) (model.Product, error) {
	if err := s.validator.Validate(params); err != nil {
		return model.Product{}, fmt.Errorf("validate create product params: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return model.Product{}, fmt.Errorf("generate uuid v7: %w", err)
	}

	now := time.Now()
	product := model.Product{
		ID:          id,
		Name:        params.Name,
		Description: params.Description,
		Category:    params.Category,
		Price:       params.Price,
		Stock:       params.Stock,
		Sold:        0,
		ImageURL:    params.ImageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.productRepo.Insert(ctx, product); err != nil {
		return model.Product{}, fmt.Errorf("product repository insert: %w", err)
	}

	s.recordActivity(ctx, model.Activity{
		Action:      model.ActionCreate,
		ProductName: product.Name,
		Details:     fmt.Sprintf("Added new product with stock: %d", product.Stock),
		User:        caller.DisplayName(),
	}, nil)

	return product, nil
}

func (s *inventoryService) UpdateProduct(ctx context.Context, caller model.CallerIdentity, id uuid.UUID, patch UpdateProductParams) (model.Product, error) {
	if err := s.validator.Validate(patch); err != nil {
		return model.Product{}, fmt.Errorf("validate update product params: %w", err)
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrProductNotFound) {
		return model.Product{}, apperr.ProductNotFoundErr.WrapParent(err)
	}
	if err != nil {
		return model.Product{}, fmt.Errorf("product repository find by id: %w", err)
	}

	applyPatch(&product, patch)
	product.UpdatedAt = time.Now()

	if err := s.productRepo.Update(ctx, product); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return model.Product{}, apperr.ProductNotFoundErr.WrapParent(err)
		}
		return model.Product{}, fmt.Errorf("product repository update: %w", err)
	}

	s.recordActivity(ctx, model.Activity{
		Action:      model.ActionUpdate,
		ProductName: product.Name,
		Details:     fmt.Sprintf("Product updated. Stock: %d", product.Stock),
		User:        caller.DisplayName(),
	}, nil)

	return product, nil
}

func (s *inventoryService) DeleteProduct(ctx context.Context, caller model.CallerIdentity, id uuid.UUID) error {
	product, err := s.productRepo.DeleteByID(ctx, id)
	if errors.Is(err, repository.ErrProductNotFound) {
		return apperr.ProductNotFoundErr.WrapParent(err)
	}
	if err != nil {
		return fmt.Errorf("product repository delete by id: %w", err)
	}

	// The product row is already gone; the log append is attempted anyway
	// and its failure does not undo the delete.
	s.recordActivity(ctx, model.Activity{
		Action:      model.ActionDelete,
		ProductName: product.Name,
		Details:     "Removed from inventory",
		User:        caller.DisplayName(),
	}, nil)

	return nil
}

func (s *inventoryService) SellProduct(ctx context.Context, caller model.CallerIdentity, params SellProductParams) (model.Product, error) {
	if err := s.validator.Validate(params); err != nil {
		return model.Product{}, fmt.Errorf("validate sell product params: %w", err)
	}

	product, err := s.productRepo.SellProduct(ctx, params.ProductID, params.Quantity)
	if errors.Is(err, repository.ErrInsufficientStock) {
		return model.Product{}, apperr.InsufficientStockErr.WrapParent(err)
	}
	if err != nil {
		return model.Product{}, fmt.Errorf("product repository sell product: %w", err)
	}

	user := caller.DisplayName()
	if caller.IsZero() {
		user = "System"
	}

	s.recordActivity(ctx, model.Activity{
		Action:      model.ActionSale,
		ProductName: product.Name,
		Details:     fmt.Sprintf("Sold %d units", params.Quantity),
		User:        user,
		Category:    ptr.New(product.Category),
		Amount:      ptr.New(product.Price * float64(params.Quantity)),
	}, ptr.New(product.Stock))

	return product, nil
}

func (s *inventoryService) GetProduct(ctx context.Context, id uuid.UUID) (model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrProductNotFound) {
		return model.Product{}, apperr.ProductNotFoundErr.WrapParent(err)
	}
	if err != nil {
		return model.Product{}, fmt.Errorf("product repository find by id: %w", err)
	}

	return product, nil
}

func (s *inventoryService) ListProducts(ctx context.Context) ([]model.Product, error) {
	products, err := s.productRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("product repository list all: %w", err)
	}

	return products, nil
}

// recordActivity appends the audit record and its outbox event in one
// transaction. Failure is logged and swallowed: the audit trail is
// best-effort telemetry and never fails the primary operation.
func (s *inventoryService) recordActivity(ctx context.Context, activity model.Activity, remainingStock *int) {
	id, err := uuid.NewV7()
	if err != nil {
		s.logger.WarnContext(ctx, "skipping activity log, cannot generate id",
			slog.Any("error", err))
		return
	}
	activity.ID = id
	activity.CreatedAt = time.Now()

	ev := event.ActivityRecordedEvent{
		Action:         string(activity.Action),
		ProductName:    activity.ProductName,
		Details:        activity.Details,
		User:           activity.User,
		Category:       activity.Category,
		Amount:         activity.Amount,
		RemainingStock: remainingStock,
		CreatedAt:      activity.CreatedAt,
	}

	evBytes, err := json.Marshal(ev)
	if err != nil {
		s.logger.WarnContext(ctx, "skipping activity log, cannot marshal event",
			slog.Any("error", err))
		return
	}

	if err := s.db.WithTx(ctx, func(db db.DB) error {
		if err := s.activityRepo.
			WithDB(db).
			Append(ctx, activity); err != nil {
			return fmt.Errorf("activity repository append: %w", err)
		}

		if err := s.outboxRepo.
			WithDB(db).
			CreateOutboxMsg(ctx, repository.CreateOutboxMsgParams{
				Topic:        event.TopicActivityRecorded,
				Headers:      outbox.BuildHeaders(ctx),
				Payload:      evBytes,
				PartitionKey: ptr.New(activity.ProductName),
			}); err != nil {
			return fmt.Errorf("outbox msg repository create outbox msg: %w", err)
		}

		return nil
	}); err != nil {
		s.logger.WarnContext(ctx, "activity log append failed, operation unaffected",
			slog.String("action", string(activity.Action)),
			slog.String("product_name", activity.ProductName),
			slog.Any("error", err))
	}
}

func applyPatch(product *model.Product, patch UpdateProductParams) {
	if patch.Name != nil {
		product.Name = *patch.Name
	}
	if patch.Description != nil {
		product.Description = *patch.Description
	}
	if patch.Category != nil {
		product.Category = *patch.Category
	}
	if patch.Price != nil {
		product.Price = *patch.Price
	}
	if patch.Stock != nil {
		product.Stock = *patch.Stock
	}
	if patch.ImageURL != nil {
		product.ImageURL = *patch.ImageURL
	}
}
