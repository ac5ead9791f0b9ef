package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/storefront/internal/apperr"
	"github.com/tuanvumaihuynh/storefront/internal/event"
	"github.com/tuanvumaihuynh/storefront/internal/model"
	"github.com/tuanvumaihuynh/storefront/internal/repository"
	"github.com/tuanvumaihuynh/storefront/internal/storage/db"
	"github.com/tuanvumaihuynh/storefront/pkg/outbox"
	"github.com/tuanvumaihuynh/storefront/pkg/validator"
)

type CreateProductParams struct {
	Name       string          `json:"name" validate:"notblank,max=255"`
	Price      decimal.Decimal `json:"price" validate:"gte=0"`
	CategoryID *int64          `json:"category_id" validate:"omitempty,gt=0"`
	BrandID    *int64          `json:"brand_id" validate:"omitempty,gt=0"`
}

type UpdateProductParams struct {
	Name  *string          `json:"name" validate:"omitempty,notblank,max=255"`
	Price *decimal.Decimal `json:"price" validate:"omitempty,gte=0"`
}

type ProductService interface {
	// ListProducts returns the products matching every equality filter.
	ListProducts(ctx context.Context, filters map[string]string) ([]model.Product, error)
	CreateProduct(ctx context.Context, params CreateProductParams) (model.Product, error)
	UpdateProduct(ctx context.Context, id int64, params UpdateProductParams) (model.Product, error)
	// DeleteProduct reports the number of removed rows. Zero rows is a
	// not found error, returned together with the count.
	DeleteProduct(ctx context.Context, id int64) (int64, error)
}

type productService struct {
	logger        *slog.Logger
	db            db.DB
	validator     validator.Validator
	strictFilters bool
	productRepo   repository.ProductRepository
	outboxMsgRepo repository.OutboxMsgRepository
	now           func() time.Time
}

func NewProductService(
	logger *slog.Logger,
	db db.DB,
	v validator.Validator,
	strictFilters bool,
	productRepo repository.ProductRepository,
	outboxMsgRepo repository.OutboxMsgRepository,
) ProductService {
	return &productService{
		logger:        logger.With(slog.String("service", "product")),
		db:            db,
		validator:     v,
		strictFilters: strictFilters,
		productRepo:   productRepo,
		outboxMsgRepo: outboxMsgRepo,
		now:           time.Now,
	}
}

func (s *productService) ListProducts(ctx context.Context, filters map[string]string) ([]model.Product, error) {
	filter, ignored, err := ParseProductFilter(filters, s.strictFilters)
	if err != nil {
		return nil, err
	}
	if len(ignored) > 0 {
		s.logger.WarnContext(ctx, "ignoring unknown product filters", slog.Any("fields", ignored))
	}

	products, err := s.productRepo.ListProducts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("product repository list products: %w", err)
	}

	return products, nil
}

func (s *productService) CreateProduct(ctx context.Context, params CreateProductParams) (model.Product, error) {
	if err := s.validator.Validate(params); err != nil {
		return model.Product{}, err
	}

	now := s.now()
	product := model.Product{
		Name:       strings.TrimSpace(params.Name),
		Price:      params.Price.Round(2),
		CategoryID: params.CategoryID,
		BrandID:    params.BrandID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	var created model.Product
	if err := s.db.WithTx(ctx, func(db db.DB) error {
		var err error
		created, err = s.productRepo.
			WithDB(db).
			CreateProduct(ctx, product)
		if err != nil {
			return fmt.Errorf("product repository create product: %w", err)
		}

		return s.writeEvent(ctx, db, event.TopicProductCreated, created.ID, event.NewProductEvent(created, now))
	}); err != nil {
		return model.Product{}, fmt.Errorf("db with tx: %w", err)
	}

	return created, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id int64, params UpdateProductParams) (model.Product, error) {
	if params.Name == nil && params.Price == nil {
		return model.Product{}, apperr.ValidationErr.WithMsg("at least one of name or price must be supplied")
	}
	if err := s.validator.Validate(params); err != nil {
		return model.Product{}, err
	}

	patch := model.ProductPatch{}
	if params.Name != nil {
		name := strings.TrimSpace(*params.Name)
		patch.Name = &name
	}
	if params.Price != nil {
		price := params.Price.Round(2)
		patch.Price = &price
	}

	now := s.now()
	var updated model.Product
	if err := s.db.WithTx(ctx, func(db db.DB) error {
		var err error
		updated, err = s.productRepo.
			WithDB(db).
			UpdateProduct(ctx, id, patch, now)
		if err != nil {
			return fmt.Errorf("product repository update product: %w", err)
		}

		return s.writeEvent(ctx, db, event.TopicProductUpdated, updated.ID, event.NewProductEvent(updated, now))
	}); err != nil {
		return model.Product{}, fmt.Errorf("db with tx: %w", err)
	}

	return updated, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id int64) (int64, error) {
	var deleted int64
	if err := s.db.WithTx(ctx, func(db db.DB) error {
		var err error
		deleted, err = s.productRepo.
			WithDB(db).
			DeleteProduct(ctx, id)
		if err != nil {
			return fmt.Errorf("product repository delete product: %w", err)
		}
		if deleted == 0 {
			return apperr.ProductNotFoundErr
		}

		return s.writeEvent(ctx, db, event.TopicProductDeleted, id, event.NewProductDeletedEvent(id, s.now()))
	}); err != nil {
		return deleted, fmt.Errorf("db with tx: %w", err)
	}

	return deleted, nil
}

func (s *productService) writeEvent(ctx context.Context, db db.DB, topic string, productID int64, ev event.ProductEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	key := strconv.FormatInt(productID, 10)
	if err := s.outboxMsgRepo.
		WithDB(db).
		CreateOutboxMsg(ctx, repository.CreateOutboxMsgParams{
			Topic:        topic,
			Headers:      outbox.BuildHeaders(ctx),
			Payload:      payload,
			PartitionKey: &key,
		}); err != nil {
		return fmt.Errorf("outbox msg repository create outbox msg: %w", err)
	}

	return nil
}

// ParseProductFilter converts raw equality filters into typed predicates.
// Unknown fields fail in strict mode and are returned as ignored otherwise.
func ParseProductFilter(filters map[string]string, strict bool) (model.ProductFilter, []string, error) {
	var (
		filter  model.ProductFilter
		ignored []string
	)

	for _, field := range slices.Sorted(maps.Keys(filters)) {
		value := filters[field]

		switch field {
		case "id", "category_id", "brand_id":
			n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
			if err != nil {
				return model.ProductFilter{}, nil, apperr.InvalidFilterErr.
					WithMsg(fmt.Sprintf("filter %q must be an integer", field)).
					WrapParent(err)
			}
			switch field {
			case "id":
				filter.ID = &n
			case "category_id":
				filter.CategoryID = &n
			default:
				filter.BrandID = &n
			}
		case "name":
			name := value
			filter.Name = &name
		case "price":
			price, err := decimal.NewFromString(strings.TrimSpace(value))
			if err != nil {
				return model.ProductFilter{}, nil, apperr.InvalidFilterErr.
					WithMsg(fmt.Sprintf("filter %q must be a decimal number", field)).
					WrapParent(err)
			}
			filter.Price = &price
		default:
			if strict {
				return model.ProductFilter{}, nil, apperr.InvalidFilterErr.
					WithMsg(fmt.Sprintf("unknown filter field %q", field))
			}
			ignored = append(ignored, field)
		}
	}

	return filter, ignored, nil
}
