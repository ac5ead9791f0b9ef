package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/storefront/internal/apperr"
	"github.com/tuanvumaihuynh/storefront/internal/event"
	"github.com/tuanvumaihuynh/storefront/internal/model"
	"github.com/tuanvumaihuynh/storefront/internal/repository"
	"github.com/tuanvumaihuynh/storefront/internal/storage/db"
	"github.com/tuanvumaihuynh/storefront/pkg/ptr"
	"github.com/tuanvumaihuynh/storefront/pkg/validator"
)

var fixedNow = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

type productFixture struct {
	svc         *productService
	pool        pgxmock.PgxPoolIface
	productRepo *mockProductRepo
	outboxRepo  *mockOutboxRepo
}

func newProductFixture(t *testing.T, strict bool) productFixture {
	t.Helper()
	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	v, err := validator.NewDefaultValidator()
	require.NoError(t, err)

	productRepo := &mockProductRepo{}
	outboxRepo := &mockOutboxRepo{}
	svc := NewProductService(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		db.NewClient(pool),
		v,
		strict,
		productRepo,
		outboxRepo,
	).(*productService)
	svc.now = func() time.Time { return fixedNow }

	return productFixture{svc: svc, pool: pool, productRepo: productRepo, outboxRepo: outboxRepo}
}

func TestParseProductFilter(t *testing.T) {
	tests := []struct {
		name        string
		filters     map[string]string
		strict      bool
		want        model.ProductFilter
		wantIgnored []string
		wantErr     bool
	}{
		{
			name:    "empty filters",
			filters: map[string]string{},
			strict:  true,
			want:    model.ProductFilter{},
		},
		{
			name:    "typed fields",
			filters: map[string]string{"id": "4", "name": "Pippos Bacon 200g", "category_id": "2", "brand_id": " 2 "},
			strict:  true,
			want: model.ProductFilter{
				ID:         ptr.New(int64(4)),
				Name:       ptr.New("Pippos Bacon 200g"),
				CategoryID: ptr.New(int64(2)),
				BrandID:    ptr.New(int64(2)),
			},
		},
		{
			name:    "non numeric id",
			filters: map[string]string{"id": "abc"},
			strict:  true,
			wantErr: true,
		},
		{
			name:    "non numeric price",
			filters: map[string]string{"price": "cheap"},
			strict:  false,
			wantErr: true,
		},
		{
			name:    "unknown field in strict mode",
			filters: map[string]string{"color": "red"},
			strict:  true,
			wantErr: true,
		},
		{
			name:        "unknown fields in lenient mode",
			filters:     map[string]string{"color": "red", "size": "xl", "category_id": "3"},
			strict:      false,
			want:        model.ProductFilter{CategoryID: ptr.New(int64(3))},
			wantIgnored: []string{"color", "size"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ignored, err := ParseProductFilter(tt.filters, tt.strict)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, apperr.InvalidFilterErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantIgnored, ignored)
		})
	}

	t.Run("price", func(t *testing.T) {
		got, _, err := ParseProductFilter(map[string]string{"price": "12.9"}, true)
		require.NoError(t, err)
		require.NotNil(t, got.Price)
		assert.True(t, decimal.RequireFromString("12.90").Equal(*got.Price))
	})
}

func TestProductService_ListProducts(t *testing.T) {
	t.Run("Should translate filters and return matching products", func(t *testing.T) {
		f := newProductFixture(t, true)
		want := []model.Product{{ID: 6, Name: "Pippos Queijo 200g", CategoryID: ptr.New(int64(2))}}

		f.productRepo.On("ListProducts", mock.Anything, model.ProductFilter{CategoryID: ptr.New(int64(2))}).
			Return(want, nil)

		got, err := f.svc.ListProducts(context.Background(), map[string]string{"category_id": "2"})
		require.NoError(t, err)
		assert.Equal(t, want, got)
		f.productRepo.AssertExpectations(t)
	})

	t.Run("Should reject invalid filters before querying", func(t *testing.T) {
		f := newProductFixture(t, true)

		_, err := f.svc.ListProducts(context.Background(), map[string]string{"foo": "bar"})
		require.ErrorIs(t, err, apperr.InvalidFilterErr)
		f.productRepo.AssertNotCalled(t, "ListProducts", mock.Anything, mock.Anything)
	})

	t.Run("Should drop unknown filters in lenient mode", func(t *testing.T) {
		f := newProductFixture(t, false)

		f.productRepo.On("ListProducts", mock.Anything, model.ProductFilter{}).
			Return([]model.Product{}, nil)

		got, err := f.svc.ListProducts(context.Background(), map[string]string{"foo": "bar"})
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestProductService_CreateProduct(t *testing.T) {
	t.Run("Should store the product and an outbox message", func(t *testing.T) {
		f := newProductFixture(t, true)
		price := decimal.RequireFromString("19.90")

		f.pool.ExpectBegin()
		f.pool.ExpectCommit()

		f.productRepo.On("CreateProduct", mock.Anything, model.Product{
			Name:      "Granola 1kg",
			Price:     price.Round(2),
			CreatedAt: fixedNow,
			UpdatedAt: fixedNow,
		}).Return(model.Product{ID: 52, Name: "Granola 1kg", Price: price, CreatedAt: fixedNow, UpdatedAt: fixedNow}, nil)

		f.outboxRepo.On("CreateOutboxMsg", mock.Anything, mock.MatchedBy(func(p repository.CreateOutboxMsgParams) bool {
			var ev event.ProductEvent
			if err := json.Unmarshal(p.Payload, &ev); err != nil {
				return false
			}
			return p.Topic == event.TopicProductCreated &&
				*p.PartitionKey == "52" &&
				ev.ProductID == 52 &&
				ev.Price != nil && ev.Price.Equal(price)
		})).Return(nil)

		got, err := f.svc.CreateProduct(context.Background(), CreateProductParams{
			Name:  "  Granola 1kg ",
			Price: price,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(52), got.ID)
		f.productRepo.AssertExpectations(t)
		f.outboxRepo.AssertExpectations(t)
		assert.NoError(t, f.pool.ExpectationsWereMet())
	})

	t.Run("Should reject blank names and negative prices", func(t *testing.T) {
		f := newProductFixture(t, true)

		_, err := f.svc.CreateProduct(context.Background(), CreateProductParams{Name: "   ", Price: decimal.NewFromInt(1)})
		require.Error(t, err)
		assert.True(t, validator.IsValidationError(err))

		_, err = f.svc.CreateProduct(context.Background(), CreateProductParams{Name: "ok", Price: decimal.RequireFromString("-0.01")})
		require.Error(t, err)
		assert.True(t, validator.IsValidationError(err))

		f.productRepo.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything)
	})

	t.Run("Should roll back when the outbox write fails", func(t *testing.T) {
		f := newProductFixture(t, true)

		f.pool.ExpectBegin()
		f.pool.ExpectRollback()

		f.productRepo.On("CreateProduct", mock.Anything, mock.Anything).
			Return(model.Product{ID: 53, Name: "Tea"}, nil)
		f.outboxRepo.On("CreateOutboxMsg", mock.Anything, mock.Anything).
			Return(errors.New("disk full"))

		_, err := f.svc.CreateProduct(context.Background(), CreateProductParams{Name: "Tea", Price: decimal.Zero})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
		assert.NoError(t, f.pool.ExpectationsWereMet())
	})
}

func TestProductService_UpdateProduct(t *testing.T) {
	t.Run("Should reject an empty patch", func(t *testing.T) {
		f := newProductFixture(t, true)

		_, err := f.svc.UpdateProduct(context.Background(), 1, UpdateProductParams{})
		require.ErrorIs(t, err, apperr.ValidationErr)
	})

	t.Run("Should reject a negative price", func(t *testing.T) {
		f := newProductFixture(t, true)

		_, err := f.svc.UpdateProduct(context.Background(), 1, UpdateProductParams{
			Price: ptr.New(decimal.NewFromInt(-1)),
		})
		require.Error(t, err)
		assert.True(t, validator.IsValidationError(err))
	})

	t.Run("Should apply the patch and record an event", func(t *testing.T) {
		f := newProductFixture(t, true)
		price := decimal.RequireFromString("4.99")

		f.pool.ExpectBegin()
		f.pool.ExpectCommit()

		f.productRepo.On("UpdateProduct", mock.Anything, int64(8), model.ProductPatch{Price: ptr.New(price.Round(2))}, fixedNow).
			Return(model.Product{ID: 8, Name: "Pippos Bacon 200g", Price: price}, nil)
		f.outboxRepo.On("CreateOutboxMsg", mock.Anything, mock.MatchedBy(func(p repository.CreateOutboxMsgParams) bool {
			return p.Topic == event.TopicProductUpdated
		})).Return(nil)

		got, err := f.svc.UpdateProduct(context.Background(), 8, UpdateProductParams{Price: &price})
		require.NoError(t, err)
		assert.Equal(t, "Pippos Bacon 200g", got.Name)
		assert.NoError(t, f.pool.ExpectationsWereMet())
	})

	t.Run("Should surface not found", func(t *testing.T) {
		f := newProductFixture(t, true)

		f.pool.ExpectBegin()
		f.pool.ExpectRollback()

		f.productRepo.On("UpdateProduct", mock.Anything, int64(404), mock.Anything, fixedNow).
			Return(model.Product{}, apperr.ProductNotFoundErr)

		_, err := f.svc.UpdateProduct(context.Background(), 404, UpdateProductParams{Name: ptr.New("x")})
		require.ErrorIs(t, err, apperr.ProductNotFoundErr)
		f.outboxRepo.AssertNotCalled(t, "CreateOutboxMsg", mock.Anything, mock.Anything)
	})
}

func TestProductService_DeleteProduct(t *testing.T) {
	t.Run("Should delete and record an event", func(t *testing.T) {
		f := newProductFixture(t, true)

		f.pool.ExpectBegin()
		f.pool.ExpectCommit()

		f.productRepo.On("DeleteProduct", mock.Anything, int64(7)).Return(int64(1), nil)
		f.outboxRepo.On("CreateOutboxMsg", mock.Anything, mock.MatchedBy(func(p repository.CreateOutboxMsgParams) bool {
			return p.Topic == event.TopicProductDeleted && *p.PartitionKey == "7"
		})).Return(nil)

		n, err := f.svc.DeleteProduct(context.Background(), 7)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
		assert.NoError(t, f.pool.ExpectationsWereMet())
	})

	t.Run("Should report zero rows as not found", func(t *testing.T) {
		f := newProductFixture(t, true)

		f.pool.ExpectBegin()
		f.pool.ExpectRollback()

		f.productRepo.On("DeleteProduct", mock.Anything, int64(999)).Return(int64(0), nil)

		n, err := f.svc.DeleteProduct(context.Background(), 999)
		require.ErrorIs(t, err, apperr.ProductNotFoundErr)
		assert.Equal(t, int64(0), n)
		f.outboxRepo.AssertNotCalled(t, "CreateOutboxMsg", mock.Anything, mock.Anything)
		assert.NoError(t, f.pool.ExpectationsWereMet())
	})
}
