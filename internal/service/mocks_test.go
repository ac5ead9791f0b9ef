package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/tuanvumaihuynh/storefront/internal/model"
	"github.com/tuanvumaihuynh/storefront/internal/repository"
	"github.com/tuanvumaihuynh/storefront/internal/storage/db"
)

type mockProductRepo struct {
	mock.Mock
}

func (m *mockProductRepo) WithDB(db.DB) repository.ProductRepository { return m }

func (m *mockProductRepo) ListProducts(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	args := m.Called(ctx, filter)
	products, _ := args.Get(0).([]model.Product)
	return products, args.Error(1)
}

func (m *mockProductRepo) CreateProduct(ctx context.Context, product model.Product) (model.Product, error) {
	args := m.Called(ctx, product)
	return args.Get(0).(model.Product), args.Error(1)
}

func (m *mockProductRepo) UpdateProduct(ctx context.Context, id int64, patch model.ProductPatch, updatedAt time.Time) (model.Product, error) {
	args := m.Called(ctx, id, patch, updatedAt)
	return args.Get(0).(model.Product), args.Error(1)
}

func (m *mockProductRepo) DeleteProduct(ctx context.Context, id int64) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

type mockOutboxRepo struct {
	mock.Mock
}

func (m *mockOutboxRepo) WithDB(db.DB) repository.OutboxMsgRepository { return m }

func (m *mockOutboxRepo) CreateOutboxMsg(ctx context.Context, params repository.CreateOutboxMsgParams) error {
	return m.Called(ctx, params).Error(0)
}

func (m *mockOutboxRepo) ListUnprocessedOutboxMsgs(
	ctx context.Context,
	params repository.ListUnprocessedOutboxMsgsParams,
) ([]repository.ListUnprocessedOutboxMsgsResult, error) {
	args := m.Called(ctx, params)
	msgs, _ := args.Get(0).([]repository.ListUnprocessedOutboxMsgsResult)
	return msgs, args.Error(1)
}

func (m *mockOutboxRepo) BulkUpdateOutboxMsgs(ctx context.Context, params repository.BulkUpdateOutboxMsgsParams) error {
	return m.Called(ctx, params).Error(0)
}

type mockCategoryRepo struct {
	mock.Mock
}

func (m *mockCategoryRepo) ListCategories(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	categories, _ := args.Get(0).([]model.Category)
	return categories, args.Error(1)
}

type mockBrandRepo struct {
	mock.Mock
}

func (m *mockBrandRepo) ListBrandsWithProducts(ctx context.Context) ([]model.Brand, error) {
	args := m.Called(ctx)
	brands, _ := args.Get(0).([]model.Brand)
	return brands, args.Error(1)
}

type mockAccountRepo struct {
	mock.Mock
}

func (m *mockAccountRepo) CreateAccount(ctx context.Context, account model.Account) (model.Account, error) {
	args := m.Called(ctx, account)
	return args.Get(0).(model.Account), args.Error(1)
}

func (m *mockAccountRepo) GetAccountByEmail(ctx context.Context, email string) (model.Account, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.Account), args.Error(1)
}

func (m *mockAccountRepo) ListAccounts(ctx context.Context, params repository.ListAccountsParams) ([]model.Account, int64, error) {
	args := m.Called(ctx, params)
	accounts, _ := args.Get(0).([]model.Account)
	return accounts, args.Get(1).(int64), args.Error(2)
}
