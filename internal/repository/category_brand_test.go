package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/storefront/internal/repository"
	"github.com/tuanvumaihuynh/storefront/internal/storage/db"
	"github.com/tuanvumaihuynh/storefront/pkg/ptr"
)

func TestCategoryRepository_ListCategories(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT id, name, icon FROM categories ORDER BY id").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "icon"}).
			AddRow(int64(1), "Bebidas", "🥤").
			AddRow(int64(3), "Cafés", "☕"))

	categories, err := repository.NewCategoryRepository(db.NewClient(mock)).ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Cafés", categories[1].Name)
	assert.Equal(t, "☕", categories[1].Icon)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBrandRepository_ListBrandsWithProducts(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	cols := []string{"id", "name", "id", "name", "price", "category_id", "created_at", "updated_at"}

	mock.ExpectQuery("SELECT (.+) FROM brands AS b LEFT JOIN products AS p").
		WillReturnRows(pgxmock.NewRows(cols).
			AddRow(int64(1), "Café", ptr.New(int64(1)), ptr.New("Café São Braz Tradicional 500g"), "12.90", ptr.New(int64(3)), &now, &now).
			AddRow(int64(1), "Café", ptr.New(int64(2)), ptr.New("Café São Braz Extra Forte 500g"), "14.50", ptr.New(int64(3)), &now, &now).
			AddRow(int64(2), "PIPPOS", ptr.New(int64(6)), ptr.New("Pippos Queijo 200g"), "3.90", nil, &now, &now).
			AddRow(int64(13), "Empty brand", nil, nil, nil, nil, nil, nil))

	brands, err := repository.NewBrandRepository(db.NewClient(mock)).ListBrandsWithProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, brands, 3)

	assert.Equal(t, "Café", brands[0].Name)
	require.Len(t, brands[0].Products, 2)
	assert.Equal(t, int64(1), brands[0].Products[0].ID)
	assert.Equal(t, int64(2), brands[0].Products[1].ID)
	assert.True(t, decimal.RequireFromString("14.50").Equal(brands[0].Products[1].Price))
	assert.Equal(t, int64(1), *brands[0].Products[0].BrandID)

	require.Len(t, brands[1].Products, 1)
	assert.Nil(t, brands[1].Products[0].CategoryID)
	assert.Equal(t, int64(2), *brands[1].Products[0].BrandID)

	assert.NotNil(t, brands[2].Products)
	assert.Empty(t, brands[2].Products)
	assert.NoError(t, mock.ExpectationsWereMet())
}
