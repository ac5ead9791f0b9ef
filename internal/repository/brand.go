package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/storefront/internal/model"
	"github.com/tuanvumaihuynh/storefront/internal/storage/db"
)

type BrandRepository interface {
	// ListBrandsWithProducts returns every brand in id order, each carrying
	// its products in id order. Brands without products have an empty slice.
	ListBrandsWithProducts(ctx context.Context) ([]model.Brand, error)
}

type brandRepository struct {
	db db.DB
}

func NewBrandRepository(db db.DB) BrandRepository {
	return &brandRepository{
		db: db,
	}
}

func (r brandRepository) ListBrandsWithProducts(ctx context.Context) ([]model.Brand, error) {
	rows, err := r.db.Query(ctx, `
		SELECT
			b.id,
			b.name,
			p.id,
			p.name,
			p.price,
			p.category_id,
			p.created_at,
			p.updated_at
		FROM brands AS b
		LEFT JOIN products AS p ON p.brand_id = b.id
		ORDER BY b.id, p.id
	`)
	if err != nil {
		return nil, fmt.Errorf("query brands: %w", err)
	}
	defer rows.Close()

	brands := make([]model.Brand, 0)
	for rows.Next() {
		var (
			brandID      int64
			brandName    string
			productID    *int64
			productName  *string
			productPrice decimal.NullDecimal
			categoryID   *int64
			createdAt    *time.Time
			updatedAt    *time.Time
		)
		if err := rows.Scan(
			&brandID,
			&brandName,
			&productID,
			&productName,
			&productPrice,
			&categoryID,
			&createdAt,
			&updatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan brand row: %w", err)
		}

		if len(brands) == 0 || brands[len(brands)-1].ID != brandID {
			brands = append(brands, model.Brand{
				ID:       brandID,
				Name:     brandName,
				Products: []model.Product{},
			})
		}

		if productID == nil {
			continue
		}

		current := &brands[len(brands)-1]
		product := model.Product{
			ID:         *productID,
			Price:      productPrice.Decimal,
			CategoryID: categoryID,
			BrandID:    &brandID,
		}
		if productName != nil {
			product.Name = *productName
		}
		if createdAt != nil {
			product.CreatedAt = *createdAt
		}
		if updatedAt != nil {
			product.UpdatedAt = *updatedAt
		}
		current.Products = append(current.Products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate brands: %w", err)
	}

	return brands, nil
}
