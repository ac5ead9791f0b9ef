package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tuanvumaihuynh/storefront/internal/apperr"
	"github.com/tuanvumaihuynh/storefront/internal/model"
	"github.com/tuanvumaihuynh/storefront/internal/storage/db"
)

const productColumns = "id, name, price, category_id, brand_id, created_at, updated_at"

type ProductRepository interface {
	WithDB(db db.DB) ProductRepository
	ListProducts(ctx context.Context, filter model.ProductFilter) ([]model.Product, error)
	CreateProduct(ctx context.Context, product model.Product) (model.Product, error)
	UpdateProduct(ctx context.Context, id int64, patch model.ProductPatch, updatedAt time.Time) (model.Product, error)
	DeleteProduct(ctx context.Context, id int64) (int64, error)
}

type productRepository struct {
	db db.DB
}

func NewProductRepository(db db.DB) ProductRepository {
	return &productRepository{
		db: db,
	}
}

func (r productRepository) WithDB(db db.DB) ProductRepository {
	return &productRepository{
		db: db,
	}
}

func (r productRepository) ListProducts(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	var (
		conditions []string
		args       = pgx.NamedArgs{}
	)

	if filter.ID != nil {
		conditions = append(conditions, "id = @id")
		args["id"] = *filter.ID
	}
	if filter.Name != nil {
		conditions = append(conditions, "name = @name")
		args["name"] = *filter.Name
	}
	if filter.Price != nil {
		conditions = append(conditions, "price = @price")
		args["price"] = *filter.Price
	}
	if filter.CategoryID != nil {
		conditions = append(conditions, "category_id = @category_id")
		args["category_id"] = *filter.CategoryID
	}
	if filter.BrandID != nil {
		conditions = append(conditions, "brand_id = @brand_id")
		args["brand_id"] = *filter.BrandID
	}

	query := "SELECT " + productColumns + " FROM products"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY id"

	rows, err := r.db.Query(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := make([]model.Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}

	return products, nil
}

func (r productRepository) CreateProduct(ctx context.Context, product model.Product) (model.Product, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO products (name, price, category_id, brand_id, created_at, updated_at)
		VALUES (@name, @price, @category_id, @brand_id, @created_at, @updated_at)
		RETURNING `+productColumns, pgx.NamedArgs{
		"name":        product.Name,
		"price":       product.Price,
		"category_id": product.CategoryID,
		"brand_id":    product.BrandID,
		"created_at":  product.CreatedAt,
		"updated_at":  product.UpdatedAt,
	})

	created, err := scanProduct(row)
	if err != nil {
		return model.Product{}, fmt.Errorf("insert product: %w", err)
	}

	return created, nil
}

func (r productRepository) UpdateProduct(
	ctx context.Context,
	id int64,
	patch model.ProductPatch,
	updatedAt time.Time,
) (model.Product, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE products
		SET
			name       = COALESCE(@name, name),
			price      = COALESCE(@price, price),
			updated_at = @updated_at
		WHERE id = @id
		RETURNING `+productColumns, pgx.NamedArgs{
		"id":         id,
		"name":       patch.Name,
		"price":      patch.Price,
		"updated_at": updatedAt,
	})

	updated, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Product{}, apperr.ProductNotFoundErr.WrapParent(err)
		}
		return model.Product{}, fmt.Errorf("update product: %w", err)
	}

	return updated, nil
}

func (r productRepository) DeleteProduct(ctx context.Context, id int64) (int64, error) {
	tag, err := r.db.Exec(ctx, "DELETE FROM products WHERE id = @id", pgx.NamedArgs{
		"id": id,
	})
	if err != nil {
		return 0, fmt.Errorf("delete product: %w", err)
	}

	return tag.RowsAffected(), nil
}

func scanProduct(row pgx.Row) (model.Product, error) {
	var p model.Product
	if err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Price,
		&p.CategoryID,
		&p.BrandID,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return model.Product{}, fmt.Errorf("scan product: %w", err)
	}
	return p, nil
}
