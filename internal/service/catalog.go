package service

import (
	"context"
	"fmt"

	"github.com/tuanvumaihuynh/storefront/internal/model"
	"github.com/tuanvumaihuynh/storefront/internal/repository"
)

// CatalogService serves the read-only category and brand listings.
type CatalogService interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
	ListBrands(ctx context.Context) ([]model.Brand, error)
}

type catalogService struct {
	categoryRepo repository.CategoryRepository
	brandRepo    repository.BrandRepository
}

func NewCatalogService(
	categoryRepo repository.CategoryRepository,
	brandRepo repository.BrandRepository,
) CatalogService {
	return &catalogService{
		categoryRepo: categoryRepo,
		brandRepo:    brandRepo,
	}
}

func (s *catalogService) ListCategories(ctx context.Context) ([]model.Category, error) {
	categories, err := s.categoryRepo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("category repository list categories: %w", err)
	}
	return categories, nil
}

func (s *catalogService) ListBrands(ctx context.Context) ([]model.Brand, error) {
	brands, err := s.brandRepo.ListBrandsWithProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("brand repository list brands with products: %w", err)
	}
	return brands, nil
}
