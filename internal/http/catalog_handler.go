package http

import (
	"fmt"
	"net/http"

	"github.com/tuanvumaihuynh/storefront/internal/service"
)

type CategoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

type BrandProductResponse struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	CategoryID *int64  `json:"category_id"`
}

type BrandResponse struct {
	ID       int64                  `json:"id"`
	Name     string                 `json:"name"`
	Products []BrandProductResponse `json:"products"`
}

type catalogHandler struct {
	*Service
	catalogSvc service.CatalogService
}

func newCatalogHandler(s *Service, catalogSvc service.CatalogService) *catalogHandler {
	return &catalogHandler{
		Service:    s,
		catalogSvc: catalogSvc,
	}
}

func (h *catalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalogSvc.ListCategories(r.Context())
	if err != nil {
		h.writeError(w, r, fmt.Errorf("catalog service list categories: %w", err))
		return
	}

	items := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		items = append(items, CategoryResponse{ID: c.ID, Name: c.Name, Icon: c.Icon})
	}

	h.writeJSON(w, r, http.StatusOK, items)
}

func (h *catalogHandler) ListBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := h.catalogSvc.ListBrands(r.Context())
	if err != nil {
		h.writeError(w, r, fmt.Errorf("catalog service list brands: %w", err))
		return
	}

	items := make([]BrandResponse, 0, len(brands))
	for _, b := range brands {
		products := make([]BrandProductResponse, 0, len(b.Products))
		for _, p := range b.Products {
			products = append(products, BrandProductResponse{
				ID:         p.ID,
				Name:       p.Name,
				Price:      p.Price.InexactFloat64(),
				CategoryID: p.CategoryID,
			})
		}
		items = append(items, BrandResponse{ID: b.ID, Name: b.Name, Products: products})
	}

	h.writeJSON(w, r, http.StatusOK, items)
}
