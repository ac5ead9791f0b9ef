package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/storefront/internal/apperr"
	"github.com/tuanvumaihuynh/storefront/internal/model"
	"github.com/tuanvumaihuynh/storefront/internal/service"
)

type ProductResponse struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Price      float64   `json:"price"`
	CategoryID *int64    `json:"category_id"`
	BrandID    *int64    `json:"brand_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type CreateProductRequest struct {
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	CategoryID *int64  `json:"category_id"`
	BrandID    *int64  `json:"brand_id"`
}

type UpdateProductRequest struct {
	Name  *string  `json:"name"`
	Price *float64 `json:"price"`
}

type DeleteProductResponse struct {
	Deleted int64 `json:"deleted"`
}

type productHandler struct {
	*Service
	productSvc service.ProductService
}

func newProductHandler(s *Service, productSvc service.ProductService) *productHandler {
	return &productHandler{
		Service:    s,
		productSvc: productSvc,
	}
}

func (h *productHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filters := make(map[string]string, len(query))
	for key := range query {
		filters[key] = query.Get(key)
	}

	products, err := h.productSvc.ListProducts(r.Context(), filters)
	if err != nil {
		h.writeError(w, r, fmt.Errorf("product service list products: %w", err))
		return
	}

	items := make([]ProductResponse, 0, len(products))
	for _, product := range products {
		items = append(items, toProductResponse(product))
	}

	h.writeJSON(w, r, http.StatusOK, items)
}

func (h *productHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	params := service.CreateProductParams{
		Name:       req.Name,
		Price:      decimal.NewFromFloat(req.Price),
		CategoryID: req.CategoryID,
		BrandID:    req.BrandID,
	}
	product, err := h.productSvc.CreateProduct(r.Context(), params)
	if err != nil {
		h.writeError(w, r, fmt.Errorf("product service create product: %w", err))
		return
	}

	h.writeJSON(w, r, http.StatusCreated, toProductResponse(product))
}

func (h *productHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := productIDParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req UpdateProductRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	params := service.UpdateProductParams{Name: req.Name}
	if req.Price != nil {
		price := decimal.NewFromFloat(*req.Price)
		params.Price = &price
	}
	product, err := h.productSvc.UpdateProduct(r.Context(), id, params)
	if err != nil {
		h.writeError(w, r, fmt.Errorf("product service update product: %w", err))
		return
	}

	h.writeJSON(w, r, http.StatusOK, toProductResponse(product))
}

func (h *productHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := productIDParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	deleted, err := h.productSvc.DeleteProduct(r.Context(), id)
	if err != nil {
		h.writeError(w, r, fmt.Errorf("product service delete product (%d rows): %w", deleted, err))
		return
	}

	h.writeJSON(w, r, http.StatusOK, DeleteProductResponse{Deleted: deleted})
}

func productIDParam(r *http.Request) (int64, error) {
	var id int64
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		return 0, apperr.ValidationErr.WithMsg(fmt.Sprintf("invalid format for parameter id: %v", err)).WrapParent(err)
	}
	if id < 1 {
		return 0, apperr.ValidationErr.WithMsg("parameter id must be a positive integer")
	}
	return id, nil
}

func toProductResponse(p model.Product) ProductResponse {
	return ProductResponse{
		ID:         p.ID,
		Name:       p.Name,
		Price:      p.Price.InexactFloat64(),
		CategoryID: p.CategoryID,
		BrandID:    p.BrandID,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}
