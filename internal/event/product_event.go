package event

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/storefront/internal/model"
)

const (
	TopicProductCreated = "product.created"
	TopicProductUpdated = "product.updated"
	TopicProductDeleted = "product.deleted"
)

// ProductTopics lists every topic the catalog publishes to.
var ProductTopics = []string{
	TopicProductCreated,
	TopicProductUpdated,
	TopicProductDeleted,
}

type ProductEvent struct {
	ProductID  int64            `json:"product_id"`
	Name       string           `json:"name,omitempty"`
	Price      *decimal.Decimal `json:"price,omitempty"`
	CategoryID *int64           `json:"category_id,omitempty"`
	BrandID    *int64           `json:"brand_id,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}

// NewProductEvent snapshots a stored product.
func NewProductEvent(p model.Product, occurredAt time.Time) ProductEvent {
	price := p.Price
	return ProductEvent{
		ProductID:  p.ID,
		Name:       p.Name,
		Price:      &price,
		CategoryID: p.CategoryID,
		BrandID:    p.BrandID,
		OccurredAt: occurredAt,
	}
}

// NewProductDeletedEvent carries only the id of the removed product.
func NewProductDeletedEvent(id int64, occurredAt time.Time) ProductEvent {
	return ProductEvent{
		ProductID:  id,
		OccurredAt: occurredAt,
	}
}
