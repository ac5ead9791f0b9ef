package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID         int64
	Name       string
	Price      decimal.Decimal
	CategoryID *int64
	BrandID    *int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ProductFilter holds parsed equality predicates. Nil fields are not constrained.
type ProductFilter struct {
	ID         *int64
	Name       *string
	Price      *decimal.Decimal
	CategoryID *int64
	BrandID    *int64
}

// ProductPatch holds the fields of a partial update. Nil fields are left unchanged.
type ProductPatch struct {
	Name  *string
	Price *decimal.Decimal
}

func (p ProductPatch) IsEmpty() bool {
	return p.Name == nil && p.Price == nil
}
