package client

import "github.com/shopspring/decimal"

// Product is a catalog entry as the client displays it. Price is always set;
// CategoryID is kept as text so numeric and string ids compare equal.
type Product struct {
	ID           int64
	Name         string
	Price        decimal.Decimal
	CategoryID   string
	BrandID      *int64
	BrandName    string
	CategoryName string
}

// Label is the grouping shown next to the product name: the brand when
// known, else the category.
func (p Product) Label() string {
	if p.BrandName != "" {
		return p.BrandName
	}
	return p.CategoryName
}

type Brand struct {
	ID       int64
	Name     string
	Products []Product
}

type Category struct {
	ID   int64
	Name string
	Icon string
}
