package client

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"

	"github.com/tuanvumaihuynh/storefront/internal/apperr"
)

// Shape is the layout of a product listing payload.
type Shape int

const (
	ShapeEmpty Shape = iota
	// ShapeNested is a list of brands, each owning a products array.
	ShapeNested
	// ShapeFlat is a list of products.
	ShapeFlat
)

func (s Shape) String() string {
	switch s {
	case ShapeNested:
		return "nested"
	case ShapeFlat:
		return "flat"
	default:
		return "empty"
	}
}

// Skipped records an entry dropped during normalization.
type Skipped struct {
	// Index is the position of the entry in the payload. For products
	// nested under a brand, Brand is the brand index and Index the product
	// index inside it.
	Brand int
	Index int
	Err   error
}

type Result struct {
	Shape    Shape
	Products []Product
	Skipped  []Skipped
}

// DetectShape inspects the first element of a listing array. A products
// field there marks the payload as brand groupings.
func DetectShape(raw gjson.Result) (Shape, error) {
	if !raw.IsArray() {
		return ShapeEmpty, apperr.MalformedResponseErr.WithMsg("product listing is not an array")
	}

	var shape Shape
	raw.ForEach(func(_, first gjson.Result) bool {
		shape = ShapeFlat
		if first.Get("products").Exists() {
			shape = ShapeNested
		}
		return false
	})
	return shape, nil
}

// Normalize flattens a listing payload into products in payload order.
// Malformed entries are skipped and reported; only a payload that is not an
// array fails as a whole.
func Normalize(raw []byte) (Result, error) {
	if !gjson.ValidBytes(raw) {
		return Result{}, apperr.MalformedResponseErr.WithMsg("product listing is not valid JSON")
	}
	return normalize(gjson.ParseBytes(raw))
}

func normalize(raw gjson.Result) (Result, error) {
	shape, err := DetectShape(raw)
	if err != nil {
		return Result{}, err
	}

	res := Result{Shape: shape, Products: []Product{}}
	switch shape {
	case ShapeNested:
		for i, brand := range raw.Array() {
			products, skipped := normalizeBrand(i, brand)
			res.Products = append(res.Products, products...)
			res.Skipped = append(res.Skipped, skipped...)
		}
	case ShapeFlat:
		for i, entry := range raw.Array() {
			p, err := parseProduct(entry)
			if err != nil {
				res.Skipped = append(res.Skipped, Skipped{Brand: -1, Index: i, Err: err})
				continue
			}
			res.Products = append(res.Products, p)
		}
	}

	return res, nil
}

// normalizeBrand emits the products of one brand grouping tagged with the
// brand. A brand without a products array is skipped as a whole.
func normalizeBrand(i int, brand gjson.Result) ([]Product, []Skipped) {
	items := brand.Get("products")
	if !brand.IsObject() || !items.IsArray() {
		err := apperr.MalformedResponseErr.WithMsg(fmt.Sprintf("brand %d has no products array", i))
		return nil, []Skipped{{Brand: i, Index: -1, Err: err}}
	}

	name := brand.Get("name").String()
	var brandID *int64
	if id, ok := parseID(brand.Get("id")); ok {
		brandID = &id
	}

	var (
		products []Product
		skipped  []Skipped
	)
	for j, entry := range items.Array() {
		p, err := parseProduct(entry)
		if err != nil {
			skipped = append(skipped, Skipped{Brand: i, Index: j, Err: err})
			continue
		}
		p.BrandName = name
		if brandID != nil {
			p.BrandID = brandID
		}
		products = append(products, p)
	}
	return products, skipped
}

func parseProduct(v gjson.Result) (Product, error) {
	if !v.IsObject() {
		return Product{}, apperr.ValidationErr.WithMsg("product entry is not an object")
	}

	id, ok := parseID(v.Get("id"))
	if !ok {
		return Product{}, apperr.ValidationErr.WithMsg("product id is missing or not an integer")
	}

	name := v.Get("name")
	if name.Type != gjson.String {
		return Product{}, apperr.ValidationErr.WithMsg(fmt.Sprintf("product %d has no name", id))
	}

	price, err := parsePrice(v.Get("price"))
	if err != nil {
		return Product{}, apperr.ValidationErr.WithMsg(fmt.Sprintf("product %d: %v", id, err))
	}

	p := Product{
		ID:           id,
		Name:         name.Str,
		Price:        price,
		CategoryID:   idText(field(v, "category_id", "categoryId")),
		BrandName:    field(v, "brand_name", "brandName").String(),
		CategoryName: field(v, "category_name", "categoryName").String(),
	}
	if brandID, ok := parseID(field(v, "brand_id", "brandId")); ok {
		p.BrandID = &brandID
	}
	return p, nil
}

// field returns the first of keys present in v. Servers emit either snake
// or camel case.
func field(v gjson.Result, keys ...string) gjson.Result {
	for _, k := range keys {
		if r := v.Get(k); r.Exists() {
			return r
		}
	}
	return gjson.Result{}
}

// parsePrice defaults a missing or null price to zero and rejects negative
// or non numeric values.
func parsePrice(v gjson.Result) (decimal.Decimal, error) {
	var (
		price decimal.Decimal
		err   error
	)
	switch v.Type {
	case gjson.Null:
		return decimal.Zero, nil
	case gjson.Number:
		price, err = decimal.NewFromString(v.Raw)
	case gjson.String:
		price, err = decimal.NewFromString(strings.TrimSpace(v.Str))
	default:
		return decimal.Zero, fmt.Errorf("price %s is not a number", v.Raw)
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("price %q is not a number", v.String())
	}
	if price.IsNegative() {
		return decimal.Zero, fmt.Errorf("price %s is negative", price)
	}
	return price, nil
}

func parseID(v gjson.Result) (int64, bool) {
	switch v.Type {
	case gjson.Number:
		id, err := strconv.ParseInt(v.Raw, 10, 64)
		return id, err == nil
	case gjson.String:
		id, err := strconv.ParseInt(strings.TrimSpace(v.Str), 10, 64)
		return id, err == nil
	default:
		return 0, false
	}
}

// idText renders an id given as number or string in one canonical text
// form, so 2 and "2" compare equal. Missing ids render as "".
func idText(v gjson.Result) string {
	switch v.Type {
	case gjson.Number:
		if id, err := strconv.ParseInt(v.Raw, 10, 64); err == nil {
			return strconv.FormatInt(id, 10)
		}
		return v.Raw
	case gjson.String:
		return canonicalID(v.Str)
	default:
		return ""
	}
}

// canonicalID only trims: "02" and "2" are different ids.
func canonicalID(s string) string {
	return strings.TrimSpace(s)
}
