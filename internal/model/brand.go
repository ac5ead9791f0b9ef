package model

// Brand groups the products that carry its id, ordered by product id.
type Brand struct {
	ID       int64
	Name     string
	Products []Product
}
