package client

import (
	"strings"

	"golang.org/x/text/cases"
)

// fold is safe for concurrent use; cases.Caser is not.
func fold(s string) string {
	return cases.Fold().String(s)
}

// Filter keeps the items whose name or label contains query, ignoring case.
// The query is matched as typed, whitespace included. It never mutates items
// and returns a new slice in the same order.
func Filter(items []Product, query string) []Product {
	q := fold(query)

	out := make([]Product, 0, len(items))
	for _, p := range items {
		if q == "" || matches(p.Name, q) || matches(p.Label(), q) {
			out = append(out, p)
		}
	}
	return out
}

// FilterBrands keeps the brands whose name contains query, ignoring case.
func FilterBrands(brands []Brand, query string) []Brand {
	q := fold(query)

	out := make([]Brand, 0, len(brands))
	for _, b := range brands {
		if q == "" || matches(b.Name, q) {
			out = append(out, b)
		}
	}
	return out
}

// ByCategory keeps the items whose category id equals categoryID as text,
// surrounding spaces aside. Items without a category never match.
func ByCategory(items []Product, categoryID string) []Product {
	id := canonicalID(categoryID)

	out := make([]Product, 0, len(items))
	for _, p := range items {
		if p.CategoryID != "" && p.CategoryID == id {
			out = append(out, p)
		}
	}
	return out
}

func matches(s, foldedQuery string) bool {
	return s != "" && strings.Contains(fold(s), foldedQuery)
}
