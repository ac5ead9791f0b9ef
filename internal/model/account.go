package model

import "time"

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

type Account struct {
	ID           int64
	Name         string
	Email        string
	CPF          string
	Birthdate    *time.Time
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// Page is a single page of a paginated listing.
type Page[T any] struct {
	Items       []T
	CurrentPage int
	PerPage     int
	Total       int64
}

// LastPage reports the index of the final page, never less than 1.
func (p Page[T]) LastPage() int {
	if p.PerPage <= 0 || p.Total == 0 {
		return 1
	}
	return int((p.Total + int64(p.PerPage) - 1) / int64(p.PerPage))
}
