package model

type Category struct {
	ID   int64
	Name string
	Icon string
}
