package models

// List represents a named shopping list
type List struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"nome"`
}
