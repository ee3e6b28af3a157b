package model

import (
	"time"

	"github.com/google/uuid"
)

// Product is a catalog item. Stock is the number of units currently
// available; Sold is the cumulative number of units sold and never
// decreases.
type Product struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	Sold        int       `json:"sold"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
