package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ProductID is the backend-assigned identifier of a product.
// Backends emit it either as a JSON string or a JSON number; it is kept
// opaque and compared only for equality.
type ProductID string

// MarshalJSON re-emits numeric identifiers as numbers so the backend sees
// the same type it assigned.
func (id ProductID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte(`null`), nil
	}
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id *ProductID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ProductID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("domain: product id must be a string or number: %w", err)
	}
	*id = ProductID(n.String())
	return nil
}

// Category is a plain string identifier fetched once per session.
type Category = string

// Product is the client-side cached copy of a backend product record.
type Product struct {
	ID          ProductID `json:"id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Stock       int       `json:"stock"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   string    `json:"createdAt"` // ISO-8601, set once at creation
}

// ProductInput is the normalised payload sent to the backend on create and
// update. ID is only set for updates; CreatedAt is the freshly generated
// timestamp on create and the original one on update.
type ProductInput struct {
	ID          ProductID `json:"id,omitempty"`
	Name        string    `json:"name" validate:"required,min=2"`
	Price       float64   `json:"price" validate:"gt=0"`
	Category    string    `json:"category" validate:"required"`
	Stock       int       `json:"stock" validate:"gte=0"`
	Description string    `json:"description" validate:"max=500"`
	Tags        []string  `json:"tags" validate:"dive,required"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   string    `json:"createdAt,omitempty"`
}
