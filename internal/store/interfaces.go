package store

import (
	"context"

	"product-catalog-admin/internal/domain"
)

// ProductStorer defines the backend operations on products.
type ProductStorer interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	CreateProduct(ctx context.Context, input domain.ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id domain.ProductID, input domain.ProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id domain.ProductID) error
}

// CategoryStorer defines the backend operations on categories.
// Categories are read-only reference data for the admin.
type CategoryStorer interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
}

// CatalogStore is everything the admin needs from the catalog backend.
type CatalogStore interface {
	ProductStorer
	CategoryStorer
}
