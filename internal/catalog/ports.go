package catalog

import (
	"context"
	"io"
	"time"

	"storefront_back_end/internal/models"

	"github.com/gocql/gocql"
)

type ProductRepository interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id gocql.UUID) (models.Product, error)
	SaveProduct(ctx context.Context, p models.Product) error
	DeleteProduct(ctx context.Context, id gocql.UUID) error
}

type CategoryRepository interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id gocql.UUID) (models.Category, error)
	SaveCategory(ctx context.Context, c models.Category) error
}

type DiscountRepository interface {
	ListDiscounts(ctx context.Context, productID gocql.UUID) ([]models.Discount, error)
	SaveDiscount(ctx context.Context, d models.Discount) error
	DeleteDiscount(ctx context.Context, productID, discountID gocql.UUID) error
}

type Repository interface {
	ProductRepository
	CategoryRepository
	DiscountRepository
}

// SearchIndex est l'index plein texte des produits (Elasticsearch en production).
type SearchIndex interface {
	IndexProduct(ctx context.Context, p models.Product) error
	DeleteProduct(ctx context.Context, id gocql.UUID) error
	SearchProducts(ctx context.Context, query string) ([]gocql.UUID, error)
}

// ImageStore stocke les images produit (MinIO en production).
type ImageStore interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	SignedURL(ctx context.Context, imageURL string, ttl time.Duration) (string, error)
}
