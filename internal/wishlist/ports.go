package wishlist

import (
	"context"

	"storefront_back_end/internal/models"

	"github.com/gocql/gocql"
)

// Repository stocke les appartenances (user_id, product_id).
type Repository interface {
	ListProductIDs(ctx context.Context, userID string) ([]gocql.UUID, error)
	Contains(ctx context.Context, userID string, productID gocql.UUID) (bool, error)
	AddItem(ctx context.Context, item models.WishlistItem) error
	RemoveItem(ctx context.Context, userID string, productID gocql.UUID) error
}

type Catalog interface {
	Lookup(ctx context.Context, id gocql.UUID) (models.PricedProduct, error)
}
