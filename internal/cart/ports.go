package cart

import (
	"context"

	"storefront_back_end/internal/models"

	"github.com/gocql/gocql"
)

// Repository stocke les lignes de panier, partitionnées par utilisateur.
// Les lectures d'une ligne absente renvoient apperr.ErrRecordNotFound.
type Repository interface {
	ListItems(ctx context.Context, userID string) ([]models.CartItem, error)
	GetItem(ctx context.Context, userID string, itemID gocql.UUID) (models.CartItem, error)
	FindByProduct(ctx context.Context, userID string, productID gocql.UUID) (models.CartItem, error)
	SaveItem(ctx context.Context, item models.CartItem) error
	DeleteItem(ctx context.Context, userID string, itemID gocql.UUID) error
	ClearItems(ctx context.Context, userID string) error
}

// Catalog fournit le produit et son prix effectif.
type Catalog interface {
	Lookup(ctx context.Context, id gocql.UUID) (models.PricedProduct, error)
}
