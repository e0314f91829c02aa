package repository

import (
	"context"
	"fmt"

	"storefront_back_end/internal/apperr"
	"storefront_back_end/internal/models"

	"github.com/gocql/gocql"
)

const cartColumns = "user_id, item_id, product_id, quantity, added_at, updated_at"

func (s *Scylla) ListItems(ctx context.Context, userID string) ([]models.CartItem, error) {
	iter := s.session.Query("SELECT "+cartColumns+" FROM cart_items WHERE user_id = ?", userID).
		WithContext(ctx).Iter()

	var (
		out []models.CartItem
		it  models.CartItem
	)
	for iter.Scan(&it.UserID, &it.ID, &it.ProductID, &it.Quantity, &it.AddedAt, &it.UpdatedAt) {
		out = append(out, it)
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("lecture panier %s: %w", userID, err)
	}
	return out, nil
}

func (s *Scylla) GetItem(ctx context.Context, userID string, itemID gocql.UUID) (models.CartItem, error) {
	var it models.CartItem
	err := s.session.Query("SELECT "+cartColumns+" FROM cart_items WHERE user_id = ? AND item_id = ?", userID, itemID).
		WithContext(ctx).Scan(&it.UserID, &it.ID, &it.ProductID, &it.Quantity, &it.AddedAt, &it.UpdatedAt)
	if err != nil {
		return models.CartItem{}, notFound(err)
	}
	return it, nil
}

// FindByProduct parcourt la partition de l'utilisateur ; un panier reste petit.
func (s *Scylla) FindByProduct(ctx context.Context, userID string, productID gocql.UUID) (models.CartItem, error) {
	items, err := s.ListItems(ctx, userID)
	if err != nil {
		return models.CartItem{}, err
	}
	for _, it := range items {
		if it.ProductID == productID {
			return it, nil
		}
	}
	return models.CartItem{}, apperr.ErrRecordNotFound
}

func (s *Scylla) SaveItem(ctx context.Context, it models.CartItem) error {
	return s.session.Query("INSERT INTO cart_items ("+cartColumns+") VALUES (?, ?, ?, ?, ?, ?)",
		it.UserID, it.ID, it.ProductID, it.Quantity, it.AddedAt, it.UpdatedAt).WithContext(ctx).Exec()
}

func (s *Scylla) DeleteItem(ctx context.Context, userID string, itemID gocql.UUID) error {
	return s.session.Query("DELETE FROM cart_items WHERE user_id = ? AND item_id = ?", userID, itemID).
		WithContext(ctx).Exec()
}

func (s *Scylla) ClearItems(ctx context.Context, userID string) error {
	return s.session.Query("DELETE FROM cart_items WHERE user_id = ?", userID).WithContext(ctx).Exec()
}
