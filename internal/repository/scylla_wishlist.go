package repository

import (
	"context"
	"errors"
	"fmt"

	"storefront_back_end/internal/models"

	"github.com/gocql/gocql"
)

func (s *Scylla) ListProductIDs(ctx context.Context, userID string) ([]gocql.UUID, error) {
	iter := s.session.Query("SELECT product_id FROM wishlist_items WHERE user_id = ?", userID).
		WithContext(ctx).Iter()

	var (
		out []gocql.UUID
		id  gocql.UUID
	)
	for iter.Scan(&id) {
		out = append(out, id)
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("lecture wishlist %s: %w", userID, err)
	}
	return out, nil
}

func (s *Scylla) Contains(ctx context.Context, userID string, productID gocql.UUID) (bool, error) {
	var id gocql.UUID
	err := s.session.Query("SELECT product_id FROM wishlist_items WHERE user_id = ? AND product_id = ?", userID, productID).
		WithContext(ctx).Scan(&id)
	if errors.Is(err, gocql.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Scylla) AddItem(ctx context.Context, item models.WishlistItem) error {
	return s.session.Query("INSERT INTO wishlist_items (user_id, product_id, added_at) VALUES (?, ?, ?)",
		item.UserID, item.ProductID, item.AddedAt).WithContext(ctx).Exec()
}

func (s *Scylla) RemoveItem(ctx context.Context, userID string, productID gocql.UUID) error {
	return s.session.Query("DELETE FROM wishlist_items WHERE user_id = ? AND product_id = ?", userID, productID).
		WithContext(ctx).Exec()
}
