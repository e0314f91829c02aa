package repository

import (
	"context"
	"fmt"

	"storefront_back_end/internal/apperr"
	"storefront_back_end/internal/models"
)

// userWriter découpe l'inscription en écritures CQL distinctes.
type userWriter interface {
	reserveEmail(ctx context.Context, email, userID string) (bool, error)
	insertUser(ctx context.Context, u models.User) error
	releaseEmail(ctx context.Context, email, userID string) error
}

// CreateUser réserve l'email par une transaction légère avant d'écrire le profil.
func (s *Scylla) CreateUser(ctx context.Context, u models.User) error {
	return createUser(ctx, s, u)
}

// createUser libère la réservation si le profil n'a pas pu être écrit.
func createUser(ctx context.Context, w userWriter, u models.User) error {
	applied, err := w.reserveEmail(ctx, u.Email, u.ID)
	if err != nil {
		return fmt.Errorf("réservation email: %w", err)
	}
	if !applied {
		return apperr.ErrDuplicate
	}

	if err := w.insertUser(ctx, u); err != nil {
		if relErr := w.releaseEmail(ctx, u.Email, u.ID); relErr != nil {
			return fmt.Errorf("création utilisateur: %w (libération email: %v)", err, relErr)
		}
		return fmt.Errorf("création utilisateur: %w", err)
	}
	return nil
}

func (s *Scylla) reserveEmail(ctx context.Context, email, userID string) (bool, error) {
	return s.session.Query("INSERT INTO users_by_email (email, user_id) VALUES (?, ?) IF NOT EXISTS", email, userID).
		WithContext(ctx).MapScanCAS(map[string]interface{}{})
}

func (s *Scylla) insertUser(ctx context.Context, u models.User) error {
	return s.session.Query(`INSERT INTO users (user_id, email, name, password, role, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.Name, u.Password, u.Role, u.CreatedAt).WithContext(ctx).Exec()
}

// releaseEmail ne supprime que la réservation de cet utilisateur.
func (s *Scylla) releaseEmail(ctx context.Context, email, userID string) error {
	_, err := s.session.Query("DELETE FROM users_by_email WHERE email = ? IF user_id = ?", email, userID).
		WithContext(ctx).MapScanCAS(map[string]interface{}{})
	return err
}

func (s *Scylla) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	var userID string
	if err := s.session.Query("SELECT user_id FROM users_by_email WHERE email = ?", email).
		WithContext(ctx).Scan(&userID); err != nil {
		return models.User{}, notFound(err)
	}
	return s.GetUserByID(ctx, userID)
}

func (s *Scylla) GetUserByID(ctx context.Context, id string) (models.User, error) {
	u := models.User{ID: id}
	err := s.session.Query("SELECT email, name, password, role, created_at FROM users WHERE user_id = ?", id).
		WithContext(ctx).Scan(&u.Email, &u.Name, &u.Password, &u.Role, &u.CreatedAt)
	if err != nil {
		return models.User{}, notFound(err)
	}
	return u, nil
}
