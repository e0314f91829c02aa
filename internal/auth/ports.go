package auth

import (
	"context"

	"storefront_back_end/internal/models"
)

// UserRepository : CreateUser renvoie apperr.ErrDuplicate si l'email existe déjà.
type UserRepository interface {
	CreateUser(ctx context.Context, u models.User) error
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	GetUserByID(ctx context.Context, id string) (models.User, error)
}
