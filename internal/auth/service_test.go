package auth

import (
	"context"
	"testing"
	"time"

	"storefront_back_end/internal/apperr"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/repository"
	"storefront_back_end/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func newService() *Service {
	return NewService(repository.NewMemoryStore(), Options{
		Secret:      secret,
		TTL:         time.Hour,
		AdminEmails: []string{" Admin@Shop.fr "},
	})
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	sess, err := svc.Register(ctx, " Alice ", "Alice@Example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", sess.User.Email)
	assert.Equal(t, "Alice", sess.User.Name)
	assert.Equal(t, models.RoleCustomer, sess.User.Role)
	assert.NotEqual(t, "password123", sess.User.Password)

	claims, err := utils.ParseJWT(sess.Token, secret)
	require.NoError(t, err)
	assert.Equal(t, sess.User.ID, claims.UserID)

	_, err = svc.Register(ctx, "", "alice@example.com", "password123")
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestRegister_Validation(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	_, err := svc.Register(ctx, "", "pas-un-email", "password123")
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))

	_, err = svc.Register(ctx, "", "bob@example.com", "court")
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
}

func TestRegister_AdminEmail(t *testing.T) {
	sess, err := newService().Register(context.Background(), "", "admin@shop.fr", "password123")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, sess.User.Role)

	claims, err := utils.ParseJWT(sess.Token, secret)
	require.NoError(t, err)
	assert.True(t, claims.Caller().IsAdmin())
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	_, err := svc.Register(ctx, "", "carol@example.com", "password123")
	require.NoError(t, err)

	sess, err := svc.Login(ctx, " CAROL@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)

	_, err = svc.Login(ctx, "carol@example.com", "mauvais-mdp")
	assert.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))

	_, err = svc.Login(ctx, "inconnu@example.com", "password123")
	assert.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))
	assert.Equal(t, msgBadCredentials, apperr.Message(err))
}

func TestMe(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	sess, err := svc.Register(ctx, "Dan", "dan@example.com", "password123")
	require.NoError(t, err)

	u, err := svc.Me(ctx, models.Caller{UserID: sess.User.ID})
	require.NoError(t, err)
	assert.Equal(t, "Dan", u.Name)

	_, err = svc.Me(ctx, models.Caller{})
	assert.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))

	_, err = svc.Me(ctx, models.Caller{UserID: "ghost"})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
