package repository

import (
	"context"
	"errors"
	"testing"

	"storefront_back_end/internal/apperr"
	"storefront_back_end/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUserWriter rejoue les tables users_by_email et users.
type fakeUserWriter struct {
	byEmail   map[string]string
	users     map[string]models.User
	insertErr error
}

func newFakeUserWriter() *fakeUserWriter {
	return &fakeUserWriter{byEmail: map[string]string{}, users: map[string]models.User{}}
}

func (f *fakeUserWriter) reserveEmail(_ context.Context, email, userID string) (bool, error) {
	if _, ok := f.byEmail[email]; ok {
		return false, nil
	}
	f.byEmail[email] = userID
	return true, nil
}

func (f *fakeUserWriter) insertUser(_ context.Context, u models.User) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserWriter) releaseEmail(_ context.Context, email, userID string) error {
	if f.byEmail[email] == userID {
		delete(f.byEmail, email)
	}
	return nil
}

func TestCreateUser_ReleasesEmailWhenProfileWriteFails(t *testing.T) {
	ctx := context.Background()
	w := newFakeUserWriter()
	w.insertErr = errors.New("write timeout")

	err := createUser(ctx, w, models.User{ID: "u-1", Email: "eve@example.com"})
	require.Error(t, err)
	assert.ErrorIs(t, err, w.insertErr)
	assert.NotContains(t, w.byEmail, "eve@example.com")

	w.insertErr = nil
	require.NoError(t, createUser(ctx, w, models.User{ID: "u-2", Email: "eve@example.com"}))
	assert.Equal(t, "u-2", w.byEmail["eve@example.com"])
	assert.Contains(t, w.users, "u-2")
}

func TestCreateUser_DuplicateKeepsExistingReservation(t *testing.T) {
	ctx := context.Background()
	w := newFakeUserWriter()

	require.NoError(t, createUser(ctx, w, models.User{ID: "u-1", Email: "eve@example.com"}))
	err := createUser(ctx, w, models.User{ID: "u-2", Email: "eve@example.com"})
	assert.ErrorIs(t, err, apperr.ErrDuplicate)
	assert.Equal(t, "u-1", w.byEmail["eve@example.com"])
	assert.NotContains(t, w.users, "u-2")
}
