package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch-admin/internal/dispatchadmin/data"
)

func newTestAdmin(t *testing.T, store *fakeUserStore, provider *fakeIdentityProvider) *Admin {
	t.Helper()
	return NewAdmin(store, provider, newTestLogger(t))
}

func TestCreateAdmin(t *testing.T) {
	store := newFakeUserStore()
	provider := newFakeIdentityProvider()
	admin := newTestAdmin(t, store, provider)

	uid, err := admin.CreateAdmin(context.Background(), validInput("admin@example.com"))
	require.NoError(t, err)
	require.NotEmpty(t, uid)

	profile, ok := store.profiles[uid]
	require.True(t, ok)
	assert.Equal(t, data.AdminRole, profile.Role)
	assert.Equal(t, data.AdminRole, provider.roles[uid])
	assert.False(t, store.wallets[uid], "admins never get a wallet")
}

func TestCreateAdminDuplicateEmail(t *testing.T) {
	store := newFakeUserStore()
	provider := newFakeIdentityProvider()
	admin := newTestAdmin(t, store, provider)
	ctx := context.Background()

	_, err := admin.CreateAdmin(ctx, validInput("admin@example.com"))
	require.NoError(t, err)

	_, err = admin.CreateAdmin(ctx, validInput("admin@example.com"))
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestCreateAdminValidation(t *testing.T) {
	admin := newTestAdmin(t, newFakeUserStore(), newFakeIdentityProvider())

	input := validInput("admin@example.com")
	input.Password = "short"
	_, err := admin.CreateAdmin(context.Background(), input)
	assert.ErrorIs(t, err, ErrValidation)
}
