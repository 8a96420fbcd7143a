package service

import (
	"context"

	"dispatch-admin/internal/dispatchadmin/data"
)

type TransactionManager interface {
	DoWithTransaction(ctx context.Context, f func(ctx context.Context) error) error
}

// IdentityProvider is the platform identity service. It owns accounts,
// passwords and role claims; this service only stores profile rows and
// verifies the tokens the provider issues.
type IdentityProvider interface {
	CreateUser(ctx context.Context, email, password, displayName string) (uid string, err error)
	SetRoleClaim(ctx context.Context, uid string, role data.Role) error
	DeleteUser(ctx context.Context, uid string) error
}

type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, keys ...string) error
}
