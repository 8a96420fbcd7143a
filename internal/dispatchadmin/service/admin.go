package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"dispatch-admin/internal/dispatchadmin/data"
	"dispatch-admin/internal/dispatchadmin/identity"
	"dispatch-admin/pkg/logging"
)

// Admin bootstraps administrator accounts. Admins get no wallet; they
// never pay order fees.
type Admin struct {
	userRepository   UserRepository
	identityProvider IdentityProvider
	logger           *logging.ZapLogger
}

func NewAdmin(userRepository UserRepository, identityProvider IdentityProvider, logger *logging.ZapLogger) *Admin {
	return &Admin{
		userRepository:   userRepository,
		identityProvider: identityProvider,
		logger:           logger,
	}
}

func (a *Admin) CreateAdmin(ctx context.Context, input AddUserInput) (string, error) {
	if err := validateAddUserInput(input); err != nil {
		return "", err
	}

	displayName := input.FirstName + " " + input.LastName
	uid, err := a.identityProvider.CreateUser(ctx, input.Email, input.Password, displayName)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrEmailTaken):
			return "", fmt.Errorf("%w: email %s is already registered", ErrAlreadyExists, input.Email)
		default:
			return "", fmt.Errorf("creating identity account failed: %w", err)
		}
	}
	if err := a.identityProvider.SetRoleClaim(ctx, uid, data.AdminRole); err != nil {
		return "", fmt.Errorf("setting role claim failed: %w", err)
	}

	profile := &data.UserProfile{
		ID:        uid,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Role:      data.AdminRole,
	}
	if err := a.userRepository.InsertUserProfile(ctx, profile); err != nil {
		if errors.Is(err, data.ErrUniqueConstraintViolation) {
			return "", fmt.Errorf("%w: user %s", ErrAlreadyExists, uid)
		}
		return "", fmt.Errorf("inserting admin profile failed: %w", err)
	}

	a.logger.InfoCtx(ctx, "admin created", zap.String("uid", uid))
	return uid, nil
}
