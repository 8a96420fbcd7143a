package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"dispatch-admin/internal/dispatchadmin/data"
	"dispatch-admin/internal/dispatchadmin/identity"
	"dispatch-admin/pkg/logging"
)

const (
	defaultPageLimit = 5
	countsCacheKey   = "users:counts"
)

type AddUserInput struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	PhoneNumber string
	Address     string
}

type UsersPage struct {
	Users      []data.UserProfile
	TotalPages int
}

type RoleCounts struct {
	Employees  int `json:"employees"`
	Riders     int `json:"riders"`
	ShopOwners int `json:"shopOwners"`
}

type UserRepository interface {
	InsertUserProfile(ctx context.Context, profile *data.UserProfile) error
	GetUserProfile(ctx context.Context, userID string) (data.UserProfile, error)
	GetUserProfiles(ctx context.Context, role data.Role, limit, offset int) ([]data.UserProfile, error)
	CountUsersByRole(ctx context.Context, role data.Role) (int, error)
	UpdateUserProfile(ctx context.Context, userID string, fields map[string]string) error
	DeleteUserProfile(ctx context.Context, userID string) error
	InsertWallet(ctx context.Context, userID string) error
	DeleteWallet(ctx context.Context, userID string) error
	DeleteWalletTransactions(ctx context.Context, userID string) error
}

type Users struct {
	transactionManager TransactionManager
	userRepository     UserRepository
	identityProvider   IdentityProvider
	cache              Cache
	logger             *logging.ZapLogger
}

func NewUsers(
	transactionManager TransactionManager,
	userRepository UserRepository,
	identityProvider IdentityProvider,
	cache Cache,
	logger *logging.ZapLogger,
) *Users {
	return &Users{
		transactionManager: transactionManager,
		userRepository:     userRepository,
		identityProvider:   identityProvider,
		cache:              cache,
		logger:             logger,
	}
}

// Add creates the identity account, assigns the role claim and persists
// the profile. Riders and shop owners also get an empty wallet, created
// in the same database transaction as the profile row.
func (u *Users) Add(ctx context.Context, role data.Role, input AddUserInput) (string, error) {
	if !manageableRole(role) {
		return "", fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}
	if err := validateAddUserInput(input); err != nil {
		return "", err
	}

	displayName := input.FirstName + " " + input.LastName
	uid, err := u.identityProvider.CreateUser(ctx, input.Email, input.Password, displayName)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrEmailTaken):
			return "", fmt.Errorf("%w: email %s is already registered", ErrAlreadyExists, input.Email)
		default:
			return "", fmt.Errorf("creating identity account failed: %w", err)
		}
	}
	if err := u.identityProvider.SetRoleClaim(ctx, uid, role); err != nil {
		return "", fmt.Errorf("setting role claim failed: %w", err)
	}

	err = u.transactionManager.DoWithTransaction(ctx, func(ctx context.Context) error {
		profile := &data.UserProfile{
			ID:          uid,
			Email:       input.Email,
			FirstName:   input.FirstName,
			LastName:    input.LastName,
			PhoneNumber: input.PhoneNumber,
			Address:     input.Address,
			Role:        role,
		}
		if err := u.userRepository.InsertUserProfile(ctx, profile); err != nil {
			return fmt.Errorf("inserting user profile failed: %w", err)
		}
		if role == data.RiderRole || role == data.ShopOwnerRole {
			if err := u.userRepository.InsertWallet(ctx, uid); err != nil {
				return fmt.Errorf("creating wallet failed: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, data.ErrUniqueConstraintViolation) {
			return "", fmt.Errorf("%w: user %s", ErrAlreadyExists, uid)
		}
		return "", err //nolint:wrapcheck // unnecessary
	}

	u.invalidateCounts(ctx)
	u.logger.InfoCtx(ctx, "user added", zap.String("uid", uid), zap.String("role", string(role)))
	return uid, nil
}

func (u *Users) List(ctx context.Context, role data.Role, page, limit int) (UsersPage, error) {
	if !manageableRole(role) {
		return UsersPage{}, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}

	total, err := u.userRepository.CountUsersByRole(ctx, role)
	if err != nil {
		return UsersPage{}, fmt.Errorf("counting users failed: %w", err)
	}
	totalPages := (total + limit - 1) / limit

	profiles, err := u.userRepository.GetUserProfiles(ctx, role, limit, (page-1)*limit)
	if err != nil {
		return UsersPage{}, fmt.Errorf("listing users failed: %w", err)
	}
	return UsersPage{
		Users:      profiles,
		TotalPages: totalPages,
	}, nil
}

func (u *Users) Counts(ctx context.Context) (RoleCounts, error) {
	var counts RoleCounts
	found, err := u.cache.Get(ctx, countsCacheKey, &counts)
	if err != nil {
		u.logger.WarnCtx(ctx, "reading counts cache failed", zap.Error(err))
	}
	if found && err == nil {
		return counts, nil
	}

	if counts.Employees, err = u.userRepository.CountUsersByRole(ctx, data.EmployeeRole); err != nil {
		return RoleCounts{}, fmt.Errorf("counting employees failed: %w", err)
	}
	if counts.Riders, err = u.userRepository.CountUsersByRole(ctx, data.RiderRole); err != nil {
		return RoleCounts{}, fmt.Errorf("counting riders failed: %w", err)
	}
	if counts.ShopOwners, err = u.userRepository.CountUsersByRole(ctx, data.ShopOwnerRole); err != nil {
		return RoleCounts{}, fmt.Errorf("counting shop owners failed: %w", err)
	}

	if err := u.cache.Set(ctx, countsCacheKey, counts); err != nil {
		u.logger.WarnCtx(ctx, "writing counts cache failed", zap.Error(err))
	}
	return counts, nil
}

// Update applies a partial profile update. Field names follow the API
// payload shape and are mapped to columns here.
func (u *Users) Update(ctx context.Context, userID string, fields map[string]string) error {
	if len(fields) == 0 {
		return fmt.Errorf("%w: no fields to update", ErrValidation)
	}
	columns := make(map[string]string, len(fields))
	for name, value := range fields {
		column, ok := updatableFields[name]
		if !ok {
			return fmt.Errorf("%w: field %q cannot be updated", ErrValidation, name)
		}
		columns[column] = value
	}

	if err := u.userRepository.UpdateUserProfile(ctx, userID, columns); err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("updating user profile failed: %w", err)
	}
	u.invalidateCounts(ctx)
	return nil
}

// Delete removes the database rows first and the identity account
// after; a missing identity account is tolerated so retries converge.
// The wallet and its transaction log go in the same transaction as the
// profile row, since wallets reference the profile.
func (u *Users) Delete(ctx context.Context, userID string) error {
	if _, err := u.userRepository.GetUserProfile(ctx, userID); err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("reading user profile failed: %w", err)
	}
	err := u.transactionManager.DoWithTransaction(ctx, func(ctx context.Context) error {
		if err := u.userRepository.DeleteWalletTransactions(ctx, userID); err != nil {
			return fmt.Errorf("deleting wallet transactions failed: %w", err)
		}
		if err := u.userRepository.DeleteWallet(ctx, userID); err != nil {
			return fmt.Errorf("deleting wallet failed: %w", err)
		}
		if err := u.userRepository.DeleteUserProfile(ctx, userID); err != nil {
			return fmt.Errorf("deleting user profile failed: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return ErrUserNotFound
		}
		return err //nolint:wrapcheck // unnecessary
	}
	if err := u.identityProvider.DeleteUser(ctx, userID); err != nil && !errors.Is(err, identity.ErrUserNotFound) {
		return fmt.Errorf("deleting identity account failed: %w", err)
	}
	u.invalidateCounts(ctx)
	u.logger.InfoCtx(ctx, "user deleted", zap.String("uid", userID))
	return nil
}

func (u *Users) invalidateCounts(ctx context.Context) {
	if err := u.cache.Delete(ctx, countsCacheKey); err != nil {
		u.logger.WarnCtx(ctx, "invalidating counts cache failed", zap.Error(err))
	}
}

var updatableFields = map[string]string{
	"email":       "email",
	"firstName":   "first_name",
	"lastName":    "last_name",
	"phoneNumber": "phone_number",
	"address":     "address",
}

func manageableRole(role data.Role) bool {
	switch role {
	case data.EmployeeRole, data.RiderRole, data.ShopOwnerRole:
		return true
	}
	return false
}

func validateAddUserInput(input AddUserInput) error {
	if !strings.Contains(input.Email, "@") {
		return fmt.Errorf("%w: invalid email format", ErrValidation)
	}
	if len(input.Password) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters long", ErrValidation)
	}
	if input.FirstName == "" || input.LastName == "" {
		return fmt.Errorf("%w: first and last name are required", ErrValidation)
	}
	return nil
}
