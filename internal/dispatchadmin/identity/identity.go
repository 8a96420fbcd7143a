package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"dispatch-admin/internal/dispatchadmin/data"
	"dispatch-admin/pkg/logging"
)

var (
	ErrEmailTaken   = errors.New("email is already registered")
	ErrUserNotFound = errors.New("identity account not found")
)

type Config struct {
	ServerAddress string
	APIKey        string
}

// Client talks to the platform identity provider's admin REST API.
type Client struct {
	logger *logging.ZapLogger
	cfg    Config
}

func New(cfg Config, logger *logging.ZapLogger) *Client {
	return &Client{
		cfg:    cfg,
		logger: logger,
	}
}

type createUserRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

type createUserResponse struct {
	UID string `json:"uid"`
}

func (c *Client) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	url := c.cfg.ServerAddress + "/admin/v1/users"
	var result createUserResponse
	resp, err := resty.
		New().
		R().
		SetContext(ctx).
		SetAuthToken(c.cfg.APIKey).
		SetBody(createUserRequest{
			Email:       email,
			Password:    password,
			DisplayName: displayName,
		}).
		SetResult(&result).
		Post(url)
	if err != nil {
		return "", fmt.Errorf("create user request failed: %w", err)
	}
	switch resp.StatusCode() {
	case 201:
		c.logger.DebugCtx(ctx, "identity account created", zap.String("uid", result.UID))
		return result.UID, nil
	case 409:
		return "", ErrEmailTaken
	default:
		return "", fmt.Errorf("unexpected status code %v", resp.StatusCode())
	}
}

type setClaimsRequest struct {
	Role string `json:"role"`
}

func (c *Client) SetRoleClaim(ctx context.Context, uid string, role data.Role) error {
	url := c.cfg.ServerAddress + "/admin/v1/users/{uid}/claims"
	resp, err := resty.
		New().
		R().
		SetContext(ctx).
		SetAuthToken(c.cfg.APIKey).
		SetPathParam("uid", uid).
		SetBody(setClaimsRequest{
			Role: string(role),
		}).
		Put(url)
	if err != nil {
		return fmt.Errorf("set claims request failed: %w", err)
	}
	switch resp.StatusCode() {
	case 200, 204:
		c.logger.DebugCtx(ctx, "role claim set", zap.String("uid", uid), zap.String("role", string(role)))
		return nil
	case 404:
		return ErrUserNotFound
	default:
		return fmt.Errorf("unexpected status code %v", resp.StatusCode())
	}
}

func (c *Client) DeleteUser(ctx context.Context, uid string) error {
	url := c.cfg.ServerAddress + "/admin/v1/users/{uid}"
	resp, err := resty.
		New().
		R().
		SetContext(ctx).
		SetAuthToken(c.cfg.APIKey).
		SetPathParam("uid", uid).
		Delete(url)
	if err != nil {
		return fmt.Errorf("delete user request failed: %w", err)
	}
	switch resp.StatusCode() {
	case 200, 204:
		return nil
	case 404:
		return ErrUserNotFound
	default:
		return fmt.Errorf("unexpected status code %v", resp.StatusCode())
	}
}
