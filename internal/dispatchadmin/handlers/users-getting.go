package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"dispatch-admin/internal/dispatchadmin/data"
	"dispatch-admin/internal/dispatchadmin/service"
	"dispatch-admin/pkg/logging"
)

type UsersGettingHandler struct {
	service UsersGettingService
	logger  *logging.ZapLogger
}

type UsersGettingService interface {
	List(ctx context.Context, role data.Role, page, limit int) (service.UsersPage, error)
}

type UserResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	PhoneNumber string    `json:"phoneNumber"`
	Address     string    `json:"address"`
	CreatedAt   time.Time `json:"createdAt"`
}

type UsersPageResponse struct {
	Users      []UserResponse `json:"users"`
	TotalPages int            `json:"totalPages"`
}

func NewUsersGettingHandler(service UsersGettingService, logger *logging.ZapLogger) *UsersGettingHandler {
	return &UsersGettingHandler{
		service: service,
		logger:  logger,
	}
}

func (h *UsersGettingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	role := data.Role(chi.URLParam(r, "role"))
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 0)

	usersPage, err := h.service.List(r.Context(), role, page, limit)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			h.logger.DebugCtx(r.Context(), "invalid listing request", zap.Error(err))
			w.WriteHeader(http.StatusBadRequest)
			return
		default:
			h.logger.ErrorCtx(r.Context(), "error listing users", zap.Error(err))
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}

	response := UsersPageResponse{
		Users:      make([]UserResponse, len(usersPage.Users)),
		TotalPages: usersPage.TotalPages,
	}
	for i, profile := range usersPage.Users {
		response.Users[i] = UserResponse{
			ID:          profile.ID,
			Email:       profile.Email,
			FirstName:   profile.FirstName,
			LastName:    profile.LastName,
			PhoneNumber: profile.PhoneNumber,
			Address:     profile.Address,
			CreatedAt:   profile.CreatedAt,
		}
	}
	if err := tryWriteResponseJSON(w, response); err != nil {
		h.logger.ErrorCtx(r.Context(), "error writing response", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
