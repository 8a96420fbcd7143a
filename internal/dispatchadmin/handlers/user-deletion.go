package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"dispatch-admin/internal/dispatchadmin/service"
	"dispatch-admin/pkg/logging"
)

type UserDeletionHandler struct {
	service UserDeletionService
	logger  *logging.ZapLogger
}

type UserDeletionService interface {
	Delete(ctx context.Context, userID string) error
}

func NewUserDeletionHandler(service UserDeletionService, logger *logging.ZapLogger) *UserDeletionHandler {
	return &UserDeletionHandler{
		service: service,
		logger:  logger,
	}
}

func (h *UserDeletionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	err := h.service.Delete(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			h.logger.DebugCtx(r.Context(), "user not found", zap.String("userID", userID))
			w.WriteHeader(http.StatusNotFound)
			return
		default:
			h.logger.ErrorCtx(r.Context(), "error deleting user", zap.Error(err))
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}
}
