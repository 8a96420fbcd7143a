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

type UserUpdateHandler struct {
	service UserUpdateService
	logger  *logging.ZapLogger
}

type UserUpdateService interface {
	Update(ctx context.Context, userID string, fields map[string]string) error
}

func NewUserUpdateHandler(service UserUpdateService, logger *logging.ZapLogger) *UserUpdateHandler {
	return &UserUpdateHandler{
		service: service,
		logger:  logger,
	}
}

func (h *UserUpdateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer closeBody(r.Context(), r.Body, h.logger)

	userID := chi.URLParam(r, "userID")
	if userID == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	fields, err := decodeJSON[map[string]string](r.Body)
	if err != nil {
		h.logger.DebugCtx(r.Context(), "input decoding error", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	err = h.service.Update(r.Context(), userID, fields)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			h.logger.DebugCtx(r.Context(), "invalid update payload", zap.Error(err))
			w.WriteHeader(http.StatusBadRequest)
			return
		case errors.Is(err, service.ErrUserNotFound):
			h.logger.DebugCtx(r.Context(), "user not found", zap.String("userID", userID))
			w.WriteHeader(http.StatusNotFound)
			return
		default:
			h.logger.ErrorCtx(r.Context(), "error updating user", zap.Error(err))
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}
}
