package handlers

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"dispatch-admin/internal/dispatchadmin/service"
	"dispatch-admin/pkg/logging"
)

// AdminBootstrapHandler creates the first administrator accounts. It is
// the only unauthenticated mutating endpoint and is guarded by the
// deployment setup key instead of a token.
type AdminBootstrapHandler struct {
	service  AdminBootstrapService
	logger   *logging.ZapLogger
	setupKey string
}

type AdminBootstrapService interface {
	CreateAdmin(ctx context.Context, input service.AddUserInput) (string, error)
}

type AdminBootstrapRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	SetupKey  string `json:"setupKey"`
}

func NewAdminBootstrapHandler(service AdminBootstrapService, setupKey string, logger *logging.ZapLogger) *AdminBootstrapHandler {
	return &AdminBootstrapHandler{
		service:  service,
		setupKey: setupKey,
		logger:   logger,
	}
}

func (h *AdminBootstrapHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer closeBody(r.Context(), r.Body, h.logger)

	request, err := decodeJSON[AdminBootstrapRequest](r.Body)
	if err != nil {
		h.logger.DebugCtx(r.Context(), "input decoding error", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if h.setupKey == "" || subtle.ConstantTimeCompare([]byte(request.SetupKey), []byte(h.setupKey)) != 1 {
		h.logger.WarnCtx(r.Context(), "admin bootstrap rejected: bad setup key")
		w.WriteHeader(http.StatusForbidden)
		return
	}

	uid, err := h.service.CreateAdmin(r.Context(), service.AddUserInput{
		Email:     request.Email,
		Password:  request.Password,
		FirstName: request.FirstName,
		LastName:  request.LastName,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			h.logger.DebugCtx(r.Context(), "invalid admin payload", zap.Error(err))
			w.WriteHeader(http.StatusBadRequest)
			return
		case errors.Is(err, service.ErrAlreadyExists):
			h.logger.DebugCtx(r.Context(), "admin already exists", zap.String("email", request.Email))
			w.WriteHeader(http.StatusConflict)
			return
		default:
			h.logger.ErrorCtx(r.Context(), "error creating admin", zap.Error(err))
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}

	w.WriteHeader(http.StatusCreated)
	if err := tryWriteResponseJSON(w, UserCreationResponse{UID: uid}); err != nil {
		h.logger.ErrorCtx(r.Context(), "error writing response", zap.Error(err))
	}
}
