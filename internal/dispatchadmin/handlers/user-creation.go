package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"dispatch-admin/internal/dispatchadmin/data"
	"dispatch-admin/internal/dispatchadmin/service"
	"dispatch-admin/pkg/logging"
)

type UserCreationHandler struct {
	service UserCreationService
	logger  *logging.ZapLogger
}

type UserCreationService interface {
	Add(ctx context.Context, role data.Role, input service.AddUserInput) (string, error)
}

type UserCreationRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
	Address     string `json:"address"`
}

type UserCreationResponse struct {
	UID string `json:"uid"`
}

func NewUserCreationHandler(service UserCreationService, logger *logging.ZapLogger) *UserCreationHandler {
	return &UserCreationHandler{
		service: service,
		logger:  logger,
	}
}

func (h *UserCreationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer closeBody(r.Context(), r.Body, h.logger)

	role := data.Role(chi.URLParam(r, "role"))

	request, err := decodeJSON[UserCreationRequest](r.Body)
	if err != nil {
		h.logger.DebugCtx(r.Context(), "input decoding error", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	uid, err := h.service.Add(r.Context(), role, service.AddUserInput{
		Email:       request.Email,
		Password:    request.Password,
		FirstName:   request.FirstName,
		LastName:    request.LastName,
		PhoneNumber: request.PhoneNumber,
		Address:     request.Address,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			h.logger.DebugCtx(r.Context(), "invalid user payload", zap.Error(err))
			w.WriteHeader(http.StatusBadRequest)
			return
		case errors.Is(err, service.ErrAlreadyExists):
			h.logger.DebugCtx(r.Context(), "user already exists", zap.String("email", request.Email))
			w.WriteHeader(http.StatusConflict)
			return
		default:
			h.logger.ErrorCtx(r.Context(), "error adding user", zap.Error(err))
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}

	w.WriteHeader(http.StatusCreated)
	if err := tryWriteResponseJSON(w, UserCreationResponse{UID: uid}); err != nil {
		h.logger.ErrorCtx(r.Context(), "error writing response", zap.Error(err))
	}
}
