package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"dispatch-admin/internal/dispatchadmin/service"
	"dispatch-admin/pkg/logging"
)

type CountsGettingHandler struct {
	service CountsGettingService
	logger  *logging.ZapLogger
}

type CountsGettingService interface {
	Counts(ctx context.Context) (service.RoleCounts, error)
}

func NewCountsGettingHandler(service CountsGettingService, logger *logging.ZapLogger) *CountsGettingHandler {
	return &CountsGettingHandler{
		service: service,
		logger:  logger,
	}
}

func (h *CountsGettingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	counts, err := h.service.Counts(r.Context())
	if err != nil {
		h.logger.ErrorCtx(r.Context(), "error getting role counts", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if err := tryWriteResponseJSON(w, counts); err != nil {
		h.logger.ErrorCtx(r.Context(), "error writing response", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}
