package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/iudanet/treekeeper/pkg/api"
)

// HealthStorage is the part of the storage health checks need
//
//go:generate moq -out health_mock.go . HealthStorage
type HealthStorage interface {
	Ping(ctx context.Context) error
	CountTrees(ctx context.Context) (int, error)
}

// HealthHandler обрабатывает health check запросы
type HealthHandler struct {
	logger  *slog.Logger
	storage HealthStorage
}

// NewHealthHandler создает новый handler для health check
func NewHealthHandler(logger *slog.Logger, storage HealthStorage) *HealthHandler {
	return &HealthHandler{
		logger:  logger,
		storage: storage,
	}
}

// Health обрабатывает GET /api/v1/health
// Отвечает 503, если база данных недоступна
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp := api.HealthResponse{Status: "ok"}
	status := http.StatusOK

	if err := h.storage.Ping(ctx); err != nil {
		h.logger.Error("Database ping failed", "error", err)
		resp.Status = "unavailable"
		status = http.StatusServiceUnavailable
	} else if count, err := h.storage.CountTrees(ctx); err != nil {
		h.logger.Error("Failed to count trees", "error", err)
		resp.Status = "degraded"
	} else {
		resp.Trees = count
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("failed to encode health response", slog.Any("error", err))
	}
}
