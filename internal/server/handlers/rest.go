package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/treekeeper/internal/models"
	"github.com/iudanet/treekeeper/internal/server/storage"
	"github.com/iudanet/treekeeper/internal/validation"
	"github.com/iudanet/treekeeper/pkg/api"
)

// maxBodySize ограничивает размер тела запроса
const maxBodySize = 1 << 20

// RestHandler serves the PostgREST-compatible table endpoints under /rest/v1/
type RestHandler struct {
	logger  *slog.Logger
	storage storage.Storage
}

// NewRestHandler creates a new table handler
func NewRestHandler(logger *slog.Logger, storage storage.Storage) *RestHandler {
	return &RestHandler{
		logger:  logger,
		storage: storage,
	}
}

// ServeHTTP dispatches /rest/v1/<table> by table and method.
// The bare prefix answers GET and HEAD so clients can probe reachability.
func (h *RestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	table := strings.Trim(strings.TrimPrefix(r.URL.Path, strings.TrimSuffix(api.RestPrefix, "/")), "/")

	if table == "" {
		switch r.Method {
		case http.MethodGet, http.MethodHead:
			w.WriteHeader(http.StatusOK)
		default:
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	switch table {
	case api.TableTrees:
		h.handleTrees(w, r)
	case api.TableSpecies:
		h.handleSpecies(w, r)
	case api.TableClients:
		h.handleClients(w, r)
	default:
		h.sendError(w, http.StatusNotFound, api.CodeNotFound,
			fmt.Sprintf("%v: %s", storage.ErrUnknownTable, table))
	}
}

func (h *RestHandler) handleTrees(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	q, ok := h.parseQuery(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		trees, err := h.storage.ListTrees(ctx, q)
		if err != nil {
			h.sendStorageError(w, "list trees", err)
			return
		}
		h.sendJSON(w, http.StatusOK, trees)

	case http.MethodPost:
		var fields models.FieldUpdates
		if !h.decodeBody(w, r, &fields) {
			return
		}

		tree, err := h.storage.CreateTree(ctx, fields)
		if err != nil {
			h.sendStorageError(w, "create tree", err)
			return
		}

		h.logger.Info("Tree created", "id", tree.ID, "management_number", valueOrEmpty(tree.ManagementNumber))
		h.sendWritten(w, r, http.StatusCreated, []*models.Tree{tree})

	case http.MethodPatch:
		var fields models.FieldUpdates
		if !h.decodeBody(w, r, &fields) {
			return
		}

		trees, err := h.storage.UpdateTrees(ctx, q, fields)
		if err != nil {
			h.sendStorageError(w, "update trees", err)
			return
		}

		h.logger.Info("Trees updated", "count", len(trees), "fields", len(fields))
		h.sendWritten(w, r, http.StatusOK, trees)

	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

func (h *RestHandler) handleSpecies(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	q, ok := h.parseQuery(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		species, err := h.storage.ListSpecies(ctx, q)
		if err != nil {
			h.sendStorageError(w, "list species", err)
			return
		}
		h.sendJSON(w, http.StatusOK, species)

	case http.MethodPost:
		var sp models.Species
		if !h.decodeBody(w, r, &sp) {
			return
		}

		created, err := h.storage.CreateSpecies(ctx, &sp)
		if err != nil {
			h.sendStorageError(w, "create species", err)
			return
		}
		h.sendWritten(w, r, http.StatusCreated, []*models.Species{created})

	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

func (h *RestHandler) handleClients(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	q, ok := h.parseQuery(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		clients, err := h.storage.ListClients(ctx, q)
		if err != nil {
			h.sendStorageError(w, "list clients", err)
			return
		}
		h.sendJSON(w, http.StatusOK, clients)

	case http.MethodPost:
		var client models.Client
		if !h.decodeBody(w, r, &client) {
			return
		}

		created, err := h.storage.CreateClient(ctx, &client)
		if err != nil {
			h.sendStorageError(w, "create client", err)
			return
		}
		h.sendWritten(w, r, http.StatusCreated, []*models.Client{created})

	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

func (h *RestHandler) parseQuery(w http.ResponseWriter, r *http.Request) (api.Query, bool) {
	q, err := api.ParseQuery(r.URL.Query())
	if err != nil {
		h.logger.Warn("Invalid query", "query", r.URL.RawQuery, "error", err)
		h.sendError(w, http.StatusBadRequest, api.CodeBadRequest, err.Error())
		return api.Query{}, false
	}
	return q, true
}

func (h *RestHandler) decodeBody(w http.ResponseWriter, r *http.Request, dest any) bool {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err := decoder.Decode(dest); err != nil {
		h.logger.Warn("Invalid request body", "path", r.URL.Path, "error", err)
		h.sendError(w, http.StatusBadRequest, api.CodeBadRequest, "invalid request body")
		return false
	}
	return true
}

// sendWritten отвечает строками только при Prefer: return=representation
func (h *RestHandler) sendWritten(w http.ResponseWriter, r *http.Request, status int, rows any) {
	if !strings.Contains(r.Header.Get(api.HeaderPrefer), api.PreferRepresentation) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	h.sendJSON(w, status, rows)
}

func (h *RestHandler) sendStorageError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, storage.ErrConflict):
		h.logger.Warn("Conflict", "op", op, "error", err)
		h.sendError(w, http.StatusConflict, api.CodeUniqueViolation, err.Error())
	case errors.Is(err, storage.ErrInvalidQuery), errors.Is(err, validation.ErrUnknownField):
		h.logger.Warn("Bad request", "op", op, "error", err)
		h.sendError(w, http.StatusBadRequest, api.CodeBadRequest, err.Error())
	case errors.Is(err, storage.ErrNotFound):
		h.sendError(w, http.StatusNotFound, api.CodeNotFound, err.Error())
	default:
		h.logger.Error("Storage failure", "op", op, "error", err)
		h.sendError(w, http.StatusInternalServerError, "", "internal server error")
	}
}

func (h *RestHandler) sendJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode response", "error", err)
	}
}

func (h *RestHandler) sendError(w http.ResponseWriter, status int, code, message string) {
	h.sendJSON(w, status, api.ErrorResponse{Code: code, Message: message})
}

func valueOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
