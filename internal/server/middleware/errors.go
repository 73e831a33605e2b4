package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/iudanet/treekeeper/pkg/api"
)

// writeError отвечает ошибкой в формате PostgREST
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(api.ErrorResponse{Message: message})
}
