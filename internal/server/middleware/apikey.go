package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/treekeeper/pkg/api"
)

// APIKeyMiddleware создает middleware для проверки ключа проекта.
// Ключ принимается в заголовке apikey или как Bearer токен.
// Пустой key отключает проверку.
func APIKeyMiddleware(logger *slog.Logger, key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if key == "" {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			presented := requestKey(r)
			if presented == "" {
				logger.Warn("Missing API key", "path", r.URL.Path, "remote_addr", r.RemoteAddr)
				writeError(w, http.StatusUnauthorized, "missing api key")
				return
			}

			if subtle.ConstantTimeCompare([]byte(presented), []byte(key)) != 1 {
				logger.Warn("Invalid API key", "path", r.URL.Path, "remote_addr", r.RemoteAddr)
				writeError(w, http.StatusUnauthorized, "invalid api key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// requestKey извлекает ключ из запроса
func requestKey(r *http.Request) string {
	if key := r.Header.Get(api.HeaderAPIKey); key != "" {
		return key
	}

	// Ожидаем формат: "Bearer <key>"
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}
	return ""
}
