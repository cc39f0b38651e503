package middleware

import (
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
)

const (
	msgMissingToken = "требуется токен администратора"
	msgInvalidToken = "недействительный токен администратора"
)

// StaffAuth пропускает запрос только с заголовком "Authorization: Bearer <token>",
// где token совпадает с bcrypt-хэшем из конфигурации
func StaffAuth(tokenHash string, logger Logger) func(http.Handler) http.Handler {
	hash := []byte(tokenHash)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				handlers.RespondUnauthorized(w, msgMissingToken)
				return
			}

			if err := bcrypt.CompareHashAndPassword(hash, []byte(strings.TrimSpace(token))); err != nil {
				logger.Warn("%s %s - Staff token rejected: request_id=%s", r.Method, r.URL.Path, RequestIDFrom(r.Context()))
				handlers.RespondForbidden(w, msgInvalidToken)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
