package middleware

import (
	"cinema-kiosk/pkg/utils"
	"crypto/subtle"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Admin guards /api/admin routes with HTTP basic auth checked against a bcrypt hash.
// Without a configured hash every request is let through.
func Admin(cfg utils.AdminConfig, logger *zap.Logger) func(http.Handler) http.Handler {
	log := logger.With(zap.String("middleware", "admin"))
	if cfg.PasswordHash == "" {
		log.Warn("ADMIN_PASSWORD_HASH not set, admin routes are unprotected")
		return func(next http.Handler) http.Handler { return next }
	}

	hash := []byte(cfg.PasswordHash)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok := r.BasicAuth()
			if !ok {
				w.Header().Set("WWW-Authenticate", `Basic realm="admin"`)
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			userOK := subtle.ConstantTimeCompare([]byte(user), []byte(cfg.User)) == 1
			passOK := bcrypt.CompareHashAndPassword(hash, []byte(pass)) == nil
			if !userOK || !passOK {
				log.Warn("Admin check: invalid credentials",
					zap.String("user", user),
					zap.String("path", r.URL.Path))
				w.Header().Set("WWW-Authenticate", `Basic realm="admin"`)
				utils.ResponseUnauthorized(w, "Invalid credentials")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
