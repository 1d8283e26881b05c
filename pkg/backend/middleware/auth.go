package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"os"
	"strings"

	"go.uber.org/zap"
)

// AuthConfig guards the gateway with one shared password
type AuthConfig struct {
	Enabled     bool
	APIPassword string
	APIKeyEnv   string   // read at request time when APIPassword is empty
	PublicPaths []string // matched as the path itself or its subtree
	Logger      *zap.Logger
}

// Auth requires "Authorization: Bearer <password>" outside PublicPaths.
// With no password configured every request passes.
func Auth(config AuthConfig) func(http.Handler) http.Handler {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !config.Enabled || r.Method == http.MethodOptions || isPublicPath(r.URL.Path, config.PublicPaths) {
				next.ServeHTTP(w, r)
				return
			}

			password := config.APIPassword
			if password == "" && config.APIKeyEnv != "" {
				password = os.Getenv(config.APIKeyEnv)
			}
			if password == "" {
				next.ServeHTTP(w, r)
				return
			}

			if subtle.ConstantTimeCompare([]byte(bearerToken(r)), []byte(password)) != 1 {
				logger.Warn("rejected unauthenticated request",
					zap.String("request_id", GetRequestID(r.Context())),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.String("remote", clientIP(r)))
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or missing API key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func isPublicPath(path string, public []string) bool {
	for _, p := range public {
		if path == p || strings.HasPrefix(path, strings.TrimSuffix(p, "/")+"/") {
			return true
		}
	}
	return false
}

// bearerToken returns the credential of a Bearer Authorization header; the
// scheme is case-insensitive
func bearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// writeError writes the standard error envelope
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
