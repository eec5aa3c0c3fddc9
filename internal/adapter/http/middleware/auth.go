package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/lukegrady1/Roomify/internal/platform/auth"
	"github.com/lukegrady1/Roomify/internal/platform/logger"
	"go.uber.org/zap"
)

// Authenticate attaches the bearer token's user id to the request context.
// A missing or unverifiable token leaves the request anonymous; routes that
// need a user sit behind RequireUser.
func Authenticate(v *auth.Verifier, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}
			userID, err := v.ParseBearer(header)
			if err != nil {
				log.Warn("ignoring bearer token, continuing anonymously", zap.String("path", r.URL.Path), zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithUserID(r.Context(), userID)))
		})
	}
}

// RequireUser rejects anonymous requests. It must run after Authenticate.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth.UserIDFromContext(r.Context()) == "" {
			msg := "authorization token is not provided"
			if r.Header.Get("Authorization") != "" {
				msg = "invalid authorization token"
			}
			unauthorized(w, msg)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="roomify"`)
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
