package infra

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/s21platform/exchange-chat-service/internal/config"
)

// AuthInterceptorHTTP trusts the user id injected by the gateway.
func AuthInterceptorHTTP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userUUID := r.Header.Get(config.HeaderUserUUID)
		if _, err := uuid.Parse(userUUID); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "failed to authenticate user"})
			return
		}

		ctx := context.WithValue(r.Context(), config.KeyUUID, userUUID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
