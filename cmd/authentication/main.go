// This is a **mock authentication service**, designed to provide JWT tokens
// for the standalone company server, simulating user authentication.
package main

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/classmethod/icasu-cdk-serverless-api-sample/internal/company/auth"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	defaultPort   = "8081"
	defaultSecret = "jwt_secret"
	defaultUserID = "12345"
)

// TokenResponse represents the response structure
type TokenResponse struct {
	Token string `json:"token"`
}

func tokenHandler(secret string, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.URL.Query().Get("user")
		if userID == "" {
			userID = defaultUserID
		}

		token, err := auth.GenerateToken(userID, secret)
		if err != nil {
			logger.Error("Failed to generate token", zap.Error(err))
			http.Error(w, "Failed to generate token", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(TokenResponse{Token: token}); err != nil {
			logger.Error("Failed to encode token", zap.Error(err))
		}
	}
}

func newRouter(secret string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Get("/token", tokenHandler(secret, logger))
	return r
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	logger, _ := zap.NewDevelopment()
	defer logger.Sync() //nolint:errcheck

	port := getenv("AUTH_PORT", defaultPort)
	secret := getenv("JWT_SECRET", defaultSecret)

	logger.Info("Authentication service running", zap.String("port", port))
	if err := http.ListenAndServe(":"+port, newRouter(secret, logger)); err != nil {
		logger.Fatal("Authentication service stopped", zap.Error(err))
	}
}
