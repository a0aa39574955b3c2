package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/classmethod/icasu-cdk-serverless-api-sample/internal/pkg/httpresponse"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type contextKey string

const (
	userContextKey contextKey = "user"
)

const unauthorizedBody = `{"message":"Unauthorized"}`

// Middleware rejects requests without a valid bearer token with 401.
// Preflight requests pass through unauthenticated.
func Middleware(jwtSecret string, logger *zap.Logger) func(http.Handler) http.Handler {
	logger = logger.Named("auth")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			tokenString, err := extractTokenFromHeader(r)
			if err != nil {
				unauthorized(w, logger, err)
				return
			}

			claims, err := validateToken(tokenString, jwtSecret)
			if err != nil {
				unauthorized(w, logger, err)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the subject of the token that authenticated the
// request, or "" when the request was not authenticated.
func UserFromContext(ctx context.Context) string {
	claims, ok := ctx.Value(userContextKey).(jwt.MapClaims)
	if !ok {
		return ""
	}
	sub, _ := claims.GetSubject()
	return sub
}

func extractTokenFromHeader(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", fmt.Errorf("authorization header required")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", fmt.Errorf("invalid authorization format: missing Bearer prefix")
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == "" {
		return "", fmt.Errorf("invalid authorization format: empty token")
	}

	return tokenString, nil
}

func unauthorized(w http.ResponseWriter, logger *zap.Logger, cause error) {
	logger.Debug("Rejected request", zap.Error(cause))
	resp := httpresponse.Unauthorized(unauthorizedBody, httpresponse.JSONHeaders())
	if err := httpresponse.Write(w, resp); err != nil {
		logger.Error("Failed to write response", zap.Error(err))
	}
}
