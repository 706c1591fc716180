// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/shopai-recommender/internal/logging"
	"github.com/tomtom215/shopai-recommender/internal/models"
)

// Auth modes accepted by NewMiddleware.
const (
	AuthModeNone = "none"
	AuthModeJWT  = "jwt"
)

type contextKey string

// ClaimsContextKey holds the validated *Claims in the request context.
const ClaimsContextKey contextKey = "claims"

// Middleware enforces admin authentication.
type Middleware struct {
	jwtManager *JWTManager
	authMode   string
}

// NewMiddleware creates the middleware. jwtManager may be nil in "none" mode.
func NewMiddleware(jwtManager *JWTManager, authMode string) *Middleware {
	return &Middleware{jwtManager: jwtManager, authMode: authMode}
}

// RequireAdmin rejects requests without a valid admin token. In "none"
// mode it passes every request through.
func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.authMode == AuthModeNone || m.authMode == "" {
			next.ServeHTTP(w, r)
			return
		}
		if m.jwtManager == nil {
			writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication is not configured")
			return
		}

		token, err := extractBearerToken(r)
		if err != nil {
			writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", err.Error())
			return
		}
		claims, err := m.jwtManager.ValidateToken(token)
		if err != nil {
			logging.Ctx(r.Context()).Warn().
				Str("token", logging.SanitizeToken(token)).
				Err(err).
				Msg("Token validation failed")
			writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token")
			return
		}
		if claims.Role != RoleAdmin {
			writeAuthError(w, http.StatusForbidden, "FORBIDDEN", "Admin role required")
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClaimsFromContext returns the claims stored by RequireAdmin.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*Claims)
	return claims, ok
}

func extractBearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", fmt.Errorf("missing bearer token")
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", fmt.Errorf("invalid authorization header")
	}
	return parts[1], nil
}

func writeAuthError(w http.ResponseWriter, status int, code, message string) {
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Bearer realm="shopai-recommender"`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := models.APIResponse{
		Status:   models.StatusError,
		Metadata: models.Metadata{Timestamp: time.Now()},
		Error:    &models.APIError{Code: code, Message: message},
	}
	if err := json.NewEncoder(w).Encode(&resp); err != nil {
		logging.Error().Err(err).Msg("Failed to encode auth error")
	}
}
