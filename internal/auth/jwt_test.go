// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tomtom215/shopai-recommender/internal/config"
)

const testSecret = "this_is_a_very_long_secret_key_with_32_plus_characters"

func newTestManager(t *testing.T) *JWTManager {
	t.Helper()
	m, err := NewJWTManager(&config.SecurityConfig{JWTSecret: testSecret, SessionTimeout: time.Hour})
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}
	return m
}

func TestNewJWTManager(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     *config.SecurityConfig
		wantErr bool
	}{
		{"valid secret", &config.SecurityConfig{JWTSecret: testSecret, SessionTimeout: time.Hour}, false},
		{"empty secret", &config.SecurityConfig{SessionTimeout: time.Hour}, true},
		{"short secret", &config.SecurityConfig{JWTSecret: "short", SessionTimeout: time.Hour}, true},
		{"nil config", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			manager, err := NewJWTManager(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewJWTManager() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && manager == nil {
				t.Error("NewJWTManager() returned nil manager")
			}
		})
	}
}

func TestNewJWTManager_DefaultTimeout(t *testing.T) {
	t.Parallel()

	m, err := NewJWTManager(&config.SecurityConfig{JWTSecret: testSecret})
	if err != nil {
		t.Fatal(err)
	}
	if m.Timeout() != 24*time.Hour {
		t.Errorf("Timeout = %v, want 24h", m.Timeout())
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	token, err := m.GenerateToken("ops", RoleAdmin)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if strings.Count(token, ".") != 2 {
		t.Fatalf("token %q is not a compact JWS", token)
	}

	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.Username != "ops" || claims.Role != RoleAdmin || claims.Issuer != Issuer {
		t.Errorf("claims = %+v", claims)
	}
}

func TestValidateToken_Rejects(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)

	other, err := NewJWTManager(&config.SecurityConfig{JWTSecret: strings.Repeat("x", 40), SessionTimeout: time.Hour})
	if err != nil {
		t.Fatal(err)
	}
	wrongSecret, _ := other.GenerateToken("ops", RoleAdmin)

	expiredManager := newTestManager(t)
	expiredManager.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _ := expiredManager.GenerateToken("ops", RoleAdmin)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		Username: "ops",
		Role:     RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatal(err)
	}

	wrongIssuer, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Username: "ops",
		Role:     RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "someone-else",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatal(err)
	}

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Username:         "ops",
		Role:             RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{Issuer: Issuer},
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not.a.token"},
		{"empty", ""},
		{"wrong secret", wrongSecret},
		{"expired", expired},
		{"alg none", noneToken},
		{"wrong issuer", wrongIssuer},
		{"missing expiry", noExpiry},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := m.ValidateToken(tt.token); err == nil {
				t.Error("ValidateToken() accepted an invalid token")
			}
		})
	}
}
