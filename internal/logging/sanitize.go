// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

package logging

import "strings"

const maxErrorLen = 200

var sensitiveMarkers = []string{"password", "secret", "token", "bearer", "authorization"}

// SanitizeToken masks a token, keeping the first and last 4 characters.
// Example: "eyJhbGciOiJIUzI1NiJ9.e30.abc" -> "eyJh....abc"
func SanitizeToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 12 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

// SanitizeError replaces messages that mention credentials with a generic
// text and truncates long ones.
func SanitizeError(msg string) string {
	lower := strings.ToLower(msg)
	for _, m := range sensitiveMarkers {
		if strings.Contains(lower, m) {
			return "authentication error"
		}
	}
	if len(msg) > maxErrorLen {
		return msg[:maxErrorLen] + "..."
	}
	return msg
}
