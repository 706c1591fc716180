// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

/*
Package auth protects the administrative endpoints (model refresh and
retrain) with HS256 JSON Web Tokens.

Read endpoints are public. When security.auth_mode is "jwt", the admin
routes require an Authorization: Bearer header carrying a token signed
with security.jwt_secret whose role claim is "admin". Tokens are minted
offline with the `recommender token` command.

# Modes

  - none: every request passes; suitable behind a private network.
  - jwt: admin routes require a valid admin token.

# Security

  - HS256 only; other algorithms, including "none", are rejected.
  - The secret must be at least 32 characters.
  - Tokens carry exp, iat, nbf and iss claims and cannot be revoked before
    they expire, so keep security.session_timeout short.

# Usage

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	mw := auth.NewMiddleware(jwtManager, cfg.Security.AuthMode)

	r.Group(func(r chi.Router) {
	    r.Use(mw.RequireAdmin)
	    r.Post("/api/recommendations/refresh", h.Refresh)
	})
*/
package auth
