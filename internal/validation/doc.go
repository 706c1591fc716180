// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

/*
Package validation validates request and command parameters with
go-playground/validator v10.

A single validator instance is shared process-wide; it caches struct
metadata, so the first validation of a type is the only expensive one.

# Custom Tags

  - entitykind: "user", "users", "product", "products", "item" or "items"
  - entityid: a path identifier, 1..128 printable characters without '/'

# Usage

	type userRecsRequest struct {
	    UserID string `validate:"entityid"`
	    Limit  int    `validate:"min=1,max=50"`
	}

	if verr := validation.ValidateStruct(&req); verr != nil {
	    apiErr := verr.ToAPIError()
	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, verr)
	    return
	}

Errors are translated to short English messages, for example
"limit must be at most 50". Field names come from the `name` struct tag
when present, so messages use the query parameter names clients send.
*/
package validation
