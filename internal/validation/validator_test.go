// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

package validation

import (
	"strings"
	"testing"

	"github.com/tomtom215/shopai-recommender/internal/recommend"
)

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()
	if v1 == nil || v1 != v2 {
		t.Error("GetValidator() should return one non-nil instance")
	}
}

type limitRequest struct {
	Limit int `name:"limit" validate:"min=1,max=50"`
}

type embeddingRequest struct {
	Kind string `name:"kind" validate:"entitykind"`
	ID   string `name:"id" validate:"entityid"`
}

func TestValidateStruct_Limits(t *testing.T) {
	tests := []struct {
		name    string
		limit   int
		wantMsg string
	}{
		{"lower bound", 1, ""},
		{"upper bound", 50, ""},
		{"zero", 0, "limit must be at least 1"},
		{"too large", 51, "limit must be at most 50"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&limitRequest{Limit: tt.limit})
			if tt.wantMsg == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected validation error")
			}
			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", err.Error(), tt.wantMsg)
			}
			apiErr := err.ToAPIError()
			if apiErr.Code != "VALIDATION_ERROR" || apiErr.Details["field"] != "limit" {
				t.Errorf("ToAPIError() = %+v", apiErr)
			}
		})
	}
}

func TestValidateStruct_EntityTags(t *testing.T) {
	tests := []struct {
		name    string
		req     embeddingRequest
		wantErr bool
	}{
		{"user numeric", embeddingRequest{"user", "42"}, false},
		{"product text", embeddingRequest{"product", "sku-9"}, false},
		{"item alias", embeddingRequest{"items", "7"}, false},
		{"bad kind", embeddingRequest{"order", "7"}, true},
		{"empty id", embeddingRequest{"user", ""}, true},
		{"id with slash", embeddingRequest{"user", "a/b"}, true},
		{"id with space", embeddingRequest{"user", "a b"}, true},
		{"id too long", embeddingRequest{"user", strings.Repeat("x", 129)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.req)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateStruct() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateStruct_MultipleErrors(t *testing.T) {
	err := ValidateStruct(&embeddingRequest{Kind: "order", ID: ""})
	if err == nil {
		t.Fatal("expected errors")
	}
	if len(err.Errors()) != 2 {
		t.Fatalf("got %d errors, want 2", len(err.Errors()))
	}
	apiErr := err.ToAPIError()
	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok || len(fields) != 2 {
		t.Fatalf("Details = %+v, want two fields", apiErr.Details)
	}
	if !strings.Contains(apiErr.Message, "kind must be user or product") {
		t.Errorf("Message = %q", apiErr.Message)
	}
}

func TestValidateStruct_SyntheticConfig(t *testing.T) {
	cfg := recommend.DefaultSyntheticConfig()
	if err := ValidateStruct(&cfg); err != nil {
		t.Fatalf("default synthetic config invalid: %v", err)
	}
	cfg.Users = 1
	err := ValidateStruct(&cfg)
	if err == nil {
		t.Fatal("expected error for a single user")
	}
	if e := err.Errors()[0]; e.Field() != "Users" || e.Tag() != "min" || e.Param() != "2" {
		t.Errorf("error = field %s tag %s param %s", e.Field(), e.Tag(), e.Param())
	}
}
