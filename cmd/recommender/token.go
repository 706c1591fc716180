// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomtom215/shopai-recommender/internal/auth"
)

func newTokenCmd(a *app) *cobra.Command {
	var (
		user string
		role string
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a JWT for the admin endpoints",
		Long: `Mint a signed token with JWT_SECRET for POST /api/recommendations/refresh
and /train. The token is only checked when AUTH_MODE=jwt.

  curl -X POST -H "Authorization: Bearer $(recommender token)" \
    localhost:8085/api/recommendations/refresh`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mgr, err := auth.NewJWTManager(&a.cfg.Security)
			if err != nil {
				return err
			}
			token, err := mgr.GenerateToken(user, role)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().StringVar(&user, "user", "admin", "token subject")
	cmd.Flags().StringVar(&role, "role", auth.RoleAdmin, "token role")
	return cmd
}
