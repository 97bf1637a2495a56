package main

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"sheeets/config"
	"sheeets/internal/adapters/auth"
	"sheeets/internal/domain"
)

// tokenCmd mints a session token for an existing user. Useful for local
// development and for operators bootstrapping the first API key.
var tokenCmd = &cobra.Command{
	Use:   "token <user-id>",
	Short: "Issue a signed session token for a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		scopes, _ := cmd.Flags().GetStringSlice("scopes")
		ttl, _ := cmd.Flags().GetDuration("ttl")

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cfg.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required")
		}
		token, err := issueToken(auth.NewJWTIssuer(cfg.JWTSecret), args[0], scopes, ttl)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.Flags().StringSlice("scopes", domain.AllScopes, "Scopes to grant")
	tokenCmd.Flags().Duration("ttl", 24*time.Hour, "Token lifetime")
}

func issueToken(issuer domain.TokenIssuer, userID string, scopes []string, ttl time.Duration) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", fmt.Errorf("user id is required")
	}
	if ttl <= 0 {
		return "", fmt.Errorf("ttl must be positive")
	}
	for _, s := range scopes {
		if !slices.Contains(domain.AllScopes, s) {
			return "", fmt.Errorf("unknown scope %q", s)
		}
	}
	return issuer.Issue(userID, scopes, ttl)
}
