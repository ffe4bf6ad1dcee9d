package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	jwttoken "qualitydesk/internal/jwt_token"
	"qualitydesk/internal/platform/config"
	"qualitydesk/pkg/requestcontext"
)

var (
	tokenUserID string
	tokenRole   string
	tokenTTL    time.Duration
)

// tokenCmd mints a bearer token signed with the configured key, for local
// development and smoke tests.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a dashboard access token",
	Long: `Mint a dashboard access token signed with the configured key.

Examples:
  # Token for a regular user
  qualitydesk token

  # Admin token valid for one day
  qualitydesk token --role admin --ttl 24h`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if tokenRole != requestcontext.RoleAdmin && tokenRole != requestcontext.RoleUser {
			return fmt.Errorf("unknown role %q", tokenRole)
		}
		userID := uuid.New()
		if tokenUserID != "" {
			if userID, err = uuid.Parse(tokenUserID); err != nil {
				return fmt.Errorf("invalid user id: %w", err)
			}
		}
		svc := jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.Issuer, cfg.Auth.Audience)
		token, err := svc.GenerateAccessToken(userID, tokenRole, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenUserID, "user", "", "user ID (random when empty)")
	tokenCmd.Flags().StringVar(&tokenRole, "role", requestcontext.RoleUser, "role: admin or user")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", time.Hour, "token lifetime")
}
