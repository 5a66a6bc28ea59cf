package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/kbukum/whisper-mcp/auth/jwt"
)

func newTokenCommand(ctx *commandContext) *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token accepted by the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			token, err := mintToken(cfg, subject, ttl)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "Caller name recorded in request logs")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Token lifetime (default server.auth.token_ttl)")
	return cmd
}

func mintToken(cfg *Config, subject string, ttl time.Duration) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}
	if !cfg.Server.Auth.Enabled() {
		return "", errors.New("server.auth.jwt_secret is not set; the server accepts unauthenticated requests")
	}
	if subject == "" {
		return "", errors.New("--subject is required")
	}
	svc, err := jwt.NewService(cfg.Server.Auth.JWT(), jwt.NewClaims)
	if err != nil {
		return "", err
	}
	claims := jwt.NewClaims()
	claims.Subject = subject
	claims.ID = uuid.NewString()
	return svc.GenerateWithTTL(claims, ttl)
}
