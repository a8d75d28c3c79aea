package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sakif/tdd-playground/internal/auth"
)

var ttlFlag time.Duration

var tokenCmd = &cobra.Command{
	Use:   "token <subject>",
	Short: "Issue an API token signed with the configured JWT secret",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		if !cfg.AuthEnabled() {
			return errors.New("auth.jwt_secret (or JWT_SECRET) must be set to issue tokens")
		}

		ttl := cfg.Auth.TokenTTL
		if ttlFlag > 0 {
			ttl = ttlFlag
		}
		tokens, err := auth.NewTokenService(cfg.Auth.JWTSecret, ttl)
		if err != nil {
			return err
		}

		token, err := tokens.Generate(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().DurationVar(&ttlFlag, "ttl", 0, "token lifetime (overrides auth.token_ttl)")
	rootCmd.AddCommand(tokenCmd)
}
