package main

import (
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sakif/tdd-playground/internal/auth"
	"github.com/sakif/tdd-playground/internal/chat"
	"github.com/sakif/tdd-playground/internal/executor/factory"
	"github.com/sakif/tdd-playground/internal/llm"
	"github.com/sakif/tdd-playground/internal/server"
)

var portFlag int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API. The sandbox backend is probed first; a missing container
engine or a stopped daemon stops start-up.

Examples:
  playground serve
  playground serve --port 9090
  ENVIRONMENT=production playground serve`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&portFlag, "port", 0, "port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	backend, err := factory.New(cfg.Sandbox, logger)
	if err != nil {
		return fmt.Errorf("initializing sandbox: %w", err)
	}
	defer backend.Close()

	deps := server.Deps{Executor: backend}

	client, err := llm.New(cfg.LLM)
	if err != nil {
		logger.Warn("chat disabled", slog.String("error", err.Error()))
	} else {
		deps.Streamer = chat.NewStreamer(client, logger)
	}

	if cfg.AuthEnabled() {
		deps.Tokens, err = auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
		if err != nil {
			return err
		}
	} else {
		logger.Warn("JWT secret not set, authentication is disabled")
	}

	port := cfg.Server.Port
	if portFlag > 0 {
		port = portFlag
	}

	srv := server.New(server.Config{
		Port:        port,
		CORSOrigins: cfg.Server.CORSOrigins,
		BackendName: backend.Name,
	}, deps, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return srv.Start(ctx)
}

