package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/welldoc/riskdash/internal/config"
	"github.com/welldoc/riskdash/internal/domain/risk"
	"github.com/welldoc/riskdash/internal/domain/roster"
	"github.com/welldoc/riskdash/internal/domain/session"
	"github.com/welldoc/riskdash/internal/platform/middleware"
	"github.com/welldoc/riskdash/internal/platform/statestore"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "riskdash-server",
		Short: "Clinical risk dashboard API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(rosterCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func rosterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Patient roster tools",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Validate the roster file and print a summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			dir, err := roster.Load(cfg.RosterPath)
			if err != nil {
				return fmt.Errorf("roster %s: %w", cfg.RosterPath, err)
			}
			fmt.Printf("%s: %d patients\n", cfg.RosterPath, dir.Count())
			for _, p := range dir.All() {
				fmt.Printf("  %-6s %-22s age %3d  %s\n", p.ID, p.Name, p.Age, p.InsuranceType())
			}
			return nil
		},
	})
	return cmd
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	// State store
	ctx := context.Background()
	var state statestore.Store
	switch cfg.StateBackend {
	case "redis":
		rs, err := statestore.NewRedisStore(ctx, cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer rs.Close()
		state = rs
		logger.Info().Msg("state backed by redis")
	default:
		fs, err := statestore.NewFileStore(cfg.StatePath)
		if err != nil {
			logger.Fatal().Err(err).Str("path", cfg.StatePath).Msg("failed to open state file")
		}
		state = fs
		logger.Info().Str("path", cfg.StatePath).Msg("state backed by file")
	}

	// Patient roster
	dir, err := roster.Load(cfg.RosterPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.RosterPath).Msg("failed to load roster")
	}
	logger.Info().Int("patients", dir.Count()).Msg("roster loaded")

	// Domain services
	creds := session.NewCredentialStore(session.DefaultCredentials())
	sessions := session.NewManager(ctx, creds, state, logger)
	cache, err := risk.NewCache(ctx, state, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load prediction cache")
	}
	scorer := risk.NewClient(cfg.ScoringURL, logger)
	riskSvc := risk.NewService(dir, scorer, cache, logger)

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowHeaders: []string{"Content-Type", "X-Request-ID"},
	}))

	// API group
	apiV1 := e.Group("/api/v1")

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))

	// Auth endpoints stay open; everything else requires a session.
	session.NewHandler(sessions).RegisterRoutes(apiV1)

	protected := apiV1.Group("", sessions.Require())
	roster.NewHandler(dir).RegisterRoutes(protected)
	risk.NewHandler(riskSvc, logger).RegisterRoutes(protected)

	// Health check, including scoring service reachability
	e.GET("/health", func(c echo.Context) error {
		scoring := "ok"
		if err := riskSvc.ScoringHealth(c.Request().Context()); err != nil {
			scoring = "unreachable"
		}
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"scoring": scoring,
			"version": "0.1.0",
		})
	})

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
