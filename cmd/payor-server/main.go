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

	"github.com/hcms/payor-api/internal/config"
	"github.com/hcms/payor-api/internal/domain/analytics"
	"github.com/hcms/payor-api/internal/domain/claim"
	"github.com/hcms/payor-api/internal/domain/member"
	"github.com/hcms/payor-api/internal/domain/payor"
	"github.com/hcms/payor-api/internal/domain/policy"
	"github.com/hcms/payor-api/internal/domain/preauth"
	"github.com/hcms/payor-api/internal/platform/auth"
	"github.com/hcms/payor-api/internal/platform/db"
	"github.com/hcms/payor-api/internal/platform/middleware"
	"github.com/hcms/payor-api/internal/platform/notification"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "payor-server",
		Short: "Healthcare claims payor API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the payor API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if dir == "" {
				dir = cfg.MigrationsDir
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "", "Path to migrations directory (defaults to MIGRATIONS_DIR)")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if dir == "" {
				dir = cfg.MigrationsDir
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "", "Path to migrations directory (defaults to MIGRATIONS_DIR)")
	cmd.AddCommand(statusCmd)

	return cmd
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the default demo payor accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
			svc := payor.NewService(payor.NewRepoPG(pool), payor.NewMappingRepoPG(pool), logger)
			created, err := svc.Seed(ctx)
			if err != nil {
				return fmt.Errorf("seed failed: %w", err)
			}
			fmt.Printf("Created %d payor account(s).\n", created)
			return nil
		},
	}
}

func runServer() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" || os.Getenv("ENV") == "" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	issuer := auth.NewTokenIssuer(cfg.JWTSecret, time.Duration(cfg.TokenTTLMin)*time.Minute)

	// Services
	payorSvc := payor.NewService(payor.NewRepoPG(pool), payor.NewMappingRepoPG(pool), logger)
	memberSvc := member.NewService(member.NewRepoPG(pool), logger)
	policySvc := policy.NewService(policy.NewRepoPG(pool), logger)

	logSender := &notification.LogSender{Logger: logger}
	dispatcher := notification.NewDispatcher(logSender, logSender, notification.NewStorePG(pool), logger)

	claimSvc := claim.NewService(
		claim.NewRepoPG(pool), claim.NewAuditRepoPG(pool),
		payorSvc, payorSvc, policySvc, dispatcher, logger)
	preauthSvc := preauth.NewService(preauth.NewRepoPG(pool), logger)
	analyticsSvc := analytics.NewService(analytics.NewRepoPG(pool), memberSvc, logger)

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":    "healthy",
			"timestamp": time.Now().UTC(),
		})
	})
	e.GET("/health/db", func(c echo.Context) error {
		h := db.CheckHealth(c.Request().Context(), pool)
		status := http.StatusOK
		if !h.Healthy {
			status = http.StatusServiceUnavailable
		}
		return c.JSON(status, h)
	})

	// Unauthenticated: login and provider claim intake.
	public := e.Group("/api/v1")

	// Payor-scoped, behind JWT auth.
	api := e.Group("/api/v1")
	api.Use(auth.Middleware(issuer))

	payor.NewHandler(payorSvc, issuer).RegisterRoutes(public, api)
	member.NewHandler(memberSvc).RegisterRoutes(api)
	policy.NewHandler(policySvc).RegisterRoutes(api)
	claim.NewHandler(claimSvc).RegisterRoutes(public, api)
	preauth.NewHandler(preauthSvc).RegisterRoutes(api)
	analytics.NewHandler(analyticsSvc).RegisterRoutes(api)
	notification.NewHandler(dispatcher, func(c echo.Context) string {
		return auth.PayorIDFromContext(c.Request().Context())
	}).RegisterRoutes(api)

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
