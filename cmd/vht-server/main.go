package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vht/vht/internal/config"
	"github.com/vht/vht/internal/domain/growth"
	"github.com/vht/vht/internal/domain/history"
	"github.com/vht/vht/internal/domain/maternal"
	"github.com/vht/vht/internal/domain/ncd"
	"github.com/vht/vht/internal/domain/resident"
	"github.com/vht/vht/internal/domain/visit"
	"github.com/vht/vht/internal/domain/worker"
	"github.com/vht/vht/internal/platform/audit"
	"github.com/vht/vht/internal/platform/auth"
	"github.com/vht/vht/internal/platform/blobstore"
	"github.com/vht/vht/internal/platform/db"
	"github.com/vht/vht/internal/platform/export"
	"github.com/vht/vht/internal/platform/identifier"
	"github.com/vht/vht/internal/platform/metrics"
	"github.com/vht/vht/internal/platform/middleware"
	"github.com/vht/vht/internal/platform/reporting"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "vht-server",
		Short: "Community health registry API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(workerCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the registry API server",
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

	// migrate up
	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, db.PoolConfig{
				MaxConns: cfg.DBMaxConns,
				MinConns: cfg.DBMinConns,
			})
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, resolveMigrationsDir(dir, cfg.MigrationsDir))
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

	// migrate status
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, db.PoolConfig{
				MaxConns: cfg.DBMaxConns,
				MinConns: cfg.DBMinConns,
			})
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, resolveMigrationsDir(dir, cfg.MigrationsDir))
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

func workerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Manage health worker accounts",
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a health worker account",
		RunE: func(cmd *cobra.Command, args []string) error {
			username, _ := cmd.Flags().GetString("username")
			fullName, _ := cmd.Flags().GetString("name")
			password, _ := cmd.Flags().GetString("password")
			role, _ := cmd.Flags().GetString("role")
			if username == "" || fullName == "" || password == "" {
				return fmt.Errorf("--username, --name and --password are required")
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, db.PoolConfig{
				MaxConns: cfg.DBMaxConns,
				MinConns: cfg.DBMinConns,
			})
			if err != nil {
				return err
			}
			defer pool.Close()

			// Account creation never issues tokens, so the JWT config can
			// stay zero here.
			svc := worker.NewService(worker.NewWorkerRepoPG(pool), auth.JWTConfig{})
			w, err := svc.CreateWorker(ctx, worker.CreateRequest{
				Username: username,
				FullName: fullName,
				Password: password,
				Role:     role,
			})
			if err != nil {
				return fmt.Errorf("create worker: %w", err)
			}

			fmt.Printf("Created %s account %q (%s)\n", w.Role, w.Username, w.ID)
			return nil
		},
	}
	createCmd.Flags().String("username", "", "Login username")
	createCmd.Flags().String("name", "", "Worker's full name")
	createCmd.Flags().String("password", "", "Initial password (min 8 characters)")
	createCmd.Flags().String("role", auth.RoleHealthWorker, "Account role: admin, health_worker, or viewer")

	cmd.AddCommand(createCmd)
	return cmd
}

func runServer() error {
	// Bootstrap logger until config tells us the environment.
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}
	logger = newLogger(cfg.Env, cfg.LogLevel)

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, db.PoolConfig{
		MaxConns: cfg.DBMaxConns,
		MinConns: cfg.DBMinConns,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Photo storage
	photos, err := blobstore.NewFSPhotoStore(cfg.PhotoDir)
	if err != nil {
		logger.Fatal().Err(err).Str("dir", cfg.PhotoDir).Msg("failed to open photo store")
	}

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.SanitizeWithLogger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))
	e.Use(metrics.Middleware())
	e.Use(middleware.BodyLimit(cfg.MaxBodyBytes, cfg.PhotoMaxBytes))
	e.Use(middleware.RequestTimeout(cfg.RequestTimeout))

	// Shared by the login service and the auth middleware.
	jwtCfg := auth.JWTConfig{
		Secret:   []byte(cfg.JWTSecret),
		Issuer:   cfg.JWTIssuer,
		TokenTTL: cfg.TokenTTL,
	}

	var authMW echo.MiddlewareFunc
	if cfg.IsDev() && cfg.JWTSecret == "" {
		logger.Warn().Msg("JWT_SECRET not set; development auth allows unauthenticated admin access")
		authMW = auth.DevAuthMiddleware()
	} else {
		authMW = auth.JWTMiddleware(jwtCfg)
	}

	// Two groups share the /api/v1 prefix: public carries login only, api
	// carries everything else behind auth. One rate limiter instance covers
	// both so a client draws from a single bucket. The audit middleware sits
	// inside auth so entries carry the worker identity.
	rateLimit := middleware.RateLimit(rateLimitFromConfig(cfg))
	auditRecorder := audit.NewRecorder(pool)

	public := e.Group("/api/v1")
	public.Use(rateLimit)

	api := e.Group("/api/v1")
	api.Use(rateLimit)
	api.Use(authMW)
	api.Use(middleware.Audit(logger, auditRecorder))

	// Health checks and metrics
	e.GET("/health/live", db.LiveHandler())
	e.GET("/health/ready", db.ReadyHandler(pool))
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	// -- Register domain handlers --

	// Worker accounts and login
	workerSvc := worker.NewService(worker.NewWorkerRepoPG(pool), jwtCfg)
	workerHandler := worker.NewHandler(workerSvc)
	workerHandler.RegisterRoutes(public, api)

	// Resident registry
	allocator := identifier.NewAllocatorPG(pool)
	residentSvc := resident.NewService(resident.NewResidentRepoPG(pool), allocator, photos)
	residentHandler := resident.NewHandler(residentSvc)
	residentHandler.RegisterRoutes(api)

	// Visits
	visitSvc := visit.NewService(visit.NewVisitRepoPG(pool))
	visitHandler := visit.NewHandler(visitSvc)
	visitHandler.RegisterRoutes(api)

	// Medical history
	historySvc := history.NewService(history.NewHistoryRepoPG(pool))
	historyHandler := history.NewHandler(historySvc)
	historyHandler.RegisterRoutes(api)

	// Child growth monitoring
	growthSvc := growth.NewService(growth.NewPostgresGrowthRepository(pool), residentSvc)
	growthHandler := growth.NewHandler(growthSvc)
	growthHandler.RegisterRoutes(api)

	// Maternal health (ANC/PNC)
	maternalSvc := maternal.NewService(maternal.NewPostgresMaternalRepository(pool), residentSvc)
	maternalHandler := maternal.NewHandler(maternalSvc)
	maternalHandler.RegisterRoutes(api)

	// NCD follow-up
	ncdSvc := ncd.NewService(ncd.NewPostgresNCDRepository(pool), residentSvc)
	ncdHandler := ncd.NewHandler(ncdSvc)
	ncdHandler.RegisterRoutes(api)

	// Reports, revalidated via ETag since dashboards poll them
	reports := api.Group("", middleware.ETag(middleware.DefaultETagConfig()))
	reportHandler := reporting.NewHandler(pool)
	reportHandler.RegisterRoutes(reports)

	// Exports
	exporter := export.NewExporter(pool, cfg.ExportRowCap)
	exportHandler := export.NewHandler(exporter)
	exportHandler.RegisterRoutes(api)

	// Audit trail search
	admin := api.Group("/admin", auth.RequireRole(auth.RoleAdmin))
	auditHandler := audit.NewHandler(audit.NewStore(pool))
	auditHandler.RegisterRoutes(admin)

	// Keep the connection gauge current while the server runs.
	statsCtx, statsCancel := context.WithCancel(ctx)
	defer statsCancel()
	go samplePoolStats(statsCtx, pool)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting server")
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

// newLogger builds the process logger: human-readable console output in
// development, JSON elsewhere. Unknown levels fall back to info.
func newLogger(env, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	var out io.Writer = os.Stdout
	if env == "development" {
		out = zerolog.ConsoleWriter{Out: os.Stdout}
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

// resolveMigrationsDir prefers the --dir flag, then the configured
// MIGRATIONS_DIR, then the conventional default.
func resolveMigrationsDir(flagDir, configDir string) string {
	if flagDir != "" {
		return flagDir
	}
	if configDir != "" {
		return configDir
	}
	return "migrations"
}

// rateLimitFromConfig maps config onto the limiter, falling back to package
// defaults when the configured rate is unusable.
func rateLimitFromConfig(cfg *config.Config) middleware.RateLimitConfig {
	rl := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rl.RequestsPerSecond <= 0 || rl.BurstSize <= 0 {
		return middleware.DefaultRateLimitConfig()
	}
	return rl
}

// samplePoolStats refreshes the active-connections gauge every 15 seconds
// until ctx is cancelled.
func samplePoolStats(ctx context.Context, pool *pgxpool.Pool) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.RecordDBConnections(int(pool.Stat().AcquiredConns()))
		}
	}
}
