// Package app wires the application together and runs it.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/ishan/vaahaka/internal/catalog"
	"github.com/ishan/vaahaka/internal/comment"
	"github.com/ishan/vaahaka/internal/config"
	"github.com/ishan/vaahaka/internal/database"
	"github.com/ishan/vaahaka/internal/engagement"
	"github.com/ishan/vaahaka/internal/handler"
	"github.com/ishan/vaahaka/internal/logger"
	"github.com/ishan/vaahaka/internal/metrics"
	"github.com/ishan/vaahaka/internal/middleware"
	"github.com/ishan/vaahaka/internal/notify"
	"github.com/ishan/vaahaka/internal/reaction"
	"github.com/ishan/vaahaka/internal/repository"
	"github.com/ishan/vaahaka/internal/security"
	"github.com/ishan/vaahaka/internal/target"
)

// webhookMaxResponseSize caps what the notifier reads back from the
// moderation webhook.
const webhookMaxResponseSize = 1 << 20

// Init sets up structured logging and loads the configuration.
// Logs go to w.
func Init(w io.Writer) (*config.Config, error) {
	logger.SetupDefault(w)

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run is the application entry point. args is os.Args[1:].
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck skips full initialization; it only needs the port
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.String("base_url", cfg.BaseURL),
	)

	switch cmd {
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(cfg)
	}
}

// runServe opens the database, wires every dependency and serves the
// API until SIGINT or SIGTERM, then shuts down gracefully.
func runServe(cfg *config.Config) error {
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established")

	// repositories
	commentRepo := repository.NewPostgresCommentRepo(db)
	reactionRepo := repository.NewPostgresReactionRepo(db)
	storyRepo := repository.NewPostgresStoryRepo(db)
	episodeRepo := repository.NewPostgresEpisodeRepo(db)
	shortStoryRepo := repository.NewPostgresShortStoryRepo(db)
	categoryRepo := repository.NewPostgresCategoryRepo(db)
	purgeRepo := repository.NewPostgresPurgeRepo(db)

	// metrics
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// target resolution and the purge cascade hook
	resolver := target.NewResolver(storyRepo, episodeRepo, shortStoryRepo, commentRepo)
	purgeService := target.NewPurgeService(purgeRepo, collector, slog.Default())

	// comment notification webhook, off when unconfigured
	var notifier notify.CommentNotifier = notify.NopNotifier{}
	if cfg.NotifyWebhookURL != "" {
		guard := security.NewSSRFGuard()
		if err := guard.ValidateURL(cfg.NotifyWebhookURL); err != nil {
			return fmt.Errorf("invalid NOTIFY_WEBHOOK_URL: %w", err)
		}
		client := guard.NewSafeClient(cfg.NotifyTimeout, webhookMaxResponseSize)
		notifier = notify.NewWebhookNotifier(client, slog.Default(), cfg.NotifyWebhookURL)
		slog.Info("comment webhook enabled")
	}

	// domain services
	sanitizer := security.NewCommentSanitizer()
	commentService := comment.NewService(commentRepo, resolver, sanitizer, notifier, collector, slog.Default())
	moderationService := comment.NewModerationService(commentRepo, purgeRepo, slog.Default())
	reactionService := reaction.NewService(reactionRepo, resolver, collector, slog.Default())
	engagementService := engagement.NewService(commentRepo, reactionRepo)
	catalogService := catalog.NewService(storyRepo, episodeRepo, shortStoryRepo, categoryRepo)

	// per-IP rate limits, configured in requests per minute
	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		GeneralRate:     rate.Limit(float64(cfg.RateLimitGeneral) / 60.0),
		GeneralBurst:    cfg.RateLimitGeneral,
		SubmissionRate:  rate.Limit(float64(cfg.RateLimitSubmission) / 60.0),
		SubmissionBurst: cfg.RateLimitSubmission,
		CleanupInterval: 5 * time.Minute,
	})
	defer rateLimiter.Stop()

	router := handler.NewRouter(&handler.RouterDeps{
		Logger:    slog.Default(),
		Collector: collector,

		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimiter:       rateLimiter,
		AdminToken:        cfg.AdminToken,
		CookieSettings: middleware.LanguageCookieSettings{
			Secure: cfg.CookieSecure,
			Domain: cfg.CookieDomain,
			MaxAge: cfg.LanguageMaxAge,
		},

		CommentService:    commentService,
		ReactionService:   reactionService,
		EngagementService: engagementService,
		CatalogService:    catalogService,
		ModerationService: moderationService,
		Purger:            purgeService,
		Resolver:          resolver,

		MetricsHandler: metrics.Handler(registry),
		DB:             db,
	})

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runMigrate applies every pending database migration in order.
func runMigrate(cfg *config.Config) error {
	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully")
	return nil
}

// runHealthcheck probes the local API server. Docker healthcheck
// subcommand for distroless images without a shell.
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/healthz", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL hides credentials in log output.
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}
