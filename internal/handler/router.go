package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ishan/vaahaka/internal/metrics"
	"github.com/ishan/vaahaka/internal/middleware"
)

// Pinger checks storage liveness for the health endpoint. Satisfied by
// *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// RouterDeps bundles everything NewRouter needs.
type RouterDeps struct {
	Logger    *slog.Logger
	Collector metrics.MetricsCollector

	// middleware wiring
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	AdminToken        string
	CookieSettings    middleware.LanguageCookieSettings

	// services
	CommentService    CommentServiceInterface
	ReactionService   ReactionServiceInterface
	EngagementService EngagementServiceInterface
	CatalogService    CatalogServiceInterface
	ModerationService ModerationServiceInterface
	Purger            AttachmentPurgerInterface
	Resolver          TargetResolver

	// infrastructure endpoints
	MetricsHandler http.Handler
	DB             Pinger
}

// NewRouter assembles the API routes and middleware chain.
//
// Middleware order, outermost first:
//
//	CORS → security headers → request ID → client IP → language →
//	logging → recovery → rate limit (per group)
//
// The health and metrics endpoints sit outside the rate limited
// groups; the admin group additionally runs the token check.
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewRequestIDMiddleware())
	r.Use(middleware.NewClientIPMiddleware())
	r.Use(middleware.NewLanguageMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger, deps.Collector))
	r.Use(middleware.NewRecoveryMiddleware())

	commentHandler := NewCommentHandler(deps.CommentService, deps.Resolver, deps.Logger)
	reactionHandler := NewReactionHandler(deps.ReactionService, deps.Logger)
	engagementHandler := NewEngagementHandler(deps.EngagementService, deps.Resolver, deps.Logger)
	catalogHandler := NewCatalogHandler(deps.CatalogService, deps.EngagementService, deps.CommentService, deps.CookieSettings, deps.Logger)
	adminHandler := NewAdminHandler(deps.ModerationService, deps.Purger, deps.Resolver, deps.Logger)

	// infrastructure endpoints, unthrottled
	r.Get("/healthz", healthHandler(deps.DB))
	r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)

	// public API
	r.Group(func(r chi.Router) {
		r.Use(deps.RateLimiter.GeneralMiddleware())

		r.Get("/api/home", catalogHandler.Home)
		r.Get("/api/stories", catalogHandler.ListStories)
		r.Get("/api/stories/{id}", catalogHandler.GetStory)
		r.Get("/api/episodes", catalogHandler.ListEpisodes)
		r.Get("/api/episodes/{id}", catalogHandler.GetEpisode)
		r.Get("/api/shorts", catalogHandler.ListShortStories)
		r.Get("/api/shorts/{id}", catalogHandler.GetShortStory)
		r.Get("/api/categories", catalogHandler.ListCategories)
		r.Post("/api/language/toggle", catalogHandler.ToggleLanguage)

		r.Get("/api/comments", commentHandler.ListComments)
		r.Get("/api/engagement", engagementHandler.GetEngagement)

		// submission endpoints carry the tighter rate limit on top
		r.With(deps.RateLimiter.SubmissionMiddleware()).Post("/api/comments/add", commentHandler.AddComment)
		r.With(deps.RateLimiter.SubmissionMiddleware()).Post("/api/reactions/add", reactionHandler.AddReaction)
	})

	// moderation API
	r.Group(func(r chi.Router) {
		r.Use(deps.RateLimiter.GeneralMiddleware())
		r.Use(middleware.NewAdminAuthMiddleware(deps.AdminToken))

		r.Route("/api/admin", func(r chi.Router) {
			r.Get("/comments", adminHandler.ListComments)
			r.Put("/comments/{id}/approval", adminHandler.SetApproval)
			r.Put("/comments/{id}/featured", adminHandler.SetFeatured)
			r.Delete("/comments/{id}", adminHandler.DeleteComment)
			r.Delete("/targets/{kind}/{id}/attachments", adminHandler.PurgeTarget)
		})
	})

	return r
}

// healthHandler answers liveness probes, reporting storage
// reachability.
func healthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				middleware.WriteJSON(w, http.StatusServiceUnavailable, map[string]any{
					"status": "unhealthy",
				})
				return
			}
		}
		middleware.WriteJSON(w, http.StatusOK, map[string]any{
			"status": "ok",
		})
	}
}
