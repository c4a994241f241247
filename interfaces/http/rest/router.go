package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"memoryvault/application/store"
	"memoryvault/infrastructure/config"
	"memoryvault/interfaces/http/rest/handlers"
	"memoryvault/interfaces/http/rest/middleware"
	"memoryvault/pkg/auth"
	"memoryvault/pkg/common"
	"memoryvault/pkg/observability"
)

// Router creates and configures the HTTP router
type Router struct {
	memories *store.MemoryStore
	sessions *store.SessionStore
	tokens   *auth.TokenManager
	metrics  *observability.Metrics
	cfg      *config.Config
	logger   *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	memories *store.MemoryStore,
	sessions *store.SessionStore,
	tokens *auth.TokenManager,
	metrics *observability.Metrics,
	cfg *config.Config,
	logger *zap.Logger,
) *Router {
	return &Router{
		memories: memories,
		sessions: sessions,
		tokens:   tokens,
		metrics:  metrics,
		cfg:      cfg,
		logger:   logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))
	router.Use(middleware.Metrics(rt.metrics))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/health", rt.healthCheck)
	router.Method(http.MethodGet, "/metrics", rt.metrics.Handler())

	authHandler := handlers.NewAuthHandler(rt.sessions, rt.memories, rt.tokens, rt.logger)
	memoryHandler := handlers.NewMemoryHandler(rt.memories, rt.logger)
	userHandler := handlers.NewUserHandler(rt.memories, rt.logger)
	adminHandler := handlers.NewAdminHandler(rt.memories, rt.logger)

	router.Route("/api/v1", func(r chi.Router) {
		// Public endpoints
		r.Post("/auth/signin", authHandler.SignIn)
		r.Post("/auth/register", authHandler.Register)
		r.With(middleware.OptionalAuthenticate(rt.tokens)).
			Get("/memories/public", memoryHandler.ListPublicMemories)

		// Authenticated endpoints
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(rt.tokens))

			r.Post("/auth/signout", authHandler.SignOut)
			r.Get("/auth/me", authHandler.Me)

			r.Route("/memories", func(r chi.Router) {
				r.Get("/", memoryHandler.ListMemories)
				r.Post("/", memoryHandler.CreateMemory)
				r.Get("/{memoryID}", memoryHandler.GetMemory)
				r.Put("/{memoryID}", memoryHandler.UpdateMemory)
				r.Delete("/{memoryID}", memoryHandler.DeleteMemory)
				r.Post("/{memoryID}/like", memoryHandler.LikeMemory)
				r.Post("/{memoryID}/comments", memoryHandler.AddComment)
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/", userHandler.ListUsers)
				r.Get("/{userID}", userHandler.GetUser)
				r.Post("/{userID}/follow", userHandler.FollowUser)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireAdmin())
				r.Get("/stats", adminHandler.Stats)
			})
		})
	})

	return router
}

func (rt *Router) healthCheck(w http.ResponseWriter, _ *http.Request) {
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
