// Package rest wires the HTTP surface: routing, middleware, CORS.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"ideavine-backend/application/services"
	"ideavine-backend/interfaces/http/rest/handlers"
	"ideavine-backend/interfaces/http/rest/middleware"
	"ideavine-backend/pkg/common"
)

// Router creates and configures the HTTP router
type Router struct {
	users      *services.UserService
	mindmaps   *services.MindMapService
	ideas      *services.IdeaService
	enableCORS bool
	logger     *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	users *services.UserService,
	mindmaps *services.MindMapService,
	ideas *services.IdeaService,
	enableCORS bool,
	logger *zap.Logger,
) *Router {
	return &Router{
		users:      users,
		mindmaps:   mindmaps,
		ideas:      ideas,
		enableCORS: enableCORS,
		logger:     logger,
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

	if rt.enableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
	}

	// Health checks
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	userHandler := handlers.NewUserHandler(rt.users, rt.logger)
	mindmapHandler := handlers.NewMindMapHandler(rt.mindmaps, rt.logger)
	ideaHandler := handlers.NewIdeaHandler(rt.ideas, rt.logger)

	router.Route("/users", func(r chi.Router) {
		r.Post("/", userHandler.Create)
		r.Post("/lookup", userHandler.Lookup)
		r.Delete("/{email}", userHandler.Delete)
		r.Get("/{userID}/mindmaps", mindmapHandler.ListByUser)
	})

	router.Route("/mindmaps", func(r chi.Router) {
		r.Post("/", mindmapHandler.Create)
		r.Put("/{mindmapID}", mindmapHandler.Update)
		r.Delete("/{mindmapID}", mindmapHandler.Delete)
		r.Get("/{mindmapID}/nodes", mindmapHandler.ListNodes)
	})

	router.Post("/process_audio", ideaHandler.ProcessAudio)
	router.Post("/synthesize", ideaHandler.Synthesize)
	router.Post("/write", ideaHandler.Write)

	return router
}

func (rt *Router) healthCheck(w http.ResponseWriter, _ *http.Request) {
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (rt *Router) readinessCheck(w http.ResponseWriter, _ *http.Request) {
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
