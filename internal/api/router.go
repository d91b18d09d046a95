package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/precisionhealth/skinsight-be/internal/api/handlers"
	"github.com/precisionhealth/skinsight-be/internal/auth"
	"github.com/precisionhealth/skinsight-be/internal/services"
	"github.com/precisionhealth/skinsight-be/internal/websocket"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	codec *auth.TokenCodec,
	hub *websocket.Hub,
	userService services.UserServiceProvider,
	analysisService services.AnalysisServiceProvider,
	eventService services.EventServiceProvider,
	corsOrigins []string,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService, eventService)
	analysisHandler := handlers.NewAnalysisHandler(analysisService, eventService)
	eventHandler := handlers.NewEventHandler(eventService)
	healthHandler := handlers.NewHealthHandler("Precision Health AI API", "1.0.0")
	wsHandler := handlers.NewWebSocketHandler(hub)

	requireToken := codec.Middleware()

	r.Get("/", healthHandler.Root)
	r.Get("/health", healthHandler.Health)

	// Credential lifecycle, path-compatible with the legacy frontends.
	r.Post("/token", userHandler.Login)
	r.Post("/signup", userHandler.Signup)
	r.With(requireToken).Get("/users/me", userHandler.GetMe)

	// Current analysis contract (structured array) and chat.
	r.Route("/api", func(r chi.Router) {
		r.Use(requireToken)
		r.Post("/analyze", analysisHandler.Analyze)
		r.Post("/chat", analysisHandler.Chat)

		// Versioned endpoints: the legacy raw analysis shape, events, feed.
		r.Route("/v1", func(r chi.Router) {
			r.Post("/analyze", analysisHandler.AnalyzeLegacy)
			r.Get("/events", eventHandler.GetRecent)
			r.Get("/ws", wsHandler.Serve)
		})
	})

	return r
}
