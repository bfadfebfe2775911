package api

import (
	"net/http"
	"time"

	"github.com/dom/spark/internal/api/handlers"
	"github.com/dom/spark/internal/api/middleware"
	"github.com/dom/spark/internal/api/response"
	"github.com/dom/spark/internal/config"
	"github.com/dom/spark/internal/service"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

func NewRouter(services *service.Services, cfg *config.Config, log *logrus.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotFound, response.CodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	})

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Auth, services.Profile, log)
	profileHandler := handlers.NewProfileHandler(services.Profile, services.Media, log)
	feedHandler := handlers.NewFeedHandler(services.Feed, log)
	swipeHandler := handlers.NewSwipeHandler(services.Swipe, log)
	matchHandler := handlers.NewMatchHandler(services.Match, log)
	chatHandler := handlers.NewChatHandler(services.Chat, log)

	requireAuth := middleware.Auth(services.Auth, log)

	r.Route("/auth", func(r chi.Router) {
		// Public auth routes
		r.Group(func(r chi.Router) {
			r.Use(httprate.LimitByIP(cfg.AuthRateLimitPerMinute, time.Minute))
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
		})

		// Protected auth routes
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Get("/user", authHandler.Me)
			r.Put("/update-profile", profileHandler.UpdateProfile)
			r.Get("/liked-by", profileHandler.LikedBy)
			r.Post("/upload-profile-image", profileHandler.UploadImage)

			r.Get("/all-users", feedHandler.AllUsers)
			r.Get("/spinner-users", feedHandler.SpinnerUsers)

			r.Post("/swipe", swipeHandler.Swipe)
			r.Post("/spinwin", swipeHandler.SpinWin)

			r.Get("/matches", matchHandler.List)
			r.Put("/pin-match", matchHandler.TogglePin)
			r.Post("/connect-user", chatHandler.Start)
		})
	})

	r.Route("/chat", func(r chi.Router) {
		r.Use(requireAuth)

		r.Get("/", chatHandler.List)
		r.Post("/start", chatHandler.Start)
		r.Get("/messages/{chatId}", chatHandler.Messages)
		r.Post("/{chatId}/message", chatHandler.PostMessage)
	})

	return r
}
