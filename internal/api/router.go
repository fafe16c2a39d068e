package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/SwapnilSonker/bookstore-backend/internal/api/handlers"
	"github.com/SwapnilSonker/bookstore-backend/internal/auth"
	"github.com/SwapnilSonker/bookstore-backend/internal/imagestore"
	"github.com/SwapnilSonker/bookstore-backend/internal/metrics"
	"github.com/SwapnilSonker/bookstore-backend/internal/services"
	"github.com/SwapnilSonker/bookstore-backend/internal/websocket"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	hub *websocket.Hub,
	userService services.UserServiceProvider,
	bookService services.BookServiceProvider,
	images *imagestore.Store,
	registry *prometheus.Registry,
	maxUpload int64,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	collector := metrics.NewCollector(registry)
	r.Use(collector.Middleware)

	// CORS configuration for development
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"}, // Adjust for your frontend URL
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	bookHandler := handlers.NewBookHandler(bookService, userService, images, maxUpload)
	wsHandler := handlers.NewWebSocketHandler(hub)

	// Auth endpoints get a per-IP limiter to slow credential stuffing.
	authLimiter := newIPRateLimiter(rate.Every(time.Second), 10)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(authLimiter.middleware).Post("/register", authHandler.Register)
			r.With(authLimiter.middleware).Post("/login", authHandler.Login)
			r.With(auth.JWTMiddleware()).Get("/profile", authHandler.Profile)
		})

		r.Route("/books", func(r chi.Router) {
			r.Get("/", bookHandler.GetAll)
			r.Get("/search", bookHandler.Search)
			r.Get("/owner/{ownerId}", bookHandler.GetByOwner)
			r.Get("/{id}", bookHandler.Get)

			r.Group(func(r chi.Router) {
				r.Use(auth.JWTMiddleware())
				r.Post("/", bookHandler.Create)
				r.Put("/{id}", bookHandler.Update)
				r.Delete("/{id}", bookHandler.Delete)
			})
		})

		// Live listing feed
		r.Get("/ws", wsHandler.Serve)
	})

	// Prometheus metrics
	r.Handle("/metrics", metrics.Handler(registry))

	// Stored cover images
	fileServer := http.StripPrefix(imagestore.URLPrefix, http.FileServer(http.Dir(images.Dir())))
	r.Get(imagestore.URLPrefix+"*", fileServer.ServeHTTP)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("Book Exchange API is running"))
	})

	return r
}
