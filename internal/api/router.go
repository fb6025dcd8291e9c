package api

import (
	"database/sql"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mwhitt/warbler-be/internal/api/handlers"
	"github.com/mwhitt/warbler-be/internal/services"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(db *sql.DB, userService services.UserServiceProvider, tweetService services.TweetServiceProvider) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration for development
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:8080"}, // Adjust for your frontend URL
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService)
	tweetHandler := handlers.NewTweetHandler(tweetService)
	healthHandler := handlers.NewHealthHandler(db)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.Get)
		r.Post("/login", userHandler.Login)

		r.Route("/users", func(r chi.Router) {
			r.Post("/", userHandler.Register)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", userHandler.Get)
				r.Get("/tweets", tweetHandler.GetFeed)
				r.Post("/tweets", tweetHandler.Post)
			})
		})

		r.Route("/tweets", func(r chi.Router) {
			r.Get("/search", tweetHandler.Search)
			r.Get("/hash/{hashtag}", tweetHandler.Hashtag)
		})
	})

	return r
}
