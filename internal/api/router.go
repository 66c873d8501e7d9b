package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/isdelr/recipes-be/internal/api/handlers"
	"github.com/isdelr/recipes-be/internal/auth"
	"github.com/isdelr/recipes-be/internal/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
)

// Dependencies are the services the router dispatches to.
type Dependencies struct {
	Users          services.UserServiceProvider
	Blacklist      services.BlacklistServiceProvider
	Categories     services.CategoryServiceProvider
	Recipes        services.RecipeServiceProvider
	Tokens         *auth.TokenManager
	AllowedOrigins []string
}

// NewRouter creates and configures a new Chi router.
func NewRouter(deps Dependencies) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(deps.Users, deps.Blacklist, deps.Tokens)
	categoryHandler := handlers.NewCategoryHandler(deps.Categories)
	recipeHandler := handlers.NewRecipeHandler(deps.Recipes)
	requireAuth := auth.Middleware(deps.Tokens, deps.Blacklist, deps.Users)

	// API versioning
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Delete("/logout", authHandler.Logout)
				r.Put("/reset_password", authHandler.ResetPassword)
				r.Get("/me", authHandler.GetMe)
				r.Delete("/account", authHandler.DeleteAccount)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", categoryHandler.GetAll)
				r.Post("/", categoryHandler.Create)
				r.Route("/{id:[0-9]+}", func(r chi.Router) {
					r.Get("/", categoryHandler.Get)
					r.Put("/", categoryHandler.Update)
					r.Delete("/", categoryHandler.Delete)
				})
			})

			r.Route("/recipes", func(r chi.Router) {
				r.Get("/", recipeHandler.GetAll)
				r.Route("/{categoryID:[0-9]+}", func(r chi.Router) {
					r.Get("/", recipeHandler.GetByCategory)
					r.Post("/", recipeHandler.Create)
					r.Route("/{recipeID:[0-9]+}", func(r chi.Router) {
						r.Get("/", recipeHandler.Get)
						r.Put("/", recipeHandler.Update)
						r.Delete("/", recipeHandler.Delete)
					})
				})
			})
		})
	})

	r.Get("/api/v2/hello", handlers.Hello)

	return r
}

// requestLogger writes one access log line per request through zerolog.
func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	access := hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	})
	return func(next http.Handler) http.Handler {
		return hlog.NewHandler(logger)(access(next))
	}
}
