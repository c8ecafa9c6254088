package router

import (
	"net/http"

	"citadelle-cards-api/internal/handler"
	"citadelle-cards-api/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// Config holds the configuration for creating a router.
type Config struct {
	Handler         *handler.Handler
	AuthHandler     *handler.AuthHandler
	CardsHandler    *handler.CardsHandler
	ExchangeHandler *handler.ExchangeHandler
	ImageHandler    *handler.ImageHandler
	AdminHandler    *handler.AdminHandler
	AuthMiddleware  func(http.Handler) http.Handler
	AdminMiddleware func(http.Handler) http.Handler
}

// New creates and configures the HTTP router.
func New(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware stack (applies to ALL routes). RequestID runs
	// first so Recovery and Logging can tag their lines with it.
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "X-Token", "X-Login-Key"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// PUBLIC routes (no auth required)
	if cfg.Handler != nil {
		r.Get("/api/status", cfg.Handler.Status)
	}

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.Handler != nil {
			r.Get("/health", cfg.Handler.Health)
			r.Get("/ready", cfg.Handler.Ready)
		}

		if cfg.AuthHandler != nil {
			r.Route("/auth", func(r chi.Router) {
				r.Get("/login", cfg.AuthHandler.Login)
				r.Get("/callback", cfg.AuthHandler.Callback)
			})
		}

		if cfg.CardsHandler != nil {
			r.Get("/ranking", cfg.CardsHandler.Ranking)
		}

		if cfg.ImageHandler != nil {
			r.Get("/cards/image/*", cfg.ImageHandler.Serve)
		}

		// AUTHENTICATED routes
		r.Group(func(r chi.Router) {
			if cfg.AuthMiddleware != nil {
				r.Use(cfg.AuthMiddleware)
			}

			if cfg.AuthHandler != nil {
				r.Post("/auth/logout", cfg.AuthHandler.Logout)
			}

			if cfg.CardsHandler != nil {
				r.Post("/draw", cfg.CardsHandler.Draw)
				r.Get("/inventory", cfg.CardsHandler.Inventory)
				r.Get("/sacrifice", cfg.CardsHandler.SacrificePreview)
				r.Post("/sacrifice", cfg.CardsHandler.SacrificeConfirm)
			}

			if cfg.ExchangeHandler != nil {
				r.Route("/exchange", func(r chi.Router) {
					r.Get("/", cfg.ExchangeHandler.Board)
					r.Post("/deposit", cfg.ExchangeHandler.Deposit)
					r.Post("/take/{offer_id}", cfg.ExchangeHandler.Take)
				})
			}
		})

		// ADMIN routes (login key, not session)
		if cfg.AdminHandler != nil {
			r.Route("/admin", func(r chi.Router) {
				if cfg.AdminMiddleware != nil {
					r.Use(cfg.AdminMiddleware)
				}
				r.Post("/reload", cfg.AdminHandler.ReloadCatalog)
				r.Get("/stats", cfg.AdminHandler.GetStats)
			})
		}
	})

	return r
}
