package http

import (
	"net/http"
	"time"

	"github.com/fjod/go_cart/storefront/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type RouterConfig struct {
	Carts          CartOperations
	Accounts       AccountOperations
	Identities     IdentityResolver
	Catalog        ProductSearcher
	Metrics        http.Handler
	RequestTimeout time.Duration
	SessionTTL     time.Duration
	Cookies        session.CookieOptions
}

func NewRouter(cfg RouterConfig) chi.Router {
	cartHandler := NewCartHandler(cfg.Carts, cfg.RequestTimeout)
	authHandler := NewAuthHandler(cfg.Accounts, cfg.Cookies, cfg.SessionTTL, cfg.RequestTimeout)
	productHandler := NewProductHandler(cfg.Catalog, cfg.RequestTimeout)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", productHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(SessionMiddleware(cfg.SessionTTL, cfg.Cookies))
			r.Use(IdentityMiddleware(cfg.Identities))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartHandler.GetCart)
				r.Post("/add", cartHandler.AddItem)
				r.Post("/increase", cartHandler.Increase)
				r.Post("/decrease", cartHandler.Decrease)
				r.Post("/remove", cartHandler.Remove)
				r.Post("/checkout", cartHandler.Checkout)
			})

			r.Route("/user", func(r chi.Router) {
				r.Post("/register", authHandler.Register)
				r.Post("/login", authHandler.Login)
				r.Post("/logout", authHandler.Logout)
				r.Get("/me", authHandler.Me)
			})
		})
	})

	return r
}
