// Package router wires the HTTP routes and middleware chain for the
// Glinda API server.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"glinda/internal/handlers"
	"glinda/internal/middleware"
	"glinda/internal/session"
)

// Deps carries everything the router needs to build the handler tree.
type Deps struct {
	Public       *handlers.Public
	Auth         *handlers.Auth
	Admin        *handlers.Admin
	AdminSitemap *handlers.AdminSitemap
	Sessions     *session.Store
	LoginLimiter *middleware.RateLimiter
}

// New builds the chi router with the full middleware chain and all routes.
func New(d Deps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.Metrics)
	r.Use(middleware.LoadSession(d.Sessions))

	r.Get("/health", d.Public.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Get("/sitemap.xml", d.Public.Sitemap)

	// Public read API consumed by the SPA and the static site build.
	r.Route("/api", func(r chi.Router) {
		r.Get("/categories", d.Public.Categories)
		r.Get("/search", d.Public.Search)
		r.Get("/routes", d.Public.Routes)
		r.Get("/content/{seg}", d.Public.ContentDetail)
		// Pretty category routes; chi prefers the static /content prefix
		// above, so this never shadows it.
		r.Get("/{category}/{seg}", d.Public.ContentDetail)
	})

	// Admin API: session cookie + CSRF, then auth tiers.
	r.Route("/admin/api", func(r chi.Router) {
		r.Use(middleware.CSRF)

		r.With(d.LoginLimiter.Middleware).Post("/login", d.Auth.Login)
		r.Post("/logout", d.Auth.Logout)

		// Logged in, 2FA possibly pending.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Get("/me", d.Auth.Me)
			r.Post("/2fa/setup", d.Auth.TwoFASetup)
			r.Post("/2fa/verify", d.Auth.TwoFAVerify)
		})

		// Fully authenticated.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.Require2FA)

			r.Get("/content", d.Admin.ContentList)
			r.Post("/content", d.Admin.ContentCreate)
			r.Put("/content/{id}", d.Admin.ContentUpdate)
			r.Delete("/content/{id}", d.Admin.ContentDelete)

			r.Get("/categories", d.Admin.CategoryList)

			r.Get("/sitemap", d.AdminSitemap.Preview)
			r.Get("/sitemap/download", d.AdminSitemap.Download)
			r.Get("/sitemap/publishes", d.AdminSitemap.PublishLog)
			r.Get("/routes", d.AdminSitemap.RoutesPreview)

			// Admin role only: category management and publishing.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)

				r.Post("/categories", d.Admin.CategoryCreate)
				r.Put("/categories/{id}", d.Admin.CategoryUpdate)
				r.Delete("/categories/{id}", d.Admin.CategoryDelete)

				r.Post("/sitemap/publish", d.AdminSitemap.Publish)
			})
		})
	})

	return r
}

// DefaultLoginLimiter returns the rate limiter applied to the login
// endpoint: 10 attempts per IP per 15 minutes.
func DefaultLoginLimiter() *middleware.RateLimiter {
	return middleware.NewRateLimiter(10, 15*time.Minute)
}
