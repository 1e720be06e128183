// Copyright (c) 2026 Komsos Paroki Digital Team
// All rights reserved. See LICENSE for details.

// Package router wires the HTTP surface: the public JSON API, the
// authenticated admin API, and the middleware chains around them.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"parokicms/internal/handlers"
	"parokicms/internal/middleware"
	"parokicms/internal/session"
)

// Handlers bundles the handler groups the router mounts.
type Handlers struct {
	Public  *handlers.Public
	Admin   *handlers.Admin
	Auth    *handlers.Auth
	Media   *handlers.Media
	Contact *handlers.Contact
}

// New builds the chi router. The login and contact endpoints sit behind
// an IP rate limiter because they are the only unauthenticated writes.
// The secure flag marks auth cookies HTTPS-only and must match the
// session store's setting.
func New(sessions *session.Store, secure bool, h Handlers) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	r.Get("/health", healthHandler)

	limiter := middleware.NewRateLimiter(20, time.Minute)

	r.Route("/api", func(r chi.Router) {
		// Public reads, served through the page cache.
		r.Get("/posts", h.Public.ListPosts)
		r.Get("/posts/{slug}", h.Public.GetPost)
		r.Get("/categories/{domain}", h.Public.Categories)
		r.Get("/umkm", h.Public.Directory)
		r.Get("/jadwal", h.Public.Events)
		r.Get("/statistik", h.Public.Statistics)
		r.Get("/images/{name}", h.Public.Image)

		r.With(limiter.Middleware).Post("/contact", h.Contact.Submit)

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.LoadSession(sessions))
			r.Use(middleware.CSRF(secure))

			r.With(limiter.Middleware).Post("/login", h.Auth.Login)

			// Logged in, second factor possibly pending.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Post("/2fa/verify", h.Auth.TOTPVerify)
				r.Get("/2fa/setup", h.Auth.TOTPSetup)
				r.Post("/logout", h.Auth.Logout)
			})

			// Fully authenticated admin area.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Use(middleware.Require2FA)
				r.Use(middleware.RequireAdmin)

				r.Get("/me", h.Auth.Me)

				r.Route("/posts", func(r chi.Router) {
					r.Get("/", h.Admin.ListPosts)
					r.Post("/", h.Admin.CreatePost)
					r.Get("/{slug}", h.Admin.GetPost)
					r.Put("/{slug}", h.Admin.UpdatePost)
					r.Delete("/{slug}", h.Admin.DeletePost)
				})

				r.Route("/categories/{domain}", func(r chi.Router) {
					r.Post("/", h.Admin.AddCategory)
					r.Put("/", h.Admin.RenameCategory)
					r.Delete("/", h.Admin.RemoveCategory)
				})

				r.Route("/umkm", func(r chi.Router) {
					r.Post("/", h.Admin.CreateDirectoryEntry)
					r.Put("/{id}", h.Admin.UpdateDirectoryEntry)
					r.Delete("/{id}", h.Admin.DeleteDirectoryEntry)
				})

				r.Route("/jadwal", func(r chi.Router) {
					r.Post("/", h.Admin.CreateEvent)
					r.Put("/{id}", h.Admin.UpdateEvent)
					r.Delete("/{id}", h.Admin.DeleteEvent)
				})

				r.Put("/statistik", h.Admin.SaveStatistics)

				r.Route("/media", func(r chi.Router) {
					r.Get("/", h.Media.List)
					r.Post("/", h.Media.Upload)
					r.Delete("/{name}", h.Media.Delete)
				})

				r.Get("/access/{username}", h.Admin.CheckAccess)
				r.Post("/cache/clear", h.Admin.FlushCache)
			})
		})
	})

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
