// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/danielhkuo/vocal-royale/cliparse"
	"github.com/danielhkuo/vocal-royale/handlers"
	"github.com/danielhkuo/vocal-royale/middleware"
	"github.com/danielhkuo/vocal-royale/models"
	"github.com/danielhkuo/vocal-royale/store"
)

func NewRouter(st *store.Store, cfg cliparse.Config, rng handlers.Rng) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.CORS)
	r.Use(middleware.WithLogging)

	// Initialize handlers
	sessionHandler := handlers.NewSessionHandler(st, cfg)
	adminHandler := handlers.NewAdminHandler(st, cfg, rng)
	ratingHandler := handlers.NewRatingHandler(st, cfg)
	resultsHandler := handlers.NewResultsHandler(st, cfg)
	songHandler := handlers.NewSongHandler(st, cfg)
	settingsHandler := handlers.NewSettingsHandler(st, cfg)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Root endpoint
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		middleware.JSONResponse(w, http.StatusOK, map[string]string{
			"service": "vocal-royale",
			"version": "v1",
		})
	})

	// Session management (public)
	r.Post("/auth/register", sessionHandler.Register)
	r.Post("/auth/login", sessionHandler.Login)
	r.Post("/auth/logout", sessionHandler.Logout)

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireUser(st))

		r.Get("/auth/me", sessionHandler.Me)

		// Song choices and check-in
		r.Get("/songs", songHandler.List)
		r.Post("/songs", songHandler.Upsert)
		r.Post("/checkin", songHandler.CheckIn)

		// Rating screen
		r.Get("/rating/state", ratingHandler.State)
		r.Post("/rating/api", ratingHandler.Submit)

		// Results screen
		r.Get("/results/state", resultsHandler.State)

		// Admin operations
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(models.RoleAdmin))

			r.Get("/admin/api", adminHandler.GetState)
			r.Post("/admin/api", adminHandler.Action)
			r.Get("/admin/settings", settingsHandler.Get)
			r.Put("/admin/settings", settingsHandler.Update)
		})
	})

	return r
}
