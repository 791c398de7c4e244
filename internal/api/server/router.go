// Package server exposes the assistant over a small JSON API.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"

	"github.com/omarshaarawi/fcbot/internal/config"
	"github.com/omarshaarawi/fcbot/internal/service"
)

func NewRouter(assistant *service.AssistantService, videos service.VideoSearcher, cfg config.Server) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	h := NewHandler(assistant, videos)

	r.Get("/health", h.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/videos", h.Videos)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", h.CreateSession)
			r.Delete("/{id}", h.DeleteSession)
			r.Get("/{id}/options", h.Options)
			r.Post("/{id}/ask", h.Ask)
			r.Post("/{id}/stats", h.Stats)
			r.Put("/{id}/policy", h.SetPolicy)
		})
	})

	return r
}

func NewServer(cfg config.Server, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
