package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/clientbook/internal/infra/http/handlers"
	"github.com/xavierca1/clientbook/internal/infra/http/middleware"
)

type routes struct {
	auth     *handlers.AuthHandler
	clients  *handlers.ClientHandler
	messages *handlers.MessageHandler
	scripts  *handlers.ScriptHandler
	health   *handlers.HealthHandler
	verifier middleware.TokenVerifier
	origins  []string
}

func newRouter(rt routes) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: rt.origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
	}))

	r.Get("/health", rt.health.Handle)
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/auth/login", rt.auth.Login)

	r.Route("/clients", func(r chi.Router) {
		r.Use(middleware.RequireSession(rt.verifier))
		r.Use(middleware.AuditMutations)

		r.Get("/", rt.clients.List)
		r.Post("/", rt.clients.Create)
		r.Get("/export", rt.clients.Export)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", rt.clients.Get)
			r.Patch("/", rt.clients.Update)
			r.Delete("/", rt.clients.Delete)
			r.Put("/status", rt.clients.SetStatus)
			r.Post("/payments", rt.clients.AddPayment)
			r.Get("/messages/{channel}", rt.messages.List)
			r.Post("/messages/{channel}/send", rt.messages.Send)
		})
	})

	r.Route("/scripts", func(r chi.Router) {
		r.Use(middleware.RequireSession(rt.verifier))
		r.Use(middleware.AuditMutations)

		r.Get("/", rt.scripts.List)
		r.Post("/", rt.scripts.Create)
		r.Get("/{id}", rt.scripts.Get)
		r.Put("/{id}", rt.scripts.Update)
		r.Delete("/{id}", rt.scripts.Delete)
	})

	return r
}
