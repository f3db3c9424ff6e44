package httpapi

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter assembles the HTTP surface. The limiter is optional; passing nil
// disables rate limiting (useful in tests and single-user deployments).
func NewRouter(h *Handler, limiter *RateLimiter) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		if limiter != nil {
			r.Use(limiter.Middleware)
		}
		r.Use(h.withUser)

		r.Post("/auth/guest", h.GuestToken)
		r.Post("/files", h.UploadFile)
		r.Post("/sweep", h.Sweep)

		r.Route("/messages", func(r chi.Router) {
			r.Post("/", h.CreateMessage)
			r.Get("/{publicID}", h.ConsumeMessage)

			r.With(h.requireUser).Get("/", h.ListMessages)
			r.With(h.requireUser).Patch("/{publicID}", h.UpdateMessage)
			r.With(h.requireUser).Delete("/{publicID}", h.DeleteMessage)
			r.With(h.requireUser).Get("/{publicID}/events", h.MessageEvents)
		})
	})

	return r
}
