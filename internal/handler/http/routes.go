package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// InitRoutes builds the API router.
//
//	POST   /auth/login    public
//	GET    /auth/me       authenticated
//	GET    /vms           authenticated
//	POST   /vms           administrator
//	PUT    /vms/{id}      administrator
//	DELETE /vms/{id}      administrator
//	GET    /ws            token via query parameter
func (h *Handler) InitRoutes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.loggingMiddleware)

	router.Post("/auth/login", h.login)
	router.Get("/ws", h.ws)

	router.Group(func(r chi.Router) {
		r.Use(h.authMiddleware)

		r.Get("/auth/me", h.me)
		r.Get("/vms", h.listVMs)

		r.Group(func(r chi.Router) {
			r.Use(h.requireAdmin)

			r.Post("/vms", h.createVM)
			r.Put("/vms/{id}", h.updateVM)
			r.Delete("/vms/{id}", h.deleteVM)
		})
	})

	return router
}
