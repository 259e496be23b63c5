package sales

import (
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers saler product routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/saler-products", h.List)
	r.Post("/saler-products", h.Create)
	r.Get("/saler-products/{id}", h.Show)
	r.Put("/saler-products/{id}", h.Update)
	r.Delete("/saler-products/{id}", h.Delete)
}
