package purchases

import (
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers buyer product routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/buyer-products", h.List)
	r.Post("/buyer-products", h.Create)
	r.Get("/buyer-products/{id}", h.Show)
	r.Put("/buyer-products/{id}", h.Update)
	r.Delete("/buyer-products/{id}", h.Delete)
}
