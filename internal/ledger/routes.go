package ledger

import (
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers dues routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/dues", h.List)
	r.Post("/dues", h.Create)
	r.Get("/dues/statement", h.Statement)
	r.Get("/dues/last-balance", h.LastBalance)
	r.Get("/dues/khatas", h.Khatas)
	r.Put("/dues/rename-khata", h.RenameKhata)
	r.Get("/dues/{id}", h.Show)
	r.Put("/dues/{id}", h.Update)
	r.Delete("/dues/{id}", h.Delete)
}
