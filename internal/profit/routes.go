package profit

import "github.com/go-chi/chi/v5"

func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/profit", func(r chi.Router) {
		r.Get("/daily", h.getDaily)
		r.Post("/daily", h.snapshotDaily)
		r.Get("/daily/records", h.listDaily)
		r.Get("/monthly", h.getMonthly)
		r.Post("/monthly", h.snapshotMonthly)
		r.Get("/monthly/records", h.listMonthly)
	})
	r.Get("/totals/buyer", h.buyerTotals)
	r.Get("/totals/saler", h.salerTotals)
}
