package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { writeMessage(w, http.StatusOK, "ok") })
	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) { writeMessage(w, http.StatusOK, "ready") })

	// Public referral landing link shared by affiliates.
	r.Get("/r/{code}", handler.trackClick)

	r.Route("/v1", func(r chi.Router) {
		// Checkout quoting and settings reads are storefront traffic and
		// stay reachable without credentials.
		r.Post("/checkout/quote", handler.quoteOrder)
		r.Get("/settings/cod", handler.getCODSettings)

		r.Route("/affiliate", func(r chi.Router) {
			r.Use(handler.authMiddleware)
			r.Post("/enroll", handler.enroll)
			r.Get("/overview", handler.getOverview)
			r.Get("/commissions", handler.listCommissions)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(handler.authMiddleware)
			r.Put("/settings/cod", handler.updateCODSettings)
			r.Post("/affiliates/{affiliate_id}/commissions", handler.recordCommission)
			r.Post("/commissions/{commission_id}/approve", handler.approveCommission)
			r.Post("/commissions/{commission_id}/pay", handler.payCommission)
		})
	})
	return r
}
