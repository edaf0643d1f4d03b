package wire

import (
	"net/http"

	"cinema-kiosk/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireTicket(r chi.Router, ticketHandler *adaptor.TicketHandler, admin func(http.Handler) http.Handler) {
	// ==================== KIOSK / WEBSITE ROUTES ====================
	r.Post("/api/tickets", ticketHandler.CreateTicket)
	r.Post("/api/tickets/verify", ticketHandler.VerifyTicket)
	r.Get("/api/tickets/{id}", ticketHandler.GetTicket)
	r.Get("/api/tickets/{id}/qr", ticketHandler.GetTicketQR)

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/tickets", func(r chi.Router) {
		r.Use(admin)

		r.Get("/", ticketHandler.GetTickets)                      // GET /api/admin/tickets
		r.Put("/{id}/payment", ticketHandler.UpdatePaymentStatus) // PUT /api/admin/tickets/{id}/payment
	})
}
