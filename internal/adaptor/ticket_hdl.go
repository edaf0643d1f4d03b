package adaptor

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"cinema-kiosk/internal/dto/request"
	"cinema-kiosk/internal/usecase"
	"cinema-kiosk/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type TicketHandler struct {
	reservation usecase.ReservationService
	ticket      usecase.TicketService
	payment     usecase.PaymentService
	log         *zap.Logger
}

func NewTicketHandler(
	reservation usecase.ReservationService,
	ticket usecase.TicketService,
	payment usecase.PaymentService,
	log *zap.Logger,
) *TicketHandler {
	return &TicketHandler{
		reservation: reservation,
		ticket:      ticket,
		payment:     payment,
		log:         log.With(zap.String("handler", "ticket")),
	}
}

// CreateTicket handles POST /api/tickets
func (h *TicketHandler) CreateTicket(w http.ResponseWriter, r *http.Request) {
	var req request.CreateTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if req.IdempotencyKey == "" {
		req.IdempotencyKey = r.Header.Get("Idempotency-Key")
	}
	for i, seat := range req.SeatNumbers {
		req.SeatNumbers[i] = strings.ToUpper(strings.TrimSpace(seat))
	}
	req.Platform = strings.ToLower(strings.TrimSpace(req.Platform))
	req.PaymentStatus = strings.ToLower(strings.TrimSpace(req.PaymentStatus))

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	ticket, replayed, err := h.reservation.Reserve(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create ticket")
		return
	}

	if replayed {
		utils.ResponseSuccess(w, "Ticket already created", ticket)
		return
	}
	utils.ResponseCreated(w, "Ticket created successfully", ticket)
}

// GetTickets handles GET /api/admin/tickets?page=&per_page=
func (h *TicketHandler) GetTickets(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    parsePositiveInt(query.Get("page"), 1),
		PerPage: parsePositiveInt(query.Get("per_page"), 20),
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	tickets, err := h.ticket.ListTickets(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "get tickets")
		return
	}

	utils.ResponseSuccess(w, "success", tickets)
}

// GetTicket handles GET /api/tickets/{id}
func (h *TicketHandler) GetTicket(w http.ResponseWriter, r *http.Request) {
	id, ok := h.ticketID(w, r)
	if !ok {
		return
	}

	ticket, err := h.ticket.GetTicket(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.log, err, "get ticket")
		return
	}

	utils.ResponseSuccess(w, "Ticket retrieved successfully", ticket)
}

// GetTicketQR handles GET /api/tickets/{id}/qr
func (h *TicketHandler) GetTicketQR(w http.ResponseWriter, r *http.Request) {
	id, ok := h.ticketID(w, r)
	if !ok {
		return
	}

	png, err := h.ticket.TicketQR(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.log, err, "get ticket qr")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// VerifyTicket handles POST /api/tickets/verify
func (h *TicketHandler) VerifyTicket(w http.ResponseWriter, r *http.Request) {
	var req request.VerifyTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	ticket, err := h.ticket.VerifyQR(r.Context(), strings.TrimSpace(req.Token))
	if err != nil {
		handleServiceError(w, h.log, err, "verify ticket")
		return
	}

	utils.ResponseSuccess(w, "Ticket verified", ticket)
}

// UpdatePaymentStatus handles PUT /api/admin/tickets/{id}/payment
func (h *TicketHandler) UpdatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.ticketID(w, r)
	if !ok {
		return
	}

	var req request.UpdatePaymentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	payment, err := h.payment.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		handleServiceError(w, h.log, err, "update payment status")
		return
	}

	utils.ResponseSuccess(w, "Payment status updated", payment)
}

func (h *TicketHandler) ticketID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		utils.ResponseBadRequest(w, "Ticket ID must be a positive number", nil)
		return 0, false
	}
	return id, true
}
