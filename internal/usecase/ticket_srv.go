package usecase

import (
	"context"
	"errors"
	"fmt"

	"cinema-kiosk/internal/data/repository"
	"cinema-kiosk/internal/dto/request"
	"cinema-kiosk/internal/dto/response"
	"cinema-kiosk/pkg/ticketqr"

	"go.uber.org/zap"
)

type TicketService interface {
	ListTickets(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.TicketResponse], error)
	GetTicket(ctx context.Context, id int64) (*response.TicketResponse, error)
	TicketQR(ctx context.Context, id int64) ([]byte, error)

	// VerifyQR opens a scanned ticket code and returns the ticket it refers to.
	VerifyQR(ctx context.Context, token string) (*response.TicketResponse, error)
}

type ticketService struct {
	repo *repository.Repository
	qr   *ticketqr.Generator
	log  *zap.Logger
}

func NewTicketService(repo *repository.Repository, qr *ticketqr.Generator, log *zap.Logger) TicketService {
	return &ticketService{
		repo: repo,
		qr:   qr,
		log:  log.With(zap.String("service", "ticket")),
	}
}

func (s *ticketService) ListTickets(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.TicketResponse], error) {
	reservations, err := s.repo.Ticket.FindAllReservations(ctx, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}

	total, err := s.repo.Ticket.CountReservations(ctx)
	if err != nil {
		return nil, fmt.Errorf("count tickets: %w", err)
	}

	tickets := make([]response.TicketResponse, len(reservations))
	for i, res := range reservations {
		tickets[i] = response.ReservationToResponse(res)
	}

	s.log.Debug("Tickets retrieved",
		zap.Int("count", len(tickets)),
		zap.Int64("total", total),
		zap.Int("page", req.Page),
	)

	return response.NewPaginatedResponse(tickets, req.Page, req.Limit(), total), nil
}

func (s *ticketService) GetTicket(ctx context.Context, id int64) (*response.TicketResponse, error) {
	res, err := s.repo.Ticket.FindReservation(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	if res == nil {
		return nil, notFound("ticket %d", id)
	}

	resp := response.ReservationToResponse(res)
	return &resp, nil
}

func (s *ticketService) TicketQR(ctx context.Context, id int64) ([]byte, error) {
	if s.qr == nil {
		return nil, errors.New("qr generator not configured")
	}

	res, err := s.repo.Ticket.FindReservation(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	if res == nil {
		return nil, notFound("ticket %d", id)
	}

	timeslot := ""
	movie, err := s.repo.Movie.FindByID(ctx, res.Ticket.MovieID)
	if err != nil {
		s.log.Warn("Failed to load movie for QR", zap.Error(err), zap.Int64("ticket_id", id))
	} else if movie != nil {
		timeslot = movie.Timeslot
	}

	png, err := s.qr.PNG(ticketqr.Payload{
		TicketID:   res.Ticket.ID,
		MovieSlug:  res.MovieSlug,
		DayOfWeek:  res.Ticket.DayOfWeek,
		WeekNumber: res.Ticket.WeekNumber,
		Timeslot:   timeslot,
		Seats:      res.Seats,
		Status:     string(res.Payment.Status),
	})
	if err != nil {
		s.log.Error("Failed to render ticket QR", zap.Error(err), zap.Int64("ticket_id", id))
		return nil, fmt.Errorf("render qr: %w", err)
	}
	return png, nil
}

func (s *ticketService) VerifyQR(ctx context.Context, token string) (*response.TicketResponse, error) {
	if s.qr == nil {
		return nil, errors.New("qr generator not configured")
	}

	payload, err := s.qr.Open(token)
	if err != nil {
		s.log.Warn("Rejected ticket code", zap.Error(err))
		return nil, invalidField("token", "Not a valid ticket code")
	}

	return s.GetTicket(ctx, payload.TicketID)
}
