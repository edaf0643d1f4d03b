package response

import (
	"cinema-kiosk/internal/data/entity"
	"time"
)

type PaymentResponse struct {
	ID        string    `json:"id"`
	TicketID  int64     `json:"ticket_id"`
	Amount    int64     `json:"amount"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type TicketMovie struct {
	ID    string `json:"id"`
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

type TicketResponse struct {
	ID          int64           `json:"id"`
	Movie       TicketMovie     `json:"movie"`
	Platform    string          `json:"platform"`
	DayOfWeek   string          `json:"day_of_week"`
	WeekNumber  string          `json:"week_number"`
	SeatNumbers []string        `json:"seat_numbers"`
	Payment     PaymentResponse `json:"payment"`
	CreatedAt   time.Time       `json:"created_at"`
}

func PaymentToResponse(p *entity.Payment) PaymentResponse {
	return PaymentResponse{
		ID:        p.ID.String(),
		TicketID:  p.TicketID,
		Amount:    p.Amount,
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func ReservationToResponse(res *entity.Reservation) TicketResponse {
	return TicketResponse{
		ID: res.Ticket.ID,
		Movie: TicketMovie{
			ID:    res.Ticket.MovieID.String(),
			Slug:  res.MovieSlug,
			Title: res.MovieTitle,
		},
		Platform:    string(res.Ticket.Platform),
		DayOfWeek:   res.Ticket.DayOfWeek,
		WeekNumber:  res.Ticket.WeekNumber,
		SeatNumbers: res.Seats,
		Payment:     PaymentToResponse(&res.Payment),
		CreatedAt:   res.Ticket.CreatedAt,
	}
}
