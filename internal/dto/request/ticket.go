package request

type CreateTicketRequest struct {
	// MovieTitle accepts either the title or the slug.
	MovieTitle     string   `json:"movie_title" validate:"required,max=200"`
	SeatNumbers    []string `json:"seat_numbers" validate:"required,min=1,unique,dive,seat"`
	PaymentAmount  int64    `json:"payment_amount" validate:"min=0"`
	PaymentStatus  string   `json:"payment_status" validate:"omitempty,oneof=pending paid"`
	Platform       string   `json:"platform" validate:"required,oneof=kiosk website"`
	IdempotencyKey string   `json:"idempotency_key,omitempty" validate:"omitempty,max=64"`
}

type UpdatePaymentStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type VerifyTicketRequest struct {
	Token string `json:"token" validate:"required"`
}

type SeatStatusQuery struct {
	MovieID    string `json:"movie_id" validate:"required"`
	DayOfWeek  string `json:"day_of_week"`
	WeekNumber string `json:"week_number"`
}
