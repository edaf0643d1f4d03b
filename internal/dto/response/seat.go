package response

// Seat classifications reported to the kiosk.
const (
	SeatAvailable = "available"
	SeatPending   = "pending"
	SeatSold      = "sold"
)

type SeatResponse struct {
	SeatNumber string `json:"seat_number"`
	Status     string `json:"status"`
}

type SeatMapResponse struct {
	MovieID    string         `json:"movie_id"`
	MovieSlug  string         `json:"movie_slug"`
	DayOfWeek  string         `json:"day_of_week"`
	WeekNumber string         `json:"week_number"`
	Total      int            `json:"total"`
	Available  int            `json:"available"`
	Pending    int            `json:"pending"`
	Sold       int            `json:"sold"`
	Seats      []SeatResponse `json:"seats"`
}
