package response

import "time"

type SalesBucket struct {
	Label   string `json:"label"`
	Tickets int64  `json:"tickets"`
	Seats   int64  `json:"seats"`
	Revenue int64  `json:"revenue"`
}

type SalesForecast struct {
	NextWeekRevenue  float64 `json:"next_week_revenue"`
	Regression       float64 `json:"regression"`
	GrowthProjection float64 `json:"growth_projection"`
	Direction        string  `json:"direction"`
	Basis            []int64 `json:"basis"`
}

type SalesReport struct {
	Month       string        `json:"month"`
	CurrentWeek string        `json:"current_week"`
	CurrentDay  string        `json:"current_day"`
	Daily       []SalesBucket `json:"daily"`
	Weekly      []SalesBucket `json:"weekly"`
	Total       SalesBucket   `json:"total"`
	Forecast    SalesForecast `json:"forecast"`
	GeneratedAt time.Time     `json:"generated_at"`
}
