package entity

type Movie struct {
	Base
	Slug            string  `db:"slug"`
	Title           string  `db:"title"`
	Director        string  `db:"director"`
	ReleasedYear    int     `db:"released_year"`
	DurationMinutes int     `db:"duration_minutes"`
	Summary         string  `db:"summary"`
	PosterURL       *string `db:"poster_url"`
	PreviewURL      *string `db:"preview_url"`
	Timeslot        string  `db:"timeslot"` // HH:MM, 24h
	Month           string  `db:"month"`    // lowercase month name
	Week            string  `db:"week"`     // week-1 .. week-4
}
