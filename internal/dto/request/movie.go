package request

// MovieRequest is decoded from the multipart create form. Poster and
// preview are set from uploaded files or from plain reference fields.
type MovieRequest struct {
	Title           string  `json:"title" validate:"required,min=1,max=200"`
	Director        string  `json:"director" validate:"required,min=1,max=120"`
	ReleasedYear    int     `json:"released_year" validate:"required,min=1888,max=2100"`
	DurationMinutes int     `json:"duration_minutes" validate:"required,min=1,max=999"`
	Summary         string  `json:"summary" validate:"max=5000"`
	Timeslot        string  `json:"timeslot" validate:"required"`
	Month           string  `json:"month" validate:"required"`
	Week            string  `json:"week" validate:"required"`
	PosterURL       *string `json:"poster,omitempty"`
	PreviewURL      *string `json:"preview,omitempty"`
}

type MovieUpdateRequest struct {
	Title           *string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Director        *string `json:"director,omitempty" validate:"omitempty,min=1,max=120"`
	ReleasedYear    *int    `json:"released_year,omitempty" validate:"omitempty,min=1888,max=2100"`
	DurationMinutes *int    `json:"duration_minutes,omitempty" validate:"omitempty,min=1,max=999"`
	Summary         *string `json:"summary,omitempty" validate:"omitempty,max=5000"`
	Timeslot        *string `json:"timeslot,omitempty"`
	Month           *string `json:"month,omitempty"`
	Week            *string `json:"week,omitempty"`
	PosterURL       *string `json:"poster,omitempty"`
	PreviewURL      *string `json:"preview,omitempty"`
}

// Empty reports whether the update carries no field at all.
func (r MovieUpdateRequest) Empty() bool {
	return r.Title == nil && r.Director == nil && r.ReleasedYear == nil &&
		r.DurationMinutes == nil && r.Summary == nil && r.Timeslot == nil &&
		r.Month == nil && r.Week == nil && r.PosterURL == nil && r.PreviewURL == nil
}
