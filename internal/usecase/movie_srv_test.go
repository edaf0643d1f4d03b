package usecase

import (
	"context"
	"testing"

	"cinema-kiosk/internal/dto/request"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestCreateMovie_RoundTrip(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, "interstellar", env.movie.Slug)
	assert.Equal(t, "19:30", env.movie.Timeslot)
	assert.Equal(t, "october", env.movie.Month)
	assert.Equal(t, "week-2", env.movie.Week)

	got, err := env.svc.Movie.GetMovie(context.Background(), "Interstellar")
	require.NoError(t, err)
	assert.Equal(t, env.movie, got)

	all, err := env.svc.Movie.ListMovies(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, *env.movie, all[0])
}

func TestCreateMovie_Rejects(t *testing.T) {
	base := request.MovieRequest{
		Title:           "Dune: Part Two",
		Director:        "Denis Villeneuve",
		ReleasedYear:    2024,
		DurationMinutes: 166,
		Timeslot:        "14:00",
		Month:           "oct",
		Week:            "Week 3",
	}

	tests := []struct {
		name   string
		mutate func(r *request.MovieRequest)
		fields []string
	}{
		{name: "duplicate slug", mutate: func(r *request.MovieRequest) { r.Title = "INTERSTELLAR!" }},
		{name: "title without letters", mutate: func(r *request.MovieRequest) { r.Title = "!!!" }, fields: []string{"title"}},
		{
			name: "bad schedule",
			mutate: func(r *request.MovieRequest) {
				r.Timeslot = "25:99"
				r.Month = "Smarch"
				r.Week = "week-7"
			},
			fields: []string{"timeslot", "month", "week"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			req := base
			tt.mutate(&req)

			_, err := env.svc.Movie.CreateMovie(context.Background(), &req)
			require.ErrorIs(t, err, ErrValidation)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			for _, f := range tt.fields {
				assert.Contains(t, verr.Fields, f)
			}
		})
	}
}

func TestUpdateMovie_SchedulingFrozenOnceSold(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	updated, err := env.svc.Movie.UpdateMovie(ctx, "interstellar", &request.MovieUpdateRequest{Timeslot: strPtr("9 PM")})
	require.NoError(t, err)
	assert.Equal(t, "21:00", updated.Timeslot)

	_, err = env.reserve("kiosk", "", "A1")
	require.NoError(t, err)

	_, err = env.svc.Movie.UpdateMovie(ctx, "interstellar", &request.MovieUpdateRequest{Title: strPtr("Interstellar IMAX")})
	require.ErrorIs(t, err, ErrValidation)

	_, err = env.svc.Movie.UpdateMovie(ctx, "interstellar", &request.MovieUpdateRequest{Week: strPtr("week-3")})
	require.ErrorIs(t, err, ErrValidation)

	updated, err = env.svc.Movie.UpdateMovie(ctx, "interstellar", &request.MovieUpdateRequest{
		Summary:   strPtr("A team travels through a wormhole."),
		PosterURL: strPtr("poster/new.jpg"),
	})
	require.NoError(t, err)
	assert.Equal(t, "A team travels through a wormhole.", updated.Summary)
	assert.Equal(t, "poster/new.jpg", *updated.PosterURL)
	assert.Equal(t, "21:00", updated.Timeslot)
}

func TestUpdateMovie_RenameMovesSlug(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	updated, err := env.svc.Movie.UpdateMovie(ctx, "interstellar", &request.MovieUpdateRequest{Title: strPtr("Interstellar (2014)")})
	require.NoError(t, err)
	assert.Equal(t, "interstellar-2014", updated.Slug)

	_, err = env.svc.Movie.GetMovie(ctx, "interstellar")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = env.svc.Movie.UpdateMovie(ctx, "interstellar-2014", &request.MovieUpdateRequest{})
	require.ErrorIs(t, err, ErrValidation)
}

func TestDeleteMovie(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	deleted, err := env.svc.Movie.DeleteMovie(ctx, "interstellar")
	require.NoError(t, err)
	assert.Equal(t, env.movie.ID, deleted.ID)

	_, err = env.svc.Movie.GetMovie(ctx, "interstellar")
	require.ErrorIs(t, err, ErrNotFound)

	all, err := env.svc.Movie.ListMovies(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	_, err = env.reserve("kiosk", "", "A1")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = env.svc.Movie.DeleteMovie(ctx, "interstellar")
	require.ErrorIs(t, err, ErrNotFound)
}
