package wire

import (
	"net/http"

	"cinema-kiosk/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireMovie(r chi.Router, movieHandler *adaptor.MovieHandler, admin func(http.Handler) http.Handler) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/api/movies", movieHandler.GetMovies)
	r.Get("/api/movies/{slug}", movieHandler.GetMovie)

	// Uploaded posters and previews
	r.Get("/uploads/*", movieHandler.ServeAsset)

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/movies", func(r chi.Router) {
		r.Use(admin)

		r.Post("/", movieHandler.CreateMovie)         // POST /api/admin/movies
		r.Put("/{slug}", movieHandler.UpdateMovie)    // PUT /api/admin/movies/{slug}
		r.Delete("/{slug}", movieHandler.DeleteMovie) // DELETE /api/admin/movies/{slug}
	})
}
