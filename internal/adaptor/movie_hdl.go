package adaptor

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"cinema-kiosk/internal/dto/request"
	"cinema-kiosk/internal/usecase"
	"cinema-kiosk/pkg/assets"
	"cinema-kiosk/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	maxFormMemory = 8 << 20
	maxUploadSize = 64 << 20
)

type MovieHandler struct {
	service usecase.MovieService
	assets  *assets.Store
	log     *zap.Logger
}

func NewMovieHandler(service usecase.MovieService, store *assets.Store, log *zap.Logger) *MovieHandler {
	return &MovieHandler{
		service: service,
		assets:  store,
		log:     log.With(zap.String("handler", "movie")),
	}
}

// GetMovies handles GET /api/movies
func (h *MovieHandler) GetMovies(w http.ResponseWriter, r *http.Request) {
	movies, err := h.service.ListMovies(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "get movies")
		return
	}

	utils.ResponseSuccess(w, "success", movies)
}

// GetMovie handles GET /api/movies/{slug}
func (h *MovieHandler) GetMovie(w http.ResponseWriter, r *http.Request) {
	movie, err := h.service.GetMovie(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		handleServiceError(w, h.log, err, "get movie")
		return
	}

	utils.ResponseSuccess(w, "Movie retrieved successfully", movie)
}

// CreateMovie handles POST /api/admin/movies (multipart)
func (h *MovieHandler) CreateMovie(w http.ResponseWriter, r *http.Request) {
	form, ok := h.parseForm(w, r)
	if !ok {
		return
	}
	defer form.cleanup()

	req := request.MovieRequest{
		Title:    form.value("title"),
		Director: form.value("director"),
		Summary:  form.value("summary"),
		Timeslot: form.value("timeslot"),
		Month:    form.value("month"),
		Week:     form.value("week"),
	}

	fieldErrors := map[string]string{}
	req.ReleasedYear = form.number("released_year", fieldErrors)
	req.DurationMinutes = form.number("duration_minutes", fieldErrors)
	if len(fieldErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", fieldErrors)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	var err error
	if req.PosterURL, err = h.media(form, "poster"); err != nil {
		h.mediaError(w, err, "poster")
		return
	}
	if req.PreviewURL, err = h.media(form, "preview"); err != nil {
		h.mediaError(w, err, "preview")
		return
	}

	movie, err := h.service.CreateMovie(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create movie")
		return
	}

	utils.ResponseCreated(w, "Movie created successfully", movie)
}

// UpdateMovie handles PUT /api/admin/movies/{slug}; only the fields present are changed.
func (h *MovieHandler) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	form, ok := h.parseForm(w, r)
	if !ok {
		return
	}
	defer form.cleanup()

	req := request.MovieUpdateRequest{
		Title:    form.optional("title"),
		Director: form.optional("director"),
		Summary:  form.optional("summary"),
		Timeslot: form.optional("timeslot"),
		Month:    form.optional("month"),
		Week:     form.optional("week"),
	}

	fieldErrors := map[string]string{}
	req.ReleasedYear = form.optionalNumber("released_year", fieldErrors)
	req.DurationMinutes = form.optionalNumber("duration_minutes", fieldErrors)
	if len(fieldErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", fieldErrors)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	var err error
	if req.PosterURL, err = h.media(form, "poster"); err != nil {
		h.mediaError(w, err, "poster")
		return
	}
	if req.PreviewURL, err = h.media(form, "preview"); err != nil {
		h.mediaError(w, err, "preview")
		return
	}

	movie, err := h.service.UpdateMovie(r.Context(), slug, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update movie")
		return
	}

	utils.ResponseSuccess(w, "Movie updated successfully", movie)
}

// DeleteMovie handles DELETE /api/admin/movies/{slug}
func (h *MovieHandler) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	movie, err := h.service.DeleteMovie(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		handleServiceError(w, h.log, err, "delete movie")
		return
	}

	utils.ResponseSuccess(w, "Movie deleted successfully", movie)
}

// ServeAsset handles GET /uploads/*
func (h *MovieHandler) ServeAsset(w http.ResponseWriter, r *http.Request) {
	path := h.assets.Path(chi.URLParam(r, "*"))
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		utils.ResponseNotFound(w, "Asset not found")
		return
	}
	http.ServeFile(w, r, path)
}

func (h *MovieHandler) parseForm(w http.ResponseWriter, r *http.Request) (*movieForm, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		err = r.ParseMultipartForm(maxFormMemory)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		h.log.Warn("Invalid movie form", zap.Error(err))
		utils.ResponseBadRequest(w, "Invalid form body", nil)
		return nil, false
	}
	return &movieForm{r: r}, true
}

// media stores an uploaded file part or falls back to a plain reference field.
func (h *MovieHandler) media(form *movieForm, field string) (*string, error) {
	if form.r.MultipartForm != nil {
		if files := form.r.MultipartForm.File[field]; len(files) > 0 {
			f, err := files[0].Open()
			if err != nil {
				return nil, fmt.Errorf("open %s upload: %w", field, err)
			}
			defer f.Close()

			ref, err := h.assets.Save(field, files[0].Filename, f)
			if err != nil {
				return nil, err
			}
			h.log.Info("Movie asset stored", zap.String("field", field), zap.String("ref", ref))
			return &ref, nil
		}
	}
	return form.optional(field), nil
}

func (h *MovieHandler) mediaError(w http.ResponseWriter, err error, field string) {
	if errors.Is(err, assets.ErrUnsupportedType) {
		utils.ResponseBadRequest(w, "Validation failed", map[string]string{field: "Must be an image or video file"})
		return
	}
	h.log.Error("Failed to store movie asset", zap.Error(err), zap.String("field", field))
	utils.ResponseInternalError(w, "Internal server error")
}

type movieForm struct {
	r *http.Request
}

func (f *movieForm) cleanup() {
	if f.r.MultipartForm != nil {
		f.r.MultipartForm.RemoveAll()
	}
}

func (f *movieForm) value(key string) string {
	return strings.TrimSpace(f.r.PostForm.Get(key))
}

func (f *movieForm) optional(key string) *string {
	if _, ok := f.r.PostForm[key]; !ok {
		return nil
	}
	v := f.value(key)
	return &v
}

func (f *movieForm) number(key string, fieldErrors map[string]string) int {
	v := f.value(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		fieldErrors[key] = "Must be a whole number"
	}
	return n
}

func (f *movieForm) optionalNumber(key string, fieldErrors map[string]string) *int {
	if f.optional(key) == nil {
		return nil
	}
	n := f.number(key, fieldErrors)
	return &n
}
