// internal/wire/wire.go
package wire

import (
	"net/http"

	"cinema-kiosk/internal/adaptor"
	"cinema-kiosk/internal/data/repository"
	"cinema-kiosk/internal/usecase"
	"cinema-kiosk/pkg/assets"
	"cinema-kiosk/pkg/middleware"
	"cinema-kiosk/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// App holds the router and the services background jobs need.
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring builds services, handlers and routes.
func Wiring(
	repo *repository.Repository,
	config *utils.Config,
	infra usecase.Infra,
	store *assets.Store,
	db adaptor.Pinger,
	logger *zap.Logger,
) *App {
	service := usecase.NewService(repo, config, infra, logger)
	handler := adaptor.NewHandler(service, store, db, logger)

	return &App{
		Router:  setupRouter(handler, config, logger),
		Service: service,
	}
}

func setupRouter(handler *adaptor.Handler, config *utils.Config, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.App.CORSOrigins))
	if config.App.RequestTimeout > 0 {
		r.Use(chimw.Timeout(config.App.RequestTimeout))
	}

	admin := middleware.Admin(config.Admin, logger)

	wireMovie(r, handler.Movie, admin)
	wireSeat(r, handler.Seat)
	wireTicket(r, handler.Ticket, admin)
	wireAnalytics(r, handler.Analytics, admin)

	r.Get("/health", handler.Health.Check)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseNotFound(w, "Route not found")
	})

	return r
}
