package wire

import (
	"net/http"

	"reserveit/internal/adaptor"
	"reserveit/internal/data/repository"
	"reserveit/internal/usecase"
	"reserveit/pkg/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// App holds the wired services and the HTTP router
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring builds services, handlers and routes on top of the repositories
func Wiring(repo *repository.Repository, identity usecase.IdentityValidator, events usecase.EventPublisher, logger *zap.Logger) *App {
	service := usecase.NewService(repo, identity, events, logger)
	handler := adaptor.NewHandler(service, logger)

	return &App{
		Router:  setupRouter(handler, logger),
		Service: service,
	}
}

func setupRouter(handler *adaptor.Handler, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	// the outer proxy forwards /api/<path> unchanged, direct callers use /<path>
	routes := func(r chi.Router) {
		wireResource(r, handler.Resource)
		wireSlot(r, handler.Slot)
		wireBooking(r, handler.Booking)
	}
	r.Group(routes)
	r.Route("/api", routes)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
