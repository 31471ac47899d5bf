package httpserver

import (
	"net/http"
	"time"

	"census-app-go/internal/config"
	"census-app-go/internal/domain/access"
	"census-app-go/internal/transport/httpserver/handler"
	"census-app-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Observability is the metrics sink; a nil value disables /metrics and request instrumentation.
type Observability interface {
	middleware.HTTPObserver
	Handler() http.Handler
}

func NewRouter(cfg config.Config, handlers *handler.Handlers, sessions *middleware.SessionAuth, limiter *middleware.LoginLimiter, obs Observability) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.NewCORS(cfg.AllowedOrigins))
	if obs != nil {
		r.Use(middleware.Metrics(obs))
		r.Method(http.MethodGet, "/metrics", obs.Handler())
	}

	r.Get("/api/health", handlers.Common.Health)

	login := http.HandlerFunc(handlers.Common.Login)
	if limiter != nil {
		r.With(limiter.Middleware).Post("/auth/login", login)
	} else {
		r.Post("/auth/login", login)
	}

	r.Group(func(r chi.Router) {
		r.Use(sessions.Middleware)
		r.Use(middleware.FieldWorkerGuard)

		r.Post("/auth/logout", handlers.Common.Logout)
		r.Get("/auth/me", handlers.Common.Me)

		r.Get("/recoleccion", handlers.Operations.Board)
		r.Post("/recoleccion", handlers.Operations.SubmitEvidence)
		r.Get("/evidencias/*", handlers.Operations.Photo)

		r.Get("/api/sectores-by-zona/{zonaId}", handlers.Census.SectorsByZone)
		r.Get("/api/field-config-by-type/{tipoId}", handlers.Census.FieldConfigByType)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Require(access.CanManage))

			r.Get("/api/empadronados-stats", handlers.Users.RecordsByType())
			r.Get("/api/tipo-residuos-stats", handlers.Users.RecordsByWasteType())
			r.Get("/api/zonas-stats", handlers.Users.SectorsByZone())
			r.Get("/api/usuarios-stats", handlers.Users.UsersByRole())

			r.Get("/users", handlers.Users.ListUsers)
			r.Post("/users", handlers.Users.CreateUser)
			r.Put("/users/{id}", handlers.Users.UpdateUser)
			r.Delete("/users/{id}", handlers.Users.DeleteUser)

			r.Get("/zonas-sectores", handlers.Census.ReferenceIndex)
			r.Post("/zonas", handlers.Census.CreateZone)
			r.Put("/zonas/{id}", handlers.Census.UpdateZone)
			r.Delete("/zonas/{id}", handlers.Census.DeleteZone)
			r.Post("/sectores", handlers.Census.CreateSector)
			r.Put("/sectores/{id}", handlers.Census.UpdateSector)
			r.Delete("/sectores/{id}", handlers.Census.DeleteSector)
			r.Post("/tipos-empadronados", handlers.Census.CreateCensusType)
			r.Put("/tipos-empadronados/{id}", handlers.Census.UpdateCensusType)
			r.Delete("/tipos-empadronados/{id}", handlers.Census.DeleteCensusType)

			r.Get("/empadronados", handlers.Census.ListRecords)
			r.Get("/empadronados/export", handlers.Census.ExportRecords)
			r.Post("/empadronados", handlers.Census.CreateRecord)
			r.Get("/empadronados/{id}", handlers.Census.GetRecord)
			r.Put("/empadronados/{id}", handlers.Census.UpdateRecord)
			r.Delete("/empadronados/{id}", handlers.Census.DeleteRecord)

			r.Get("/programacion", handlers.Operations.ScheduleIndex)
			r.Post("/programacion", handlers.Operations.CreateSchedule)
			r.Put("/programacion/{id}", handlers.Operations.UpdateSchedule)
			r.Delete("/programacion/{id}", handlers.Operations.DeleteSchedule)
		})
	})

	return r
}
