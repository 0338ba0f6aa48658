package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/secmon-lab/riskatlas/pkg/usecase"
	"github.com/secmon-lab/riskatlas/pkg/utils/logging"
)

type AuthUseCase = usecase.AuthUseCaseInterface

type Server struct {
	router         *chi.Mux
	uc             *usecase.UseCases
	authUC         AuthUseCase
	metricsHandler http.Handler
	validate       *validator.Validate
}

type Options func(*Server)

// WithAuth overrides the authentication use case of uc
func WithAuth(authUC AuthUseCase) Options {
	return func(s *Server) {
		s.authUC = authUC
	}
}

// WithMetricsHandler serves handler at /metrics without authentication
func WithMetricsHandler(handler http.Handler) Options {
	return func(s *Server) {
		s.metricsHandler = handler
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router:   r,
		uc:       uc,
		authUC:   uc.Auth,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
	for _, opt := range opts {
		opt(s)
	}

	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler)
	if s.metricsHandler != nil {
		r.Handle("/metrics", s.metricsHandler)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware(s.authUC))

		r.Get("/me", authMeHandler)
		r.Post("/auth/logout", authLogoutHandler(s.authUC))

		r.Route("/divisions", func(r chi.Router) {
			r.Get("/", s.listDivisions)
			r.Post("/", s.createDivision)
			r.Get("/{id}", s.getDivision)
			r.Put("/{id}", s.updateDivision)
			r.Delete("/{id}", s.deleteDivision)
		})

		r.Route("/teams", func(r chi.Router) {
			r.Get("/", s.listTeams)
			r.Post("/", s.createTeam)
			r.Get("/{id}", s.getTeam)
			r.Put("/{id}", s.updateTeam)
			r.Delete("/{id}", s.deleteTeam)
		})

		r.Route("/services", func(r chi.Router) {
			r.Get("/", s.listServices)
			r.Post("/", s.createService)
			r.Get("/lookup", s.lookupService)
			r.Get("/{id}", s.getService)
			r.Put("/{id}", s.updateService)
			r.Delete("/{id}", s.deleteService)
			r.Get("/{id}/detail", s.serviceDetail)
		})

		r.Route("/assessments", func(r chi.Router) {
			r.Get("/", s.listAssessments)
			r.Post("/", s.createAssessment)
			r.Get("/{id}", s.getAssessment)
			r.Put("/{id}", s.updateAssessment)
			r.Delete("/{id}", s.deleteAssessment)
		})

		r.Get("/dashboard", s.dashboard)
		r.Get("/reports/department", s.departmentReport)
		r.Get("/standard-risks", s.standardRisks)
		r.Get("/config", s.riskConfig)
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.From(r.Context()).Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}
