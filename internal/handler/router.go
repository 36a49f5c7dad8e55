package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/guardline/vishsim/internal/handler/live"
	scenarioHandler "github.com/guardline/vishsim/internal/handler/scenario"
	sessionHandler "github.com/guardline/vishsim/internal/handler/session"
	"github.com/guardline/vishsim/internal/handler/turn"
	middlewarePkg "github.com/guardline/vishsim/internal/middleware"
	scenarioModel "github.com/guardline/vishsim/internal/model/scenario"
	"github.com/guardline/vishsim/internal/service/analyzer"
	"github.com/guardline/vishsim/internal/service/evaluator"
	"github.com/guardline/vishsim/internal/service/orchestrator"
	"github.com/guardline/vishsim/internal/store"
)

// NewRouter wires HTTP routes to the simulation services.
func NewRouter(
	orch *orchestrator.Orchestrator,
	analyzerSvc *analyzer.Service,
	eval *evaluator.Evaluator,
	repo store.Repository,
	scenarios scenarioModel.Store,
	allowedOrigins []string,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS(allowedOrigins))

	processor := turn.NewProcessor(orch, analyzerSvc, repo)

	r.Route("/api", func(api chi.Router) {
		scenarioHandler.New(scenarios).RegisterRoutes(api)
		sessionHandler.New(orch, eval, repo, scenarios).RegisterRoutes(api)
		turn.New(processor).RegisterRoutes(api)
		live.New(processor).RegisterRoutes(api)
	})

	return r
}
