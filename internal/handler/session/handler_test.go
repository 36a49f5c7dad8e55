package session

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/guardline/vishsim/internal/model/scenario"
	"github.com/guardline/vishsim/internal/model/simulation"
	"github.com/guardline/vishsim/internal/service/contextcache"
	"github.com/guardline/vishsim/internal/service/evaluator"
	"github.com/guardline/vishsim/internal/service/orchestrator"
	tacticservice "github.com/guardline/vishsim/internal/service/tactic"
	"github.com/guardline/vishsim/internal/store"
)

type fixedRand struct{}

func (fixedRand) Intn(int) int { return 0 }

func setupRouter() (*chi.Mux, *orchestrator.Orchestrator, store.Repository) {
	repo := store.NewMemoryStore()
	scenarios := scenario.NewMemoryStore(scenario.Seed())
	cache := contextcache.NewCache(time.Minute, fixedRand{})
	orch := orchestrator.New(repo, scenarios, cache, tacticservice.NewSelector(), nil, 0)
	eval := evaluator.New(nil, nil)
	handler := New(orch, eval, repo, scenarios)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, orch, repo
}

func TestCreateSessionValidScenario(t *testing.T) {
	r, _, _ := setupRouter()
	body := map[string]string{"traineeId": "trainee-1", "scenarioId": "it-helpdesk-reset"}
	payload, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, "/sessions", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}

	var created simulation.Session
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.ID == "" || len(created.Exchanges) != 1 {
		t.Fatalf("created session not seeded: %+v", created)
	}
}

func TestCreateSessionUnknownScenario(t *testing.T) {
	r, _, _ := setupRouter()
	body := map[string]string{"traineeId": "trainee-1", "scenarioId": "non-existent"}
	payload, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, "/sessions", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestCreateSessionMissingFields(t *testing.T) {
	r, _, _ := setupRouter()

	req := httptest.NewRequest(http.MethodPost, "/sessions", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestGetSessionNotFound(t *testing.T) {
	r, _, _ := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/sessions/missing", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestEndSessionReturnsEvaluation(t *testing.T) {
	r, orch, _ := setupRouter()
	session, err := orch.StartSession(context.Background(), "trainee-1", "bank-fraud-team")
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/sessions/"+session.ID+"/end", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var result simulation.SessionEvaluationResult
	if err := json.Unmarshal(resp.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode evaluation: %v", err)
	}
	if result.SessionID != session.ID {
		t.Fatalf("evaluation session id = %q, want %q", result.SessionID, session.ID)
	}
	if result.EvaluatedAt.IsZero() {
		t.Fatal("evaluation has no timestamp")
	}
}

func TestAckAlert(t *testing.T) {
	r, orch, repo := setupRouter()
	session, err := orch.StartSession(context.Background(), "trainee-1", "it-helpdesk-reset")
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	session.Alerts = append(session.Alerts, simulation.SecurityAlert{
		ID:    session.ID + "-1-tactic",
		Title: "Authority Pressure Detected",
	})
	if err := repo.Save(context.Background(), session); err != nil {
		t.Fatalf("Save: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/sessions/"+session.ID+"/alerts/"+session.Alerts[0].ID+"/ack", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	stored, err := repo.Load(context.Background(), session.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(stored.Alerts) != 1 || !stored.Alerts[0].Acknowledged {
		t.Fatalf("alert not persisted as acknowledged: %+v", stored.Alerts)
	}
}

func TestAckAlertUnknownAlert(t *testing.T) {
	r, orch, _ := setupRouter()
	session, err := orch.StartSession(context.Background(), "trainee-1", "it-helpdesk-reset")
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/sessions/"+session.ID+"/alerts/no-such-alert/ack", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestListAlerts(t *testing.T) {
	r, orch, _ := setupRouter()
	session, err := orch.StartSession(context.Background(), "trainee-1", "it-helpdesk-reset")
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/sessions/"+session.ID+"/alerts", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}
