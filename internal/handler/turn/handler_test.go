package turn

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/guardline/vishsim/internal/model/scenario"
	"github.com/guardline/vishsim/internal/service/analyzer"
	"github.com/guardline/vishsim/internal/service/contextcache"
	"github.com/guardline/vishsim/internal/service/orchestrator"
	tacticservice "github.com/guardline/vishsim/internal/service/tactic"
	"github.com/guardline/vishsim/internal/store"
)

type fixedRand struct{}

func (fixedRand) Intn(int) int { return 0 }

func setupRouter() (*chi.Mux, *orchestrator.Orchestrator) {
	repo := store.NewMemoryStore()
	scenarios := scenario.NewMemoryStore(scenario.Seed())
	cache := contextcache.NewCache(time.Minute, fixedRand{})
	orch := orchestrator.New(repo, scenarios, cache, tacticservice.NewSelector(), nil, 0)
	processor := NewProcessor(orch, analyzer.NewService(nil), repo)
	handler := New(processor)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, orch
}

func postTurn(t *testing.T, r *chi.Mux, sessionID, message string) *httptest.ResponseRecorder {
	t.Helper()
	payload, _ := json.Marshal(map[string]string{"message": message})

	req := httptest.NewRequest(http.MethodPost, "/sessions/"+sessionID+"/turns", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)
	return resp
}

func TestTurnReturnsAdversaryMessage(t *testing.T) {
	r, orch := setupRouter()
	session, err := orch.StartSession(context.Background(), "trainee-1", "it-helpdesk-reset")
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	resp := postTurn(t, r, session.ID, "I need to verify who you are first")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body turnResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.AdversaryMessage == "" {
		t.Fatal("response missing adversary message")
	}
	if body.Ended {
		t.Fatal("session ended on the first turn")
	}
	if body.RiskLevel == "" {
		t.Fatal("response missing risk level")
	}
}

func TestTurnMissingMessage(t *testing.T) {
	r, orch := setupRouter()
	session, err := orch.StartSession(context.Background(), "trainee-1", "it-helpdesk-reset")
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	resp := postTurn(t, r, session.ID, "")
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestTurnUnknownSession(t *testing.T) {
	r, _ := setupRouter()

	resp := postTurn(t, r, "no-such-session", "hello?")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestTurnEndedSession(t *testing.T) {
	r, orch := setupRouter()
	session, err := orch.StartSession(context.Background(), "trainee-1", "it-helpdesk-reset")
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if _, err := orch.EndSession(context.Background(), session.ID); err != nil {
		t.Fatalf("EndSession: %v", err)
	}

	resp := postTurn(t, r, session.ID, "hello?")
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.Code)
	}
}

func TestStreamTurnRequiresMessage(t *testing.T) {
	r, orch := setupRouter()
	session, err := orch.StartSession(context.Background(), "trainee-1", "it-helpdesk-reset")
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/stream/"+session.ID, nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestStreamTurnEmitsEvents(t *testing.T) {
	r, orch := setupRouter()
	session, err := orch.StartSession(context.Background(), "trainee-1", "it-helpdesk-reset")
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/stream/"+session.ID+"?message=who+is+this", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got := resp.Header().Get("Content-Type"); got != "text/event-stream" {
		t.Fatalf("content type = %q, want text/event-stream", got)
	}

	body := resp.Body.String()
	for _, event := range []string{"event: start", "event: message", "event: risk", "event: end"} {
		if !strings.Contains(body, event) {
			t.Fatalf("stream missing %q:\n%s", event, body)
		}
	}
}
