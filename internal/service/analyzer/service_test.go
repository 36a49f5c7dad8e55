package analyzer_test

import (
	"context"
	"errors"
	"testing"

	"github.com/guardline/vishsim/internal/analysis/risk"
	analysis "github.com/guardline/vishsim/internal/analysis/tactic"
	"github.com/guardline/vishsim/internal/model/simulation"
	"github.com/guardline/vishsim/internal/service/analyzer"
)

// stubCollaborator is a canned ai.Collaborator.
type stubCollaborator struct {
	reply     string
	err       error
	available bool
	calls     int
}

func (s *stubCollaborator) Generate(_ context.Context, _ string, _ map[string]string) (string, error) {
	s.calls++
	return s.reply, s.err
}

func (s *stubCollaborator) IsAvailable() bool { return s.available }

func TestDetectTacticPrefersModelReply(t *testing.T) {
	collab := &stubCollaborator{reply: "scarcity", available: true}
	svc := analyzer.NewService(collab)

	if got := svc.DetectTactic(context.Background(), "this is urgent, act now"); got != analysis.Scarcity {
		t.Fatalf("DetectTactic = %s, want scarcity from the model", got)
	}
	if collab.calls != 1 {
		t.Fatalf("collaborator called %d times, want 1", collab.calls)
	}
}

func TestDetectTacticFallsBackOnModelFailure(t *testing.T) {
	cases := []struct {
		name   string
		collab *stubCollaborator
	}{
		{"error", &stubCollaborator{err: errors.New("boom"), available: true}},
		{"garbage reply", &stubCollaborator{reply: "definitely not a tactic", available: true}},
		{"unavailable", &stubCollaborator{reply: "scarcity", available: false}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := analyzer.NewService(tc.collab)
			if got := svc.DetectTactic(context.Background(), "this is urgent, act now"); got != analysis.Urgency {
				t.Fatalf("DetectTactic = %s, want urgency from the keyword fallback", got)
			}
		})
	}
}

func TestDetectTacticNilCollaborator(t *testing.T) {
	svc := analyzer.NewService(nil)
	if got := svc.DetectTactic(context.Background(), "my manager authorized this"); got != analysis.Authority {
		t.Fatalf("DetectTactic = %s, want authority", got)
	}
}

func TestGenerateAlertsTacticAlert(t *testing.T) {
	svc := analyzer.NewService(nil)
	session := &simulation.Session{
		ID: "sess-1",
		Exchanges: []simulation.Exchange{{
			AdversaryMessage: "This is urgent, I need this done immediately",
		}},
	}

	alerts := svc.GenerateAlerts(context.Background(), session)
	if len(alerts) != 1 {
		t.Fatalf("got %d alerts, want 1", len(alerts))
	}
	alert := alerts[0]
	if alert.ID != "sess-1-1-tactic" {
		t.Fatalf("alert ID = %q", alert.ID)
	}
	if alert.Tactic != analysis.Urgency {
		t.Fatalf("alert tactic = %s, want urgency", alert.Tactic)
	}
	if alert.RiskLevel != risk.Medium {
		t.Fatalf("alert risk = %s, want medium for an empty choice history", alert.RiskLevel)
	}

	// Same session, same alerts: IDs are deterministic so re-running the
	// analysis cannot duplicate the feed.
	again := svc.GenerateAlerts(context.Background(), session)
	if len(again) != 1 || again[0].ID != alert.ID {
		t.Fatalf("repeat analysis produced different alerts: %+v", again)
	}
}

func TestGenerateAlertsEscalationPattern(t *testing.T) {
	svc := analyzer.NewService(nil)
	session := &simulation.Session{
		ID: "sess-2",
		Exchanges: []simulation.Exchange{
			{AdversaryMessage: "hello", Tactic: analysis.Fear, TraineeResponse: "sure", GoodChoice: false},
			{AdversaryMessage: "hello again", Tactic: analysis.Authority, TraineeResponse: "okay", GoodChoice: false},
			{AdversaryMessage: "please just help me out here", Tactic: analysis.Fear},
		},
	}

	alerts := svc.GenerateAlerts(context.Background(), session)
	if len(alerts) != 2 {
		t.Fatalf("got %d alerts, want tactic + escalation", len(alerts))
	}
	escalation := alerts[1]
	if escalation.ID != "sess-2-3-escalation" {
		t.Fatalf("escalation alert ID = %q", escalation.ID)
	}
	if escalation.RiskLevel != risk.High {
		t.Fatalf("escalation risk = %s, want high", escalation.RiskLevel)
	}
}

func TestGenerateAlertsVerificationBypass(t *testing.T) {
	svc := analyzer.NewService(nil)
	session := &simulation.Session{
		ID: "sess-3",
		Exchanges: []simulation.Exchange{{
			AdversaryMessage: "We can skip the usual checks, I was already verified this morning",
		}},
	}

	alerts := svc.GenerateAlerts(context.Background(), session)
	if len(alerts) != 2 {
		t.Fatalf("got %d alerts, want tactic + bypass", len(alerts))
	}
	bypass := alerts[1]
	if bypass.ID != "sess-3-1-bypass" {
		t.Fatalf("bypass alert ID = %q", bypass.ID)
	}
	if bypass.Title != "Verification Bypass Attempt" {
		t.Fatalf("bypass alert title = %q", bypass.Title)
	}
}

func TestGenerateAlertsEmptySession(t *testing.T) {
	svc := analyzer.NewService(nil)
	if alerts := svc.GenerateAlerts(context.Background(), &simulation.Session{ID: "sess-4"}); alerts != nil {
		t.Fatalf("empty session produced alerts: %+v", alerts)
	}
}

func TestResistanceScore(t *testing.T) {
	svc := analyzer.NewService(nil)
	exchanges := []simulation.Exchange{
		{Tactic: analysis.Urgency, GoodChoice: true},
		{Tactic: analysis.Urgency, GoodChoice: false},
		{Tactic: analysis.Fear, GoodChoice: false},
	}

	if got := svc.ResistanceScore(exchanges, analysis.Urgency); got != 0.5 {
		t.Fatalf("urgency resistance = %v, want 0.5", got)
	}
	if got := svc.ResistanceScore(exchanges, analysis.Fear); got != 0.0 {
		t.Fatalf("fear resistance = %v, want 0", got)
	}
	if got := svc.ResistanceScore(exchanges, analysis.Liking); got != 1.0 {
		t.Fatalf("unused tactic resistance = %v, want vacuous 1.0", got)
	}
}

func TestIsSecurityPositive(t *testing.T) {
	cases := []struct {
		response string
		want     bool
	}{
		{"I need to verify your identity first", true},
		{"Let me transfer you to my supervisor", true},
		{"That's against our policy", true},
		{"Sure, I'll update that right away", false},
		{"", false},
	}

	for _, tc := range cases {
		if got := analyzer.IsSecurityPositive(tc.response); got != tc.want {
			t.Fatalf("IsSecurityPositive(%q) = %v, want %v", tc.response, got, tc.want)
		}
	}
}
