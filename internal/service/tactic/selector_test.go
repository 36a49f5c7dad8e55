package tactic_test

import (
	"testing"

	analysis "github.com/guardline/vishsim/internal/analysis/tactic"
	"github.com/guardline/vishsim/internal/model/simulation"
	tacticservice "github.com/guardline/vishsim/internal/service/tactic"
)

func sessionWithTactics(used ...analysis.Tactic) *simulation.Session {
	return &simulation.Session{ID: "sess-1", TacticsUsed: used}
}

func TestNextNeverRepeatsWhileUnusedRemain(t *testing.T) {
	selector := tacticservice.NewSelector()
	session := sessionWithTactics()

	seen := map[analysis.Tactic]bool{}
	for i := 0; i < len(analysis.All); i++ {
		next := selector.Next(session, "okay")
		if seen[next] {
			t.Fatalf("tactic %s repeated before the universe was exhausted", next)
		}
		seen[next] = true
		session.TacticsUsed = append(session.TacticsUsed, next)
	}

	if len(seen) != len(analysis.All) {
		t.Fatalf("expected all %d tactics used, got %d", len(analysis.All), len(seen))
	}
}

func TestNextCyclesBackToAuthorityWhenExhausted(t *testing.T) {
	selector := tacticservice.NewSelector()
	session := sessionWithTactics(analysis.All...)

	if next := selector.Next(session, "okay"); next != analysis.Authority {
		t.Fatalf("exhausted selection = %s, want authority", next)
	}
}

func TestNextPrefersAuthorityOnVerificationLanguage(t *testing.T) {
	selector := tacticservice.NewSelector()

	if next := selector.Next(sessionWithTactics(), "I need to verify who you are first"); next != analysis.Authority {
		t.Fatalf("verification cue selection = %s, want authority", next)
	}

	// Authority exhausted: urgency is the runner-up.
	session := sessionWithTactics(analysis.Authority)
	if next := selector.Next(session, "that's against our verification policy"); next != analysis.Urgency {
		t.Fatalf("verification cue with authority used = %s, want urgency", next)
	}
}

func TestNextPrefersFearOnSupervisorLanguage(t *testing.T) {
	selector := tacticservice.NewSelector()

	if next := selector.Next(sessionWithTactics(), "let me check with my supervisor"); next != analysis.Fear {
		t.Fatalf("supervisor cue selection = %s, want fear", next)
	}

	session := sessionWithTactics(analysis.Fear)
	if next := selector.Next(session, "my manager handles this"); next != analysis.Urgency {
		t.Fatalf("supervisor cue with fear used = %s, want urgency", next)
	}
}

func TestEscalationLevelBounds(t *testing.T) {
	selector := tacticservice.NewSelector()

	empty := &simulation.Session{}
	if level := selector.EscalationLevel(empty); level != 1 {
		t.Fatalf("empty session level = %d, want 1", level)
	}

	// Long resistant session: clamped to 5.
	long := &simulation.Session{}
	for i := 0; i < 50; i++ {
		long.Exchanges = append(long.Exchanges, simulation.Exchange{
			TraineeResponse: "verify first",
			GoodChoice:      true,
		})
	}
	if level := selector.EscalationLevel(long); level != 5 {
		t.Fatalf("long session level = %d, want 5", level)
	}

	// One exchange, one resistant response: 1 + 1 + 2 = 4.
	mid := &simulation.Session{Exchanges: []simulation.Exchange{{
		TraineeResponse: "verify first",
		GoodChoice:      true,
	}}}
	if level := selector.EscalationLevel(mid); level != 4 {
		t.Fatalf("mid session level = %d, want 4", level)
	}
}
