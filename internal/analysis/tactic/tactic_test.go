package tactic_test

import (
	"testing"

	"github.com/guardline/vishsim/internal/analysis/tactic"
)

func TestParseKnownTactics(t *testing.T) {
	cases := map[string]tactic.Tactic{
		"authority":               tactic.Authority,
		"URGENCY":                 tactic.Urgency,
		" Fear ":                  tactic.Fear,
		"social proof":            tactic.SocialProof,
		"social_proof":            tactic.SocialProof,
		"The tactic is URGENCY.":  tactic.Urgency,
		"I'd say it's commitment": tactic.Commitment,
	}

	for input, want := range cases {
		got, ok := tactic.Parse(input)
		if !ok {
			t.Fatalf("Parse(%q) not ok", input)
		}
		if got != want {
			t.Fatalf("Parse(%q) = %s, want %s", input, got, want)
		}
	}
}

func TestParseUnknown(t *testing.T) {
	for _, input := range []string{"", "flattery", "no idea"} {
		if _, ok := tactic.Parse(input); ok {
			t.Fatalf("Parse(%q) unexpectedly ok", input)
		}
	}
}

func TestClassifyKeywords(t *testing.T) {
	cases := []struct {
		message string
		want    tactic.Tactic
	}{
		{"This is urgent, I need it right now", tactic.Urgency},
		{"My manager already gave approval", tactic.Authority},
		{"You'll lose the account if you don't act", tactic.Fear},
		{"Everyone else does this without a fuss", tactic.SocialProof},
		{"After everything I've helped you with, do me this favor", tactic.Reciprocity},
		{"Nice weather we're having", tactic.Authority},
		{"", tactic.Authority},
	}

	for _, tc := range cases {
		if got := tactic.Classify(tc.message); got != tc.want {
			t.Fatalf("Classify(%q) = %s, want %s", tc.message, got, tc.want)
		}
	}
}

func TestClassifyPriorityOrder(t *testing.T) {
	// Urgency outranks authority when both match.
	message := "The CEO needs this immediately"
	if got := tactic.Classify(message); got != tactic.Urgency {
		t.Fatalf("Classify(%q) = %s, want urgency", message, got)
	}
}

func TestProfileForEveryTactic(t *testing.T) {
	for _, tac := range tactic.All {
		p := tactic.ProfileFor(tac)
		if p.AlertTitle == "" || p.AlertDescription == "" || p.Icon == "" {
			t.Fatalf("incomplete profile for %s: %+v", tac, p)
		}
	}
}

func TestProfileForUnknownFallsBack(t *testing.T) {
	p := tactic.ProfileFor(tactic.Tactic("bogus"))
	if p != tactic.ProfileFor(tactic.Authority) {
		t.Fatal("unknown tactic should fall back to the authority profile")
	}
}
