package risk_test

import (
	"strings"
	"testing"

	"github.com/guardline/vishsim/internal/analysis/risk"
)

func TestLevelFromChoices(t *testing.T) {
	cases := []struct {
		name    string
		choices []bool
		want    risk.Level
	}{
		{"no history", nil, risk.Medium},
		{"all good", []bool{true, true, true}, risk.Low},
		{"two of three", []bool{true, true, false}, risk.Medium},
		{"one of three", []bool{true, false, false}, risk.High},
		{"none good", []bool{false, false, false}, risk.Critical},
		{"single good", []bool{true}, risk.Low},
		{"single bad", []bool{false}, risk.Critical},
		// Only the last three entries count.
		{"old failures ignored", []bool{false, false, true, true, true}, risk.Low},
		{"old successes ignored", []bool{true, true, false, false, false}, risk.Critical},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := risk.LevelFromChoices(tc.choices); got != tc.want {
				t.Fatalf("LevelFromChoices(%v) = %s, want %s", tc.choices, got, tc.want)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]risk.Level{
		"low":       risk.Low,
		"LOW":       risk.Low,
		" Medium ":  risk.Medium,
		"HIGH":      risk.High,
		"Critical":  risk.Critical,
		"":          risk.Medium,
		"elevated":  risk.Medium,
		"very high": risk.Medium,
	}

	for input, want := range cases {
		if got := risk.ParseLevel(input); got != want {
			t.Fatalf("ParseLevel(%q) = %s, want %s", input, got, want)
		}
	}
}

func TestEndingMessageBands(t *testing.T) {
	giveUp := risk.EndingMessage(1.0)
	oneMore := risk.EndingMessage(0.5)
	finalPush := risk.EndingMessage(0.0)

	if giveUp == oneMore || oneMore == finalPush || giveUp == finalPush {
		t.Fatal("the three ending messages must be distinct")
	}

	// Band boundaries are inclusive lower bounds.
	if risk.EndingMessage(0.7) != giveUp {
		t.Fatal("0.7 should land in the give-up band")
	}
	if risk.EndingMessage(0.69) != oneMore {
		t.Fatal("0.69 should land in the one-more-attempt band")
	}
	if risk.EndingMessage(0.4) != oneMore {
		t.Fatal("0.4 should land in the one-more-attempt band")
	}
	if risk.EndingMessage(0.39) != finalPush {
		t.Fatal("0.39 should land in the final-push band")
	}

	if !strings.Contains(strings.ToLower(finalPush), "last chance") {
		t.Fatalf("unexpected final push message: %q", finalPush)
	}
}
