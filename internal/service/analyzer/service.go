// Package analyzer classifies adversary messages into manipulation tactics
// and raises security alerts for the trainee-facing feed. Classification asks
// the language model first and falls back to the keyword table when the model
// is down or its answer does not parse.
package analyzer

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/guardline/vishsim/internal/analysis/risk"
	analysis "github.com/guardline/vishsim/internal/analysis/tactic"
	"github.com/guardline/vishsim/internal/model/simulation"
	"github.com/guardline/vishsim/internal/service/ai"
)

// Service detects manipulation patterns in a session.
type Service struct {
	collab ai.Collaborator
}

// NewService builds an analyzer. collab may be nil; everything then runs on
// the keyword classifier.
func NewService(collab ai.Collaborator) *Service {
	return &Service{collab: collab}
}

const classifyPrompt = `Classify the manipulation tactic in this social-engineering message. Answer with exactly one of: authority, urgency, fear, reciprocity, social_proof, scarcity, commitment, liking.

Message: %q`

// DetectTactic names the single best-matching tactic for an adversary
// message. The language model is consulted first; an unusable reply drops to
// the deterministic keyword classifier.
func (s *Service) DetectTactic(ctx context.Context, message string) analysis.Tactic {
	if s.collab != nil && s.collab.IsAvailable() {
		reply, err := s.collab.Generate(ctx, fmt.Sprintf(classifyPrompt, message), nil)
		if err != nil {
			log.Printf("[analyzer] classification call failed, using keyword fallback: %v", err)
		} else if t, ok := analysis.Parse(reply); ok {
			return t
		} else {
			log.Printf("[analyzer] unparsable tactic reply %q, using keyword fallback", strings.TrimSpace(reply))
		}
	}
	return analysis.Classify(message)
}

var bypassPhrases = []string{"skip", "bypass", "don't need", "do not need", "already verified", "waste time"}

// GenerateAlerts produces the alert set for the session's most recent
// adversary message: one tactic-specific alert, plus an escalation-pattern
// alert when Fear or Authority dominates the last three exchanges, plus a
// verification-bypass alert when the message leans on bypass language.
// Alerts are additive and deterministic for an unchanged session; the caller
// appends them to the session's alert list.
func (s *Service) GenerateAlerts(ctx context.Context, session *simulation.Session) []simulation.SecurityAlert {
	last := session.LastExchange()
	if last == nil {
		return nil
	}

	now := time.Now().UTC()
	turn := len(session.Exchanges)
	detected := s.DetectTactic(ctx, last.AdversaryMessage)
	profile := analysis.ProfileFor(detected)

	alerts := []simulation.SecurityAlert{{
		ID:          fmt.Sprintf("%s-%d-tactic", session.ID, turn),
		TriggeredAt: now,
		Title:       profile.AlertTitle,
		Description: profile.AlertDescription,
		Tactic:      detected,
		RiskLevel:   risk.LevelFromChoices(session.ChoiceHistory()),
		Icon:        profile.Icon,
	}}

	if hasEscalationPattern(session.Exchanges) {
		alerts = append(alerts, simulation.SecurityAlert{
			ID:          fmt.Sprintf("%s-%d-escalation", session.ID, turn),
			TriggeredAt: now,
			Title:       "Escalating Pressure Pattern",
			Description: "The caller has leaned on fear or authority in most of the recent exchanges. Sustained pressure like this is a hallmark of social engineering.",
			Tactic:      detected,
			RiskLevel:   risk.High,
			Icon:        "trending-up",
		})
	}

	if containsBypassLanguage(last.AdversaryMessage) {
		alerts = append(alerts, simulation.SecurityAlert{
			ID:          fmt.Sprintf("%s-%d-bypass", session.ID, turn),
			TriggeredAt: now,
			Title:       "Verification Bypass Attempt",
			Description: "The caller is trying to talk you out of standard verification steps. Legitimate callers never need verification skipped.",
			Tactic:      detected,
			RiskLevel:   risk.High,
			Icon:        "shield-off",
		})
	}

	return alerts
}

// ResistanceScore is the fraction of exchanges using the given tactic where
// the trainee made the security-positive choice. A tactic never used scores
// 1.0, vacuously resistant.
func (s *Service) ResistanceScore(exchanges []simulation.Exchange, t analysis.Tactic) float64 {
	total := 0
	resisted := 0
	for _, ex := range exchanges {
		if ex.Tactic != t {
			continue
		}
		total++
		if ex.GoodChoice {
			resisted++
		}
	}
	if total == 0 {
		return 1.0
	}
	return float64(resisted) / float64(total)
}

func hasEscalationPattern(exchanges []simulation.Exchange) bool {
	window := exchanges
	if len(window) > 3 {
		window = window[len(window)-3:]
	}

	pressured := 0
	for _, ex := range window {
		if ex.Tactic == analysis.Fear || ex.Tactic == analysis.Authority {
			pressured++
		}
	}
	return pressured >= 2
}

func containsBypassLanguage(message string) bool {
	normalized := strings.ToLower(message)
	for _, phrase := range bypassPhrases {
		if strings.Contains(normalized, phrase) {
			return true
		}
	}
	return false
}
