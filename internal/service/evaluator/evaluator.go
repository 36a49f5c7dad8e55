// Package evaluator produces the post-session report card. It asks the
// primary language model for a structured evaluation, falls back to a
// secondary model, and when both fail or return unusable output synthesizes a
// deterministic evaluation from local breach-detection rules. A session
// always gets evaluated, no matter how broken the AI backends are.
package evaluator

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/guardline/vishsim/internal/model/scenario"
	"github.com/guardline/vishsim/internal/model/simulation"
	"github.com/guardline/vishsim/internal/service/ai"
)

// Evaluator scores completed sessions.
type Evaluator struct {
	primary   ai.Collaborator
	secondary ai.Collaborator
}

// New wires the evaluator. Either collaborator may be nil.
func New(primary, secondary ai.Collaborator) *Evaluator {
	return &Evaluator{primary: primary, secondary: secondary}
}

// Evaluate builds the full transcript, requests a structured evaluation, and
// degrades through the secondary collaborator down to the rule-based fallback
// when necessary. The result is immutable; re-evaluation produces a new one.
func (e *Evaluator) Evaluate(ctx context.Context, session *simulation.Session, scen scenario.Scenario) *simulation.SessionEvaluationResult {
	transcript := buildTranscript(session, scen)
	promptText := evaluationPrompt + "\n\n" + transcript

	for _, collab := range []ai.Collaborator{e.primary, e.secondary} {
		if collab == nil || !collab.IsAvailable() {
			continue
		}

		reply, err := collab.Generate(ctx, promptText, nil)
		if err != nil {
			log.Printf("[evaluator] session=%s collaborator failed: %v", session.ID, err)
			continue
		}

		result, err := parseEvaluation(session.ID, reply)
		if err != nil {
			log.Printf("[evaluator] session=%s unparsable evaluation, trying next: %v", session.ID, err)
			continue
		}

		result.Metrics = computeMetrics(session, result.SecurityScore)
		result.EvaluatedAt = time.Now().UTC()
		return result
	}

	log.Printf("[evaluator] session=%s using rule-based fallback evaluation", session.ID)
	return e.fallbackEvaluation(session)
}

// buildTranscript renders the scenario framing and the ordered exchanges.
func buildTranscript(session *simulation.Session, scen scenario.Scenario) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "Scenario: %s\n", scen.Description)
	fmt.Fprintf(&builder, "Caller persona: %s, %s at %s\n", scen.CallerName, scen.CallerRole, scen.Organization)
	fmt.Fprintf(&builder, "Caller objective: %s\n\nTranscript:\n", scen.Objective)

	for i, ex := range session.Exchanges {
		fmt.Fprintf(&builder, "[turn %d] Caller (%s): %s\n", i+1, ex.Tactic, ex.AdversaryMessage)
		if ex.TraineeResponse != "" {
			fmt.Fprintf(&builder, "[turn %d] Trainee: %s\n", i+1, ex.TraineeResponse)
		}
	}
	return builder.String()
}

const evaluationPrompt = `You are a security-awareness trainer reviewing a completed voice-phishing simulation. Evaluate the trainee's performance over the transcript below.

Respond with a single JSON object and nothing else, using exactly these keys:
{
  "securityScore": <0-100>,
  "overallPerformance": <0-100>,
  "summaryFeedback": "<paragraph>",
  "keyStrengths": ["..."],
  "growthAreas": ["..."],
  "riskAssessment": {
    "overallRiskLevel": "Low|Medium|High|Critical",
    "primaryVulnerabilities": ["..."],
    "phishingResistanceScore": <0-100>,
    "riskProfile": "<sentence>"
  },
  "securityBreaches": [{"breachType": "...", "description": "...", "userResponse": "...", "turnNumber": <n>, "severity": "Low|Medium|High|Critical", "impactExplanation": "...", "preventionAdvice": "..."}],
  "tacticAnalysis": [{"tactic": "...", "wasSuccessful": <bool>, "howItWorked": "...", "userVulnerability": "...", "counterStrategy": "..."}],
  "recommendations": [{"title": "...", "description": "...", "actionableAdvice": "...", "priority": "Low|Medium|High", "roleSpecificContext": "..."}],
  "futureLearnings": [{"title": "...", "description": "...", "estimatedTime": "...", "resourceType": "...", "priority": "Low|Medium|High"}]
}`

// computeMetrics derives the quantitative summary from the session itself,
// never from collaborator output.
func computeMetrics(session *simulation.Session, score int) simulation.TrainingMetrics {
	completion := session.Duration()

	var avg time.Duration
	if n := len(session.Exchanges); n > 0 {
		avg = completion / time.Duration(n)
	}

	return simulation.TrainingMetrics{
		CompletionTime:  completion,
		ThreatsDetected: len(session.Alerts),
		TotalExchanges:  len(session.Exchanges),
		AvgResponseTime: avg,
		Grade:           Grade(score),
	}
}

// Grade maps a 0-100 score to a letter grade in five-point bands.
func Grade(score int) string {
	switch {
	case score >= 90:
		return "A+"
	case score >= 85:
		return "A"
	case score >= 80:
		return "A-"
	case score >= 75:
		return "B+"
	case score >= 70:
		return "B"
	case score >= 65:
		return "B-"
	case score >= 60:
		return "C+"
	case score >= 55:
		return "C"
	case score >= 50:
		return "C-"
	case score >= 40:
		return "D"
	default:
		return "F"
	}
}
