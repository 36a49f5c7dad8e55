package evaluator

import (
	"fmt"
	"strings"
	"time"

	"github.com/guardline/vishsim/internal/analysis/risk"
	"github.com/guardline/vishsim/internal/analysis/tactic"
	"github.com/guardline/vishsim/internal/model/simulation"
)

// Breach type names used by both the fallback evaluation and recommendation
// seeding.
const (
	breachUrgencyCompliance = "Urgency Compliance"
	breachInfoModification  = "Information Modification Without Verification"
	breachOverlyHelpful     = "Overly Helpful Response"
)

var verificationLanguage = []string{"verify", "verification", "security", "confirm your identity", "call back", "callback"}

// DetectBreaches runs the local rule set over the exchanges. Each completed
// trainee response is checked against every rule; matches are additive.
func DetectBreaches(exchanges []simulation.Exchange) []simulation.SecurityBreach {
	var breaches []simulation.SecurityBreach

	for i, ex := range exchanges {
		response := strings.ToLower(ex.TraineeResponse)
		if strings.TrimSpace(response) == "" {
			continue
		}
		verified := containsAny(response, verificationLanguage)

		if !verified && containsAny(response, []string{"right away", "immediately", "sure"}) {
			breaches = append(breaches, simulation.SecurityBreach{
				BreachType:        breachUrgencyCompliance,
				Description:       "Complied with a time-pressured request without verifying the caller first.",
				UserResponse:      ex.TraineeResponse,
				TurnNumber:        i + 1,
				Severity:          risk.High,
				ImpactExplanation: "Rushing past verification is exactly what urgency pressure is designed to achieve.",
				PreventionAdvice:  "Slow down. A legitimate request survives the time it takes to verify the caller.",
			})
		}

		if !verified && strings.Contains(response, "update") && (strings.Contains(response, "account") || strings.Contains(response, "info")) {
			breaches = append(breaches, simulation.SecurityBreach{
				BreachType:        breachInfoModification,
				Description:       "Offered to modify account information without any verification step.",
				UserResponse:      ex.TraineeResponse,
				TurnNumber:        i + 1,
				Severity:          risk.Critical,
				ImpactExplanation: "Changing account or payment details on a caller's say-so enables direct financial fraud.",
				PreventionAdvice:  "Never change account data on an inbound call; verify through an independent channel first.",
			})
		}

		if !verified && strings.Contains(response, "help") {
			breaches = append(breaches, simulation.SecurityBreach{
				BreachType:        breachOverlyHelpful,
				Description:       "Offered open-ended help without establishing who the caller is.",
				UserResponse:      ex.TraineeResponse,
				TurnNumber:        i + 1,
				Severity:          risk.Medium,
				ImpactExplanation: "Accommodating unverified callers invites incremental requests that escalate.",
				PreventionAdvice:  "Be helpful after verification, not before.",
			})
		}
	}
	return breaches
}

// fallbackEvaluation synthesizes a deterministic report from the breach rules
// when no collaborator could produce a usable one.
func (e *Evaluator) fallbackEvaluation(session *simulation.Session) *simulation.SessionEvaluationResult {
	breaches := DetectBreaches(session.Exchanges)

	score := 100 - 20*len(breaches)
	if score < 0 {
		score = 0
	}

	strengths, growth := strengthsAndGrowth(session, breaches)

	result := &simulation.SessionEvaluationResult{
		SessionID:          session.ID,
		SecurityScore:      score,
		OverallPerformance: score,
		Breaches:           breaches,
		TacticAnalysis:     e.tacticAnalysis(session),
		Recommendations:    recommendationsFromBreaches(breaches),
		Summary:            fallbackSummary(score, len(breaches)),
		Risk:               fallbackRiskAssessment(session, breaches),
		KeyStrengths:       strengths,
		GrowthAreas:        growth,
		FutureLearnings:    fallbackLearnings(breaches),
		Metrics:            computeMetrics(session, score),
		EvaluatedAt:        time.Now().UTC(),
	}
	return result
}

func strengthsAndGrowth(session *simulation.Session, breaches []simulation.SecurityBreach) (strengths, growth []string) {
	usedVerification := false
	citedSecurity := false
	escalated := false
	for _, ex := range session.Exchanges {
		response := strings.ToLower(ex.TraineeResponse)
		if strings.Contains(response, "verify") {
			usedVerification = true
		}
		if strings.Contains(response, "security") {
			citedSecurity = true
		}
		if strings.Contains(response, "supervisor") {
			escalated = true
		}
	}

	if usedVerification {
		strengths = append(strengths, "Asked to verify the caller's identity before acting")
	}
	if citedSecurity {
		strengths = append(strengths, "Cited security policy when pushing back")
	}
	if escalated {
		strengths = append(strengths, "Escalated the suspicious request to a supervisor")
	}
	if len(strengths) == 0 {
		strengths = append(strengths, "Completed the full simulated call")
	}

	seen := map[string]bool{}
	for _, b := range breaches {
		if seen[b.BreachType] {
			continue
		}
		seen[b.BreachType] = true
		switch b.BreachType {
		case breachUrgencyCompliance:
			growth = append(growth, "Resisting artificial time pressure")
		case breachInfoModification:
			growth = append(growth, "Refusing account changes on unverified calls")
		case breachOverlyHelpful:
			growth = append(growth, "Balancing helpfulness with caller verification")
		}
	}
	if len(growth) == 0 {
		growth = append(growth, "Keep practicing against higher-difficulty scenarios")
	}
	return strengths, growth
}

func (e *Evaluator) tacticAnalysis(session *simulation.Session) []simulation.TacticSuccessAnalysis {
	seen := map[tactic.Tactic]bool{}
	var analyses []simulation.TacticSuccessAnalysis

	for _, t := range session.TacticsUsed {
		if seen[t] {
			continue
		}
		seen[t] = true

		total, resisted := 0, 0
		for _, ex := range session.Exchanges {
			if ex.Tactic != t || ex.TraineeResponse == "" {
				continue
			}
			total++
			if ex.GoodChoice {
				resisted++
			}
		}

		succeeded := total > 0 && resisted*2 < total
		profile := tactic.ProfileFor(t)
		analysis := simulation.TacticSuccessAnalysis{
			Tactic:          t,
			WasSuccessful:   succeeded,
			HowItWorked:     profile.AlertDescription,
			CounterStrategy: profile.AlertTitle + ": pause, verify, and escalate through known channels.",
		}
		if succeeded {
			analysis.Vulnerability = fmt.Sprintf("Yielded to %s pressure in %d of %d exchanges", profile.DisplayName, total-resisted, total)
		}
		analyses = append(analyses, analysis)
	}
	return analyses
}

func recommendationsFromBreaches(breaches []simulation.SecurityBreach) []simulation.Recommendation {
	seen := map[string]bool{}
	var recs []simulation.Recommendation

	for _, b := range breaches {
		if seen[b.BreachType] {
			continue
		}
		seen[b.BreachType] = true

		switch b.BreachType {
		case breachUrgencyCompliance:
			recs = append(recs, simulation.Recommendation{
				Title:            "Slow down under pressure",
				Description:      "Urgency is manufactured to stop you from thinking. The tighter the deadline, the more suspicious the request.",
				ActionableAdvice: "Adopt a personal rule: any 'right now' request gets a callback through a number you look up yourself.",
				Priority:         risk.High,
				RoleContext:      "Front-line staff are the primary target of urgency-based pretexts.",
			})
		case breachInfoModification:
			recs = append(recs, simulation.Recommendation{
				Title:            "Lock down account changes",
				Description:      "Account and payment detail changes are the payoff of most vishing calls.",
				ActionableAdvice: "Route every change request through the documented verification workflow, no exceptions for seniority or urgency.",
				Priority:         risk.High,
				RoleContext:      "Anyone with write access to account or payment data needs this reflex.",
			})
		case breachOverlyHelpful:
			recs = append(recs, simulation.Recommendation{
				Title:            "Verify before you help",
				Description:      "Attackers exploit service culture: the instinct to help is turned into an access path.",
				ActionableAdvice: "Start every inbound request with identity verification, then be as helpful as you like.",
				Priority:         risk.Medium,
				RoleContext:      "Support and helpdesk roles see this pattern most often.",
			})
		}
	}

	if len(recs) == 0 {
		recs = append(recs, simulation.Recommendation{
			Title:            "Maintain your verification habit",
			Description:      "No breaches were detected this session. The goal now is consistency under varied pretexts.",
			ActionableAdvice: "Try an advanced scenario to pressure-test the habit.",
			Priority:         risk.Low,
		})
	}
	return recs
}

func fallbackSummary(score, breachCount int) string {
	if breachCount == 0 {
		return "The trainee held the line throughout the call: no security breaches were detected, and pressure tactics did not produce compliance."
	}
	return fmt.Sprintf("The trainee gave ground %d time(s) during the call, for a security score of %d. Review the breach list: each entry pairs the risky response with concrete prevention advice.", breachCount, score)
}

func fallbackRiskAssessment(session *simulation.Session, breaches []simulation.SecurityBreach) simulation.RiskAssessment {
	var vulnerabilities []string
	seen := map[string]bool{}
	for _, b := range breaches {
		if !seen[b.BreachType] {
			seen[b.BreachType] = true
			vulnerabilities = append(vulnerabilities, b.BreachType)
		}
	}

	rate := session.SuccessRate()
	level := risk.Critical
	switch {
	case rate >= 0.8:
		level = risk.Low
	case rate >= 0.6:
		level = risk.Medium
	case rate >= 0.3:
		level = risk.High
	}

	return simulation.RiskAssessment{
		OverallRiskLevel:        level,
		PrimaryVulnerabilities:  vulnerabilities,
		PhishingResistanceScore: rate * 100,
		RiskProfile:             fmt.Sprintf("Resisted manipulation in %.0f%% of exchanges", rate*100),
	}
}

func fallbackLearnings(breaches []simulation.SecurityBreach) []simulation.FutureLearning {
	learnings := []simulation.FutureLearning{{
		Title:         "Caller verification fundamentals",
		Description:   "A short refresher on verifying inbound callers before disclosing or changing anything.",
		EstimatedTime: "15 minutes",
		ResourceType:  "course",
		Priority:      risk.Medium,
	}}

	if len(breaches) > 0 {
		learnings = append(learnings, simulation.FutureLearning{
			Title:         "Recognizing pressure tactics",
			Description:   "Deep dive on urgency, authority, and fear appeals with recorded call examples.",
			EstimatedTime: "30 minutes",
			ResourceType:  "video",
			Priority:      risk.High,
		})
	}
	return learnings
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}
