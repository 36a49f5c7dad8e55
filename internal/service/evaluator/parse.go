package evaluator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/guardline/vishsim/internal/analysis/risk"
	"github.com/guardline/vishsim/internal/analysis/tactic"
	"github.com/guardline/vishsim/internal/model/simulation"
)

// parseEvaluation decodes a collaborator's structured evaluation. Only the
// outer JSON decode can fail; individual fields are read defensively, with
// anything missing or mistyped degrading to its zero value.
func parseEvaluation(sessionID, content string) (*simulation.SessionEvaluationResult, error) {
	trimmed := strings.TrimSpace(content)
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, fmt.Errorf("missing json object")
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(trimmed[start:end+1]), &payload); err != nil {
		return nil, fmt.Errorf("decode evaluation: %w", err)
	}

	result := &simulation.SessionEvaluationResult{
		SessionID:          sessionID,
		SecurityScore:      clampScore(asInt(payload["securityScore"])),
		OverallPerformance: clampScore(asInt(payload["overallPerformance"])),
		Summary:            asString(payload["summaryFeedback"]),
		KeyStrengths:       asStringSlice(payload["keyStrengths"]),
		GrowthAreas:        asStringSlice(payload["growthAreas"]),
		Risk:               parseRiskAssessment(payload["riskAssessment"]),
		Breaches:           parseBreaches(payload["securityBreaches"]),
		TacticAnalysis:     parseTacticAnalysis(payload["tacticAnalysis"]),
		Recommendations:    parseRecommendations(payload["recommendations"]),
		FutureLearnings:    parseFutureLearnings(payload["futureLearnings"]),
	}
	return result, nil
}

func parseRiskAssessment(raw any) simulation.RiskAssessment {
	obj, ok := raw.(map[string]any)
	if !ok {
		return simulation.RiskAssessment{OverallRiskLevel: risk.Medium}
	}
	return simulation.RiskAssessment{
		OverallRiskLevel:        risk.ParseLevel(asString(obj["overallRiskLevel"])),
		PrimaryVulnerabilities:  asStringSlice(obj["primaryVulnerabilities"]),
		PhishingResistanceScore: asFloat(obj["phishingResistanceScore"]),
		RiskProfile:             asString(obj["riskProfile"]),
	}
}

func parseBreaches(raw any) []simulation.SecurityBreach {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}

	breaches := make([]simulation.SecurityBreach, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		breaches = append(breaches, simulation.SecurityBreach{
			BreachType:        asString(obj["breachType"]),
			Description:       asString(obj["description"]),
			UserResponse:      asString(obj["userResponse"]),
			TurnNumber:        asInt(obj["turnNumber"]),
			Severity:          risk.ParseLevel(asString(obj["severity"])),
			ImpactExplanation: asString(obj["impactExplanation"]),
			PreventionAdvice:  asString(obj["preventionAdvice"]),
		})
	}
	return breaches
}

func parseTacticAnalysis(raw any) []simulation.TacticSuccessAnalysis {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}

	analyses := make([]simulation.TacticSuccessAnalysis, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}

		t, known := tactic.Parse(asString(obj["tactic"]))
		if !known {
			t = tactic.Authority
		}
		analyses = append(analyses, simulation.TacticSuccessAnalysis{
			Tactic:          t,
			WasSuccessful:   asBool(obj["wasSuccessful"]),
			HowItWorked:     asString(obj["howItWorked"]),
			Vulnerability:   asString(obj["userVulnerability"]),
			CounterStrategy: asString(obj["counterStrategy"]),
		})
	}
	return analyses
}

func parseRecommendations(raw any) []simulation.Recommendation {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}

	recs := make([]simulation.Recommendation, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		recs = append(recs, simulation.Recommendation{
			Title:            asString(obj["title"]),
			Description:      asString(obj["description"]),
			ActionableAdvice: asString(obj["actionableAdvice"]),
			Priority:         risk.ParseLevel(asString(obj["priority"])),
			RoleContext:      asString(obj["roleSpecificContext"]),
		})
	}
	return recs
}

func parseFutureLearnings(raw any) []simulation.FutureLearning {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}

	learnings := make([]simulation.FutureLearning, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		learnings = append(learnings, simulation.FutureLearning{
			Title:         asString(obj["title"]),
			Description:   asString(obj["description"]),
			EstimatedTime: asString(obj["estimatedTime"]),
			ResourceType:  asString(obj["resourceType"]),
			Priority:      risk.ParseLevel(asString(obj["priority"])),
		})
	}
	return learnings
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asFloat(v any) float64 {
	f, _ := v.(float64)
	return f
}

func asInt(v any) int {
	return int(asFloat(v))
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func asStringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
