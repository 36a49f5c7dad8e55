package simulation

import (
	"time"

	"github.com/guardline/vishsim/internal/analysis/risk"
	"github.com/guardline/vishsim/internal/analysis/tactic"
)

// SessionEvaluationResult is the post-call report card. Created once per
// evaluation and never mutated; re-evaluating a session produces a new
// instance.
type SessionEvaluationResult struct {
	SessionID          string                  `json:"sessionId"`
	SecurityScore      int                     `json:"securityScore"`
	OverallPerformance int                     `json:"overallPerformance"`
	Breaches           []SecurityBreach        `json:"breaches"`
	TacticAnalysis     []TacticSuccessAnalysis `json:"tacticAnalysis"`
	Recommendations    []Recommendation        `json:"recommendations"`
	Summary            string                  `json:"summary"`
	Risk               RiskAssessment          `json:"riskAssessment"`
	KeyStrengths       []string                `json:"keyStrengths"`
	GrowthAreas        []string                `json:"growthAreas"`
	FutureLearnings    []FutureLearning        `json:"futureLearnings"`
	Metrics            TrainingMetrics         `json:"metrics"`
	EvaluatedAt        time.Time               `json:"evaluatedAt"`
}

// SecurityBreach is one instance of the trainee giving ground to the caller.
type SecurityBreach struct {
	BreachType        string     `json:"breachType"`
	Description       string     `json:"description"`
	UserResponse      string     `json:"userResponse"`
	TurnNumber        int        `json:"turnNumber"`
	Severity          risk.Level `json:"severity"`
	ImpactExplanation string     `json:"impactExplanation"`
	PreventionAdvice  string     `json:"preventionAdvice"`
}

// TacticSuccessAnalysis reports how one manipulation tactic fared against the
// trainee.
type TacticSuccessAnalysis struct {
	Tactic          tactic.Tactic `json:"tactic"`
	WasSuccessful   bool          `json:"wasSuccessful"`
	HowItWorked     string        `json:"howItWorked"`
	Vulnerability   string        `json:"userVulnerability"`
	CounterStrategy string        `json:"counterStrategy"`
}

// Recommendation is actionable follow-up guidance for the trainee.
type Recommendation struct {
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	ActionableAdvice string     `json:"actionableAdvice"`
	Priority         risk.Level `json:"priority"`
	RoleContext      string     `json:"roleSpecificContext"`
}

// RiskAssessment summarizes the trainee's overall exposure profile.
type RiskAssessment struct {
	OverallRiskLevel        risk.Level `json:"overallRiskLevel"`
	PrimaryVulnerabilities  []string   `json:"primaryVulnerabilities"`
	PhishingResistanceScore float64    `json:"phishingResistanceScore"`
	RiskProfile             string     `json:"riskProfile"`
}

// FutureLearning points the trainee at a follow-up resource.
type FutureLearning struct {
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	EstimatedTime string     `json:"estimatedTime"`
	ResourceType  string     `json:"resourceType"`
	Priority      risk.Level `json:"priority"`
}

// TrainingMetrics carries the quantitative session summary.
type TrainingMetrics struct {
	CompletionTime  time.Duration `json:"completionTime"`
	ThreatsDetected int           `json:"threatsDetected"`
	TotalExchanges  int           `json:"totalExchanges"`
	AvgResponseTime time.Duration `json:"avgResponseTime"`
	Grade           string        `json:"grade"`
}
