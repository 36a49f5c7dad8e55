// Package turn delivers simulation turns over HTTP: a plain JSON endpoint and
// an SSE variant that streams the turn's events as they resolve.
package turn

import (
	"context"
	"fmt"
	"log"

	"github.com/guardline/vishsim/internal/model/simulation"
	"github.com/guardline/vishsim/internal/service/analyzer"
	"github.com/guardline/vishsim/internal/service/orchestrator"
	"github.com/guardline/vishsim/internal/store"
)

// Processor composes the orchestrator with the manipulation analyzer: one
// trainee turn in, the caller's next line plus any raised alerts out.
type Processor struct {
	orch     *orchestrator.Orchestrator
	analyzer *analyzer.Service
	repo     store.Repository
}

// NewProcessor wires a turn processor.
func NewProcessor(orch *orchestrator.Orchestrator, analyzerSvc *analyzer.Service, repo store.Repository) *Processor {
	return &Processor{orch: orch, analyzer: analyzerSvc, repo: repo}
}

// Outcome is the full result of one processed turn.
type Outcome struct {
	Result    *orchestrator.TurnResult
	NewAlerts []simulation.SecurityAlert
}

// Process advances the session and, for a live turn, runs alert generation
// over the caller's new message. Alert persistence is best-effort: a failed
// save loses the alert records but never the turn itself.
func (p *Processor) Process(ctx context.Context, sessionID, message string) (*Outcome, error) {
	result, err := p.orch.Advance(ctx, sessionID, message)
	if err != nil {
		return nil, fmt.Errorf("advance session: %w", err)
	}

	outcome := &Outcome{Result: result}
	if result.Ended {
		return outcome, nil
	}

	alerts := p.analyzer.GenerateAlerts(ctx, result.Session)
	if len(alerts) > 0 {
		result.Session.Alerts = append(result.Session.Alerts, alerts...)
		if err := p.repo.Save(ctx, result.Session); err != nil {
			log.Printf("[turn] session=%s failed to persist alerts: %v", sessionID, err)
		}
		outcome.NewAlerts = alerts
	}
	return outcome, nil
}
