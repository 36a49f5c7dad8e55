// Package orchestrator drives the turn loop of a simulation: it completes the
// trainee's side of the previous exchange, picks the next tactic, asks the
// language model for the caller's next line, and records the result. A failed
// generation never aborts the session; a canned fallback line is substituted.
//
// Sessions are single-writer: the transport layer is expected to serialize
// turns per session, since concurrent Advance calls would race on exchange
// counts and double-append exchanges.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/guardline/vishsim/internal/analysis/risk"
	analysis "github.com/guardline/vishsim/internal/analysis/tactic"
	"github.com/guardline/vishsim/internal/model/scenario"
	"github.com/guardline/vishsim/internal/model/simulation"
	"github.com/guardline/vishsim/internal/service/ai"
	"github.com/guardline/vishsim/internal/service/analyzer"
	"github.com/guardline/vishsim/internal/service/contextcache"
	tacticservice "github.com/guardline/vishsim/internal/service/tactic"
	"github.com/guardline/vishsim/internal/store"
)

var (
	ErrScenarioNotFound = errors.New("scenario not found")
	ErrSessionEnded     = errors.New("session already ended")
)

// DefaultMaxTurns is the hard cap on exchanges per session. It bounds model
// cost and prevents runaway sessions.
const DefaultMaxTurns = 20

// TurnResult is what one Advance call hands back to the transport layer.
type TurnResult struct {
	Session          *simulation.Session
	AdversaryMessage string
	Tactic           analysis.Tactic
	EscalationLevel  int
	RiskLevel        risk.Level
	Ended            bool
}

// Orchestrator sequences simulation turns.
type Orchestrator struct {
	repo      store.Repository
	scenarios scenario.Store
	cache     *contextcache.Cache
	selector  *tacticservice.Selector
	collab    ai.Collaborator
	maxTurns  int
}

// New wires an orchestrator. collab may be nil or unavailable; the simulation
// then runs entirely on fallback responses.
func New(repo store.Repository, scenarios scenario.Store, cache *contextcache.Cache, selector *tacticservice.Selector, collab ai.Collaborator, maxTurns int) *Orchestrator {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	return &Orchestrator{
		repo:      repo,
		scenarios: scenarios,
		cache:     cache,
		selector:  selector,
		collab:    collab,
		maxTurns:  maxTurns,
	}
}

// MaxTurns reports the configured turn cap.
func (o *Orchestrator) MaxTurns() int { return o.maxTurns }

// StartSession creates a new active session for the scenario and seeds it
// with the caller's opening line.
func (o *Orchestrator) StartSession(ctx context.Context, traineeID, scenarioID string) (*simulation.Session, error) {
	scen, ok := o.scenarios.FindByID(scenarioID)
	if !ok {
		return nil, ErrScenarioNotFound
	}

	now := time.Now().UTC()
	session := &simulation.Session{
		ID:         uuid.NewString(),
		TraineeID:  traineeID,
		ScenarioID: scen.ID,
		State:      simulation.CallActive,
		StartedAt:  now,
		UpdatedAt:  now,
		Exchanges: []simulation.Exchange{{
			ID:               uuid.NewString(),
			Timestamp:        now,
			AdversaryMessage: scen.OpeningLine,
			Tactic:           analysis.Authority,
		}},
		TacticsUsed: []analysis.Tactic{analysis.Authority},
	}

	if err := o.repo.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save new session: %w", err)
	}
	o.cache.Update(session, scen.OpeningLine)

	log.Printf("[orchestrator] session=%s started, scenario=%s", session.ID, scen.ID)
	return session, nil
}

// Advance processes one trainee turn and returns the caller's next message.
// At the turn cap it returns a deterministic ending message keyed by the
// whole-session success rate and closes the call without touching the
// language model.
func (o *Orchestrator) Advance(ctx context.Context, sessionID, traineeResponse string) (*TurnResult, error) {
	session, err := o.repo.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session.State == simulation.CallEnded {
		return nil, ErrSessionEnded
	}

	scen, ok := o.scenarios.FindByID(session.ScenarioID)
	if !ok {
		return nil, ErrScenarioNotFound
	}

	o.completeTraineeTurn(session, traineeResponse)

	if o.cache.HasReachedTurnLimit(session, o.maxTurns) {
		ending := risk.EndingMessage(session.SuccessRate())
		session.State = simulation.CallEnded
		session.EndedAt = time.Now().UTC()
		session.UpdatedAt = session.EndedAt
		if err := o.repo.Save(ctx, session); err != nil {
			return nil, fmt.Errorf("save ended session: %w", err)
		}
		o.cache.Delete(session.ID)

		log.Printf("[orchestrator] session=%s hit turn limit at %d exchanges", session.ID, len(session.Exchanges))
		return &TurnResult{
			Session:          session,
			AdversaryMessage: ending,
			RiskLevel:        risk.LevelFromChoices(session.ChoiceHistory()),
			Ended:            true,
		}, nil
	}

	isFollowUp := len(session.Exchanges) > 3
	promptText := o.cache.BuildPrompt(session, scen, traineeResponse, isFollowUp)
	nextTactic := o.selector.Next(session, traineeResponse)
	level := o.selector.EscalationLevel(session)

	message := o.generate(ctx, session, promptText, nextTactic, level)

	now := time.Now().UTC()
	session.Exchanges = append(session.Exchanges, simulation.Exchange{
		ID:               uuid.NewString(),
		Timestamp:        now,
		AdversaryMessage: message,
		Tactic:           nextTactic,
	})
	session.TacticsUsed = append(session.TacticsUsed, nextTactic)
	session.UpdatedAt = now

	if err := o.repo.Save(ctx, session); err != nil {
		// The generated line is lost for this turn; the trainee can retry.
		return nil, fmt.Errorf("save session: %w", err)
	}
	o.cache.Update(session, message)

	return &TurnResult{
		Session:          session,
		AdversaryMessage: message,
		Tactic:           nextTactic,
		EscalationLevel:  level,
		RiskLevel:        risk.LevelFromChoices(session.ChoiceHistory()),
	}, nil
}

// EndSession closes a session explicitly, ahead of the turn cap.
func (o *Orchestrator) EndSession(ctx context.Context, sessionID string) (*simulation.Session, error) {
	session, err := o.repo.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session.State == simulation.CallEnded {
		return session, nil
	}

	session.State = simulation.CallEnded
	session.EndedAt = time.Now().UTC()
	session.UpdatedAt = session.EndedAt
	if err := o.repo.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save ended session: %w", err)
	}
	o.cache.Delete(session.ID)
	return session, nil
}

// completeTraineeTurn fills in the trainee side of the open exchange, if any.
func (o *Orchestrator) completeTraineeTurn(session *simulation.Session, traineeResponse string) {
	last := session.LastExchange()
	if last == nil || last.TraineeResponse != "" {
		return
	}

	trimmed := strings.TrimSpace(traineeResponse)
	last.TraineeResponse = trimmed
	last.ResponseSeconds = time.Since(last.Timestamp).Seconds()
	last.GoodChoice = analyzer.IsSecurityPositive(trimmed)
}

func (o *Orchestrator) generate(ctx context.Context, session *simulation.Session, promptText string, nextTactic analysis.Tactic, level int) string {
	if o.collab == nil || !o.collab.IsAvailable() {
		return o.cache.FallbackResponse(session)
	}

	profile := analysis.ProfileFor(nextTactic)
	contextVars := map[string]string{
		"tactic":           profile.DisplayName,
		"tactic_guidance":  profile.PromptHint,
		"escalation_level": fmt.Sprintf("%d of 5", level),
	}

	message, err := o.collab.Generate(ctx, promptText, contextVars)
	if err != nil {
		log.Printf("[orchestrator] session=%s generation failed, using fallback: %v", session.ID, err)
		return o.cache.FallbackResponse(session)
	}
	return strings.TrimSpace(message)
}
