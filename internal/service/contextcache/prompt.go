package contextcache

import (
	"fmt"
	"strings"

	"github.com/guardline/vishsim/internal/analysis/tactic"
	"github.com/guardline/vishsim/internal/model/scenario"
	"github.com/guardline/vishsim/internal/model/simulation"
)

// BuildPrompt renders the generation prompt for the next adversary message.
// In follow-up mode it prefers the cached compact context; on a miss it falls
// back to the full builder, which is always correct, just larger.
func (c *Cache) BuildPrompt(session *simulation.Session, scen scenario.Scenario, traineeText string, isFollowUp bool) string {
	if isFollowUp {
		if cached := c.Get(session.ID); cached != nil {
			return c.buildCompactPrompt(cached, scen, traineeText)
		}
	}
	return c.buildFullPrompt(session, scen, traineeText)
}

func (c *Cache) buildCompactPrompt(cached *simulation.CachedContext, scen scenario.Scenario, traineeText string) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "You are %s, %s at %s, running a pretext call.\n", scen.CallerName, scen.CallerRole, scen.Organization)
	fmt.Fprintf(&builder, "Current objective: %s.\n", cached.CurrentObjective)
	if len(cached.TacticsUsed) > 0 {
		fmt.Fprintf(&builder, "Tactics already tried: %s.\n", joinTactics(cached.TacticsUsed))
	}
	if cached.CompactHistory != "" {
		builder.WriteString("\nRecent conversation:\n")
		builder.WriteString(cached.CompactHistory)
		builder.WriteString("\n")
	}
	fmt.Fprintf(&builder, "\nThe trainee just said: %q\n", strings.TrimSpace(traineeText))
	builder.WriteString("Reply with the caller's next line only.")
	return builder.String()
}

func (c *Cache) buildFullPrompt(session *simulation.Session, scen scenario.Scenario, traineeText string) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "You are %s, %s at %s, running a pretext call.\n", scen.CallerName, scen.CallerRole, scen.Organization)
	fmt.Fprintf(&builder, "Scenario: %s\n", scen.Description)
	fmt.Fprintf(&builder, "Your goal: %s.\n", scen.Objective)
	fmt.Fprintf(&builder, "Current objective: %s.\n", inferObjective(session))
	if len(session.TacticsUsed) > 0 {
		fmt.Fprintf(&builder, "Tactics already tried: %s.\n", joinTactics(session.TacticsUsed))
	}

	if len(session.Exchanges) > 0 {
		builder.WriteString("\nConversation so far:\n")
		for _, ex := range session.Exchanges {
			fmt.Fprintf(&builder, "Caller: %s\n", ex.AdversaryMessage)
			if ex.TraineeResponse != "" {
				fmt.Fprintf(&builder, "Trainee: %s\n", ex.TraineeResponse)
			}
		}
	}

	fmt.Fprintf(&builder, "\nThe trainee just said: %q\n", strings.TrimSpace(traineeText))
	builder.WriteString("Reply with the caller's next line only.")
	return builder.String()
}

func joinTactics(tactics []tactic.Tactic) string {
	names := make([]string, 0, len(tactics))
	for _, t := range tactics {
		names = append(names, tactic.ProfileFor(t).DisplayName)
	}
	return strings.Join(names, ", ")
}
