package simulation

import (
	"time"

	"github.com/guardline/vishsim/internal/analysis/tactic"
)

// CachedContext is a derived, disposable summary of a session used to keep
// prompts small. Losing an entry never changes correctness; it only forces a
// full prompt rebuild.
type CachedContext struct {
	SessionID            string          `json:"sessionId"`
	CompactHistory       string          `json:"compactHistory"`
	CurrentObjective     string          `json:"currentObjective"`
	TacticsUsed          []tactic.Tactic `json:"tacticsUsed"`
	ExchangeCount        int             `json:"exchangeCount"`
	LastTraineeMessage   string          `json:"lastTraineeMessage"`
	LastAdversaryMessage string          `json:"lastAdversaryMessage"`
	UpdatedAt            time.Time       `json:"updatedAt"`
}
