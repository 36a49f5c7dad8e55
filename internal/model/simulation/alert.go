package simulation

import (
	"time"

	"github.com/guardline/vishsim/internal/analysis/risk"
	"github.com/guardline/vishsim/internal/analysis/tactic"
)

// SecurityAlert records a manipulation pattern detected during the call. It
// is read-only after creation; trainees may mark it acknowledged.
type SecurityAlert struct {
	ID           string        `json:"id"`
	TriggeredAt  time.Time     `json:"triggeredAt"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Tactic       tactic.Tactic `json:"tactic"`
	RiskLevel    risk.Level    `json:"riskLevel"`
	Icon         string        `json:"icon"`
	Acknowledged bool          `json:"acknowledged"`
}
