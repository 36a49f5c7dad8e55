// Package risk maps trainee behavior to risk levels and session outcomes.
//
// Two distinct windows are used on purpose: the per-turn risk level looks at
// only the last three exchanges (a fast-moving signal for the alert feed),
// while the session ending message is banded on the success rate of the whole
// session (a coarser, outcome-level measure). Unifying the two would change
// product behavior and needs review first.
package risk

// Level grades how exposed the trainee currently is.
type Level string

const (
	Low      Level = "low"
	Medium   Level = "medium"
	High     Level = "high"
	Critical Level = "critical"
)

// windowSize is the number of most recent trainee choices considered for the
// rolling risk level.
const windowSize = 3

// LevelFromChoices derives the current risk level from the trainee's choice
// history, true meaning a security-positive choice. Only the last three
// entries count; with no history the level is Medium. Band thresholds are
// inclusive lower bounds: >=0.8 Low, >=0.6 Medium, >=0.3 High, else Critical.
func LevelFromChoices(goodChoices []bool) Level {
	if len(goodChoices) == 0 {
		return Medium
	}

	window := goodChoices
	if len(window) > windowSize {
		window = window[len(window)-windowSize:]
	}

	good := 0
	for _, ok := range window {
		if ok {
			good++
		}
	}
	rate := float64(good) / float64(len(window))

	switch {
	case rate >= 0.8:
		return Low
	case rate >= 0.6:
		return Medium
	case rate >= 0.3:
		return High
	default:
		return Critical
	}
}

// Ending messages delivered once the turn cap is reached, keyed by the
// whole-session success rate.
const (
	endingGiveUp    = "You know what, forget it. You're clearly not going to help me today. I'll sort this out through the proper channels."
	endingOneMore   = "Alright, alright. Look, one last time: I just need you to confirm the account details and we're done here. Can you do that for me?"
	endingFinalPush = "Listen carefully. This is your last chance to fix this before it becomes a real problem. Read me the account information now and nobody has to hear about it."
)

// EndingMessage picks the deterministic call-closing line for the adversary
// based on the overall session success rate: resistant trainees make the
// caller give up, mixed performance earns one more attempt, and compliant
// trainees get a final push for compromise.
func EndingMessage(successRate float64) string {
	switch {
	case successRate >= 0.7:
		return endingGiveUp
	case successRate >= 0.4:
		return endingOneMore
	default:
		return endingFinalPush
	}
}
