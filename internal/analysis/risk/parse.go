package risk

import "strings"

// ParseLevel maps free text to a Level, case-insensitively. Unrecognized
// values resolve to Medium so a sloppy collaborator reply never breaks an
// evaluation.
func ParseLevel(raw string) Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "low":
		return Low
	case "medium":
		return Medium
	case "high":
		return High
	case "critical":
		return Critical
	default:
		return Medium
	}
}
