package analyzer

import "strings"

// Cues that mark a trainee response as security-positive: insisting on
// verification, citing policy, or routing the caller to proper channels.
var securityPositiveCues = []string{
	"verify", "verification", "security", "supervisor", "call back", "callback",
	"policy", "protocol", "confirm your identity", "not authorized", "cannot share",
	"can't share", "won't share",
}

// IsSecurityPositive classifies a trainee response as a good (security-
// positive) choice.
func IsSecurityPositive(response string) bool {
	normalized := strings.ToLower(response)
	for _, cue := range securityPositiveCues {
		if strings.Contains(normalized, cue) {
			return true
		}
	}
	return false
}
