package tactic

import "strings"

// Keyword buckets for the heuristic classifier. Checked in a fixed order so
// classification stays deterministic when a message matches several buckets.
var keywordBuckets = []struct {
	tactic   Tactic
	keywords []string
}{
	{Urgency, []string{"urgent", "immediately", "right now", "can't wait", "cannot wait", "asap", "time-sensitive"}},
	{Authority, []string{"manager", "ceo", "authorized", "approval", "director", "executive", "head office"}},
	{Fear, []string{"cancel", "lose", "problem", "trouble", "suspend", "terminated", "consequences"}},
	{SocialProof, []string{"everyone", "others", "normally", "usually", "your colleagues", "other branches"}},
	{Reciprocity, []string{"helped", "favor", "appreciate", "owe", "in return"}},
}

// Classify runs the keyword classifier over a caller message and returns the
// best-matching tactic. Messages matching no bucket default to Authority,
// the baseline posture of a vishing caller.
func Classify(message string) Tactic {
	normalized := strings.ToLower(strings.TrimSpace(message))
	if normalized == "" {
		return Authority
	}

	for _, bucket := range keywordBuckets {
		for _, word := range bucket.keywords {
			if strings.Contains(normalized, word) {
				return bucket.tactic
			}
		}
	}
	return Authority
}
