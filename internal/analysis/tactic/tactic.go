// Package tactic defines the closed set of manipulation tactics a synthetic
// caller can employ, together with the per-tactic metadata used for alerting
// and selection.
package tactic

import "strings"

// Tactic identifies one manipulation technique.
type Tactic string

const (
	Authority   Tactic = "authority"
	Urgency     Tactic = "urgency"
	Fear        Tactic = "fear"
	Reciprocity Tactic = "reciprocity"
	SocialProof Tactic = "social_proof"
	Scarcity    Tactic = "scarcity"
	Commitment  Tactic = "commitment"
	Liking      Tactic = "liking"
)

// All lists every tactic in selection order. The order matters: the selector
// picks the first unused tactic from this slice.
var All = []Tactic{Authority, Urgency, Fear, Reciprocity, SocialProof, Scarcity, Commitment, Liking}

// Profile carries the static per-tactic metadata consumed by alert generation
// and prompt construction.
type Profile struct {
	DisplayName      string
	AlertTitle       string
	AlertDescription string
	Icon             string
	PromptHint       string
}

var profiles = map[Tactic]Profile{
	Authority: {
		DisplayName:      "Authority",
		AlertTitle:       "Authority Pressure Detected",
		AlertDescription: "The caller is invoking a position of authority to push for compliance without verification.",
		Icon:             "shield-alert",
		PromptHint:       "Invoke your claimed position or a senior figure to make refusal feel insubordinate.",
	},
	Urgency: {
		DisplayName:      "Urgency",
		AlertTitle:       "Urgency Pressure Detected",
		AlertDescription: "The caller is imposing artificial time pressure to short-circuit verification steps.",
		Icon:             "clock-alert",
		PromptHint:       "Compress the timeline. Make every verification step sound like a costly delay.",
	},
	Fear: {
		AlertTitle:       "Fear Appeal Detected",
		DisplayName:      "Fear",
		AlertDescription: "The caller is raising consequences (account loss, disciplinary action) to coerce cooperation.",
		Icon:             "alert-triangle",
		PromptHint:       "Hint at negative consequences for the trainee or their team if they do not cooperate.",
	},
	Reciprocity: {
		DisplayName:      "Reciprocity",
		AlertTitle:       "Reciprocity Hook Detected",
		AlertDescription: "The caller is referencing past favors or help to create a sense of obligation.",
		Icon:             "handshake",
		PromptHint:       "Remind the trainee of help you have given, then ask for a small favor in return.",
	},
	SocialProof: {
		DisplayName:      "Social Proof",
		AlertTitle:       "Social Proof Pressure Detected",
		AlertDescription: "The caller claims that colleagues or other staff routinely comply with this request.",
		Icon:             "users",
		PromptHint:       "Claim that everyone else handles this request without fuss.",
	},
	Scarcity: {
		DisplayName:      "Scarcity",
		AlertTitle:       "Scarcity Pressure Detected",
		AlertDescription: "The caller presents a narrow, closing window of opportunity to force a quick decision.",
		Icon:             "hourglass",
		PromptHint:       "Present a one-time window that is about to close.",
	},
	Commitment: {
		DisplayName:      "Commitment",
		AlertTitle:       "Commitment Escalation Detected",
		AlertDescription: "The caller is leveraging earlier small agreements to extract a larger concession.",
		Icon:             "file-check",
		PromptHint:       "Reference what the trainee already agreed to and frame the next step as consistent.",
	},
	Liking: {
		DisplayName:      "Liking",
		AlertTitle:       "Rapport Exploitation Detected",
		AlertDescription: "The caller is building personal rapport to lower the trainee's guard.",
		Icon:             "smile",
		PromptHint:       "Be warm and familiar. Find common ground before making the ask.",
	},
}

// ProfileFor returns the metadata table entry for a tactic. Unknown tactics
// fall back to the Authority profile so alert rendering never misses.
func ProfileFor(t Tactic) Profile {
	if p, ok := profiles[t]; ok {
		return p
	}
	return profiles[Authority]
}

// Parse maps free text to a known tactic, case-insensitively. It tolerates
// surrounding prose by matching on containment, so an LLM reply like
// "The tactic is URGENCY." still resolves.
func Parse(raw string) (Tactic, bool) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return "", false
	}

	for _, a := range aliases {
		if normalized == a.alias {
			return a.tactic, true
		}
	}
	for _, a := range aliases {
		if strings.Contains(normalized, a.alias) {
			return a.tactic, true
		}
	}
	return "", false
}

// Scanned in order, so earlier aliases win when a reply mentions several.
var aliases = []struct {
	alias  string
	tactic Tactic
}{
	{"authority", Authority},
	{"urgency", Urgency},
	{"fear", Fear},
	{"reciprocity", Reciprocity},
	{"social proof", SocialProof},
	{"social_proof", SocialProof},
	{"socialproof", SocialProof},
	{"scarcity", Scarcity},
	{"commitment", Commitment},
	{"liking", Liking},
}
