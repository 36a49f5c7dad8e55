// Package ai wraps the language-model backend behind the narrow collaborator
// contract the simulation core depends on. The core never sees which vendor
// or model sits behind it.
package ai

import "context"

// Collaborator is the abstract text-generation service. Implementations must
// fail fast when unavailable rather than hang.
type Collaborator interface {
	// Generate renders a completion for the prompt. contextVars carry
	// auxiliary signals (current tactic, escalation level, objective) that
	// implementations fold into the system message.
	Generate(ctx context.Context, prompt string, contextVars map[string]string) (string, error)

	// IsAvailable reports whether the backend is configured and reachable
	// enough to attempt a call.
	IsAvailable() bool
}
