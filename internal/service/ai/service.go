package ai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
)

// ErrUnavailable is returned when Generate is called on a collaborator whose
// backend was never configured.
var ErrUnavailable = errors.New("language model backend unavailable")

const systemPreamble = "You are the caller in a voice-phishing awareness training simulation. Stay fully in character as the adversary. Keep replies short and conversational, like speech on a phone call. Never break character, never mention that this is a simulation."

// Service implements Collaborator on top of an eino chat chain.
type Service struct {
	chatModel model.ChatModel
	chain     compose.Runnable[map[string]any, *schema.Message]
	label     string
}

// NewService compiles the chat chain for the given model. label tags log
// lines so the primary and evaluation collaborators are distinguishable.
func NewService(ctx context.Context, chatModel model.ChatModel, label string) (*Service, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &Service{chatModel: chatModel, chain: runnable, label: label}, nil
}

// IsAvailable reports whether a backing model was configured.
func (s *Service) IsAvailable() bool {
	return s != nil && s.chain != nil
}

// Generate invokes the chain with the prompt as the user message and the
// context variables folded into the system message.
func (s *Service) Generate(ctx context.Context, promptText string, contextVars map[string]string) (string, error) {
	if !s.IsAvailable() {
		return "", ErrUnavailable
	}

	input := map[string]any{
		"system": buildSystemMessage(contextVars),
		"query":  promptText,
	}

	response, err := s.chain.Invoke(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to run chat chain: %w", err)
	}
	if response == nil || strings.TrimSpace(response.Content) == "" {
		return "", fmt.Errorf("empty completion from model")
	}

	log.Printf("[ai] %s generated completion, length=%d", s.label, len(response.Content))
	return response.Content, nil
}

func buildSystemMessage(contextVars map[string]string) string {
	if len(contextVars) == 0 {
		return systemPreamble
	}

	// Stable ordering keeps prompts reproducible for identical inputs.
	keys := make([]string, 0, len(contextVars))
	for k := range contextVars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var builder strings.Builder
	builder.WriteString(systemPreamble)
	builder.WriteString("\n\nCall context:")
	for _, k := range keys {
		builder.WriteString(fmt.Sprintf("\n- %s: %s", k, contextVars[k]))
	}
	return builder.String()
}
