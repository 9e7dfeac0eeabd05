package backend

import (
	"context"
	"fmt"
)

// Backend turns a prompt (plus optional system prompt) into response text.
// Implementations must be safe for concurrent use.
type Backend interface {
	// Send submits the prompt and returns the backend's response text.
	// The system prompt may be empty; each backend decides how to attach it.
	Send(ctx context.Context, prompt, systemPrompt string) (string, error)
}

// Mode identifies one of the supported client modes. The set is closed:
// ParseMode rejects anything outside the four constants below.
type Mode string

const (
	ModeAPI        Mode = "api"
	ModeClaudeCode Mode = "claude-code"
	ModeHybrid     Mode = "hybrid"
	ModeAgentTeams Mode = "agent-teams"
)

// ParseMode converts a mode name into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeAPI, ModeClaudeCode, ModeHybrid, ModeAgentTeams:
		return Mode(s), nil
	default:
		return "", &UnknownModeError{Name: s}
	}
}

// String returns the mode's wire name.
func (m Mode) String() string {
	return string(m)
}

// contextPrompt prepends the system prompt to the user prompt using the
// given annotation label. CLI backends have no separate system field, so
// the role framing travels inline.
func contextPrompt(label, prompt, systemPrompt string) string {
	if systemPrompt == "" {
		return prompt
	}
	return fmt.Sprintf("[%s: %s]\n\n%s", label, systemPrompt, prompt)
}
