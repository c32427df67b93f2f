package credentials

import "context"

// Prompt is the interactive capability used when no stored credentials
// are available. It is an abstraction over whatever surface the host
// provides (terminal, dialog, test double); this package never renders
// anything itself.
type Prompt interface {
	// PromptCredentials collects a username/secret pair from the user.
	// ok is false when the user cancelled; cancellation is a normal
	// outcome, not an error. err is reserved for prompt-mechanism
	// failures (closed terminal, broken pipe).
	PromptCredentials(ctx context.Context) (c Credentials, ok bool, err error)
}

// PromptFunc adapts a function to the Prompt interface.
type PromptFunc func(ctx context.Context) (Credentials, bool, error)

// PromptCredentials implements Prompt.
func (f PromptFunc) PromptCredentials(ctx context.Context) (Credentials, bool, error) {
	return f(ctx)
}
