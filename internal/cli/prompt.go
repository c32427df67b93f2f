package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/archicontribs/modelrepo/credentials"
)

// terminalPrompt collects credentials on the controlling terminal.
// The secret is read with echo disabled and never printed back.
type terminalPrompt struct{}

func (terminalPrompt) PromptCredentials(ctx context.Context) (credentials.Credentials, bool, error) {
	if err := ctx.Err(); err != nil {
		return credentials.Credentials{}, false, err
	}

	fmt.Fprint(os.Stderr, "Username (empty to cancel): ")
	reader := bufio.NewReader(os.Stdin)
	username, err := reader.ReadString('\n')
	if err != nil {
		return credentials.Credentials{}, false, fmt.Errorf("failed to read username: %w", err)
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return credentials.Credentials{}, false, nil
	}

	fmt.Fprint(os.Stderr, "Password or token: ")
	secret, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return credentials.Credentials{}, false, fmt.Errorf("failed to read secret: %w", err)
	}

	return credentials.Credentials{Username: username, Secret: string(secret)}, true, nil
}
