// Package terminal handles secure secret input from the terminal.
package terminal

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Adapter reads secrets from a terminal with echo disabled.
type Adapter struct {
	stdin  io.Reader
	stderr io.Writer
}

// NewAdapter creates a new terminal adapter.
func NewAdapter(stdin io.Reader, stderr io.Writer) *Adapter {
	return &Adapter{
		stdin:  stdin,
		stderr: stderr,
	}
}

// ReadSecret prompts on stderr and reads a secret without echo. envVar,
// when non-empty and set in the environment, short-circuits the prompt
// so CI jobs never block on input.
func (a *Adapter) ReadSecret(prompt, envVar string) (string, error) {
	if envVar != "" {
		if value := os.Getenv(envVar); value != "" {
			return value, nil
		}
	}

	if !a.IsInteractive() {
		return "", errors.New("cannot read secret: non-interactive terminal")
	}

	fmt.Fprint(a.stderr, prompt)

	file, ok := a.stdin.(*os.File)
	if !ok {
		return "", errors.New("cannot read secret from non-terminal input")
	}
	secret, err := term.ReadPassword(int(file.Fd()))
	fmt.Fprintln(a.stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read secret: %w", err)
	}
	return string(secret), nil
}

// IsInteractive returns true if the terminal is interactive.
func (a *Adapter) IsInteractive() bool {
	if file, ok := a.stdin.(*os.File); ok {
		return term.IsTerminal(int(file.Fd()))
	}
	return false
}
