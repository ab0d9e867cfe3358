package cli

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/dkurmanov/docvault/internal/crypto"
)

// passwordEnvVar lets scripted callers supply the password without a
// terminal prompt.
const passwordEnvVar = "DOCVAULT_PASSWORD"

// promptPassword reads a password without echo. The environment
// variable takes precedence so piped invocations keep working.
func promptPassword(prompt string) ([]byte, error) {
	if envPass := os.Getenv(passwordEnvVar); envPass != "" {
		return []byte(envPass), nil
	}
	return readSecret(prompt)
}

// promptPasswordConfirm reads a password twice and rejects a mismatch.
func promptPasswordConfirm(prompt, confirmPrompt string) ([]byte, error) {
	if envPass := os.Getenv(passwordEnvVar); envPass != "" {
		return []byte(envPass), nil
	}

	password, err := readSecret(prompt)
	if err != nil {
		return nil, err
	}
	confirm, err := readSecret(confirmPrompt)
	if err != nil {
		crypto.Zero(password)
		return nil, err
	}
	if !bytes.Equal(password, confirm) {
		crypto.Zero(password)
		crypto.Zero(confirm)
		return nil, fmt.Errorf("passwords do not match")
	}
	crypto.Zero(confirm)
	return password, nil
}

// promptRecoverySecret reads a recovery secret without echo.
func promptRecoverySecret(prompt string) ([]byte, error) {
	return readSecret(prompt)
}

// readSecret prompts on stderr and reads a line with echo disabled.
// When stdin is piped it falls back to the controlling terminal.
func readSecret(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		secret, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return nil, fmt.Errorf("read secret: %w", err)
		}
		return secret, nil
	}

	tty, err := os.Open("/dev/tty")
	if err != nil {
		return nil, fmt.Errorf("stdin is piped and no terminal is available; set %s", passwordEnvVar)
	}
	defer tty.Close()

	secret, err := term.ReadPassword(int(tty.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("read secret: %w", err)
	}
	return secret, nil
}

// confirm asks a yes/no question on the terminal; anything but
// "y"/"yes" counts as no.
func confirm(question string) bool {
	fmt.Fprintf(os.Stderr, "%s [y/N]: ", question)
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
