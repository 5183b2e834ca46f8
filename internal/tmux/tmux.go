// Package tmux provides a wrapper for the tmux queries vmux needs via subprocess.
package tmux

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Common errors
var (
	ErrNoServer = errors.New("no tmux server running")
	ErrNotSet   = errors.New("variable not set")
)

// Tmux wraps tmux operations.
type Tmux struct {
	socketName string // tmux socket name (-L flag), empty = default socket
}

// New creates a Tmux wrapper targeting the default socket.
func New() *Tmux {
	return &Tmux{}
}

// NewWithSocket creates a Tmux wrapper that targets a named socket.
// This connects to an isolated tmux server, separate from the user's
// default server. Primarily used in tests to prevent session name
// collisions with a real tmux session the developer is working in.
func NewWithSocket(socket string) *Tmux {
	return &Tmux{socketName: socket}
}

// InsideTmux reports whether the current process runs inside a tmux client.
func InsideTmux() bool {
	return os.Getenv("TMUX") != ""
}

// run executes a tmux command and returns stdout.
// All commands include the -u flag for UTF-8 support regardless of locale.
func (t *Tmux) run(args ...string) (string, error) {
	// Global flags must come before the subcommand, so they go in the prefix.
	allArgs := []string{"-u"}
	if t.socketName != "" {
		allArgs = append(allArgs, "-L", t.socketName)
	}
	allArgs = append(allArgs, args...)
	cmd := exec.Command("tmux", allArgs...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", t.wrapError(err, stderr.String(), args)
	}

	return strings.TrimSpace(stdout.String()), nil
}

// wrapError classifies tmux stderr into sentinel errors.
func (t *Tmux) wrapError(err error, stderr string, args []string) error {
	stderr = strings.TrimSpace(stderr)

	if strings.Contains(stderr, "no server running") ||
		strings.Contains(stderr, "error connecting to") ||
		strings.Contains(stderr, "no current target") ||
		strings.Contains(stderr, "server exited unexpectedly") {
		return ErrNoServer
	}
	if strings.Contains(stderr, "unknown variable") {
		return ErrNotSet
	}

	if stderr != "" {
		return fmt.Errorf("tmux %s: %s", args[0], stderr)
	}
	return fmt.Errorf("tmux %s: %w", args[0], err)
}

// Display expands a tmux format string for the active pane of the current
// client, e.g. Display("#{session_id}") -> "$3".
func (t *Tmux) Display(format string) (string, error) {
	return t.run("display-message", "-p", format)
}

// DisplayMessage shows a message in the tmux status line.
func (t *Tmux) DisplayMessage(message string) error {
	_, err := t.run("display-message", message)
	return err
}

// GetEnvironment reads a variable from a session's environment table.
// Returns ErrNotSet if the variable is absent.
func (t *Tmux) GetEnvironment(session, key string) (string, error) {
	out, err := t.run("show-environment", "-t", session, key)
	if err != nil {
		return "", err
	}
	return parseEnvLine(key, out)
}

// SetEnvironment sets a variable in a session's environment table.
func (t *Tmux) SetEnvironment(session, key, value string) error {
	_, err := t.run("set-environment", "-t", session, key, value)
	return err
}

// UnsetEnvironment removes a variable from a session's environment table.
// Removing an absent variable is not an error.
func (t *Tmux) UnsetEnvironment(session, key string) error {
	_, err := t.run("set-environment", "-t", session, "-u", key)
	if errors.Is(err, ErrNotSet) {
		return nil
	}
	return err
}

// GetGlobalEnvironment reads a variable from the server-wide environment
// table. Returns ErrNotSet if the variable is absent.
func (t *Tmux) GetGlobalEnvironment(key string) (string, error) {
	out, err := t.run("show-environment", "-g", key)
	if err != nil {
		return "", err
	}
	return parseEnvLine(key, out)
}

// SetGlobalEnvironment sets a variable in the server-wide environment table.
// Unlike SetEnvironment, this is not scoped to a session.
func (t *Tmux) SetGlobalEnvironment(key, value string) error {
	_, err := t.run("set-environment", "-g", key, value)
	return err
}

// UnsetGlobalEnvironment removes a variable from the server-wide environment
// table. Removing an absent variable is not an error.
func (t *Tmux) UnsetGlobalEnvironment(key string) error {
	_, err := t.run("set-environment", "-g", "-u", key)
	if errors.Is(err, ErrNotSet) {
		return nil
	}
	return err
}

// parseEnvLine extracts the value from show-environment's "KEY=value" output.
// A leading "-" marks a variable flagged for removal, which tmux reports
// instead of erroring; treat it as absent.
func parseEnvLine(key, out string) (string, error) {
	if strings.HasPrefix(out, "-") {
		return "", ErrNotSet
	}
	parts := strings.SplitN(out, "=", 2)
	if len(parts) != 2 {
		return "", fmt.Errorf("unexpected environment format for %s: %q", key, out)
	}
	return parts[1], nil
}

// Pane identifies one pane in the server, with enough context to focus it.
type Pane struct {
	ID        string // e.g. "%7"
	SessionID string // e.g. "$3"
	WindowID  string // e.g. "@2"
}

// ListAllPanes returns every pane across all sessions and windows.
func (t *Tmux) ListAllPanes() ([]Pane, error) {
	out, err := t.run("list-panes", "-a", "-F", "#{pane_id}\t#{session_id}\t#{window_id}")
	if err != nil {
		if errors.Is(err, ErrNoServer) {
			return nil, nil
		}
		return nil, err
	}

	var panes []Pane
	for _, line := range strings.Split(out, "\n") {
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "\t", 3)
		if len(parts) != 3 {
			continue
		}
		panes = append(panes, Pane{ID: parts[0], SessionID: parts[1], WindowID: parts[2]})
	}
	return panes, nil
}

// SelectWindow makes the given window the current window of its session.
func (t *Tmux) SelectWindow(windowID string) error {
	_, err := t.run("select-window", "-t", windowID)
	return err
}

// SelectPane makes the given pane the active pane of its window.
func (t *Tmux) SelectPane(paneID string) error {
	_, err := t.run("select-pane", "-t", paneID)
	return err
}

// NewSession creates a new detached tmux session. Used by integration tests
// to stand up an isolated server; vmux itself never creates tmux sessions.
func (t *Tmux) NewSession(name, workDir string) error {
	args := []string{"new-session", "-d", "-s", name}
	if workDir != "" {
		args = append(args, "-c", workDir)
	}
	_, err := t.run(args...)
	return err
}

// KillServer terminates the tmux server on this socket and all its sessions.
// Idempotent: returns nil if the server is already gone.
func (t *Tmux) KillServer() error {
	_, err := t.run("kill-server")
	if errors.Is(err, ErrNoServer) {
		return nil
	}
	return err
}
