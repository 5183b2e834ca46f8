// Package session resolves, creates, and tears down the editor-session
// identity bound to a tmux context. It decides whether an invocation reuses
// a running editor instance or replaces itself with a fresh one.
package session

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/CandySunPlus/vmux/internal/tmux"
)

// ErrNoHostSession means no tmux context was detected in the environment.
// Callers recover by degrading to a bare launch with no session tracking.
var ErrNoHostSession = errors.New("not inside a tmux session")

// Context identifies the tmux context of one invocation. It is resolved
// once at the top of the orchestrator and never changes afterwards.
type Context struct {
	SessionID string // tmux session id, e.g. "$3"
	PaneID    string // tmux pane id, e.g. "%7"
	WorkDir   string
}

// displayer is the tmux facet context resolution needs.
type displayer interface {
	Display(format string) (string, error)
}

// Current resolves the tmux context of this invocation with a single
// display-message round trip.
func Current(tm displayer) (*Context, error) {
	if !tmux.InsideTmux() {
		return nil, ErrNoHostSession
	}
	out, err := tm.Display("#{session_id}\t#{pane_id}")
	if err != nil {
		if errors.Is(err, tmux.ErrNoServer) {
			// $TMUX is stale; the server this client belonged to is gone.
			return nil, ErrNoHostSession
		}
		return nil, fmt.Errorf("resolving tmux context: %w", err)
	}
	parts := strings.SplitN(out, "\t", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, fmt.Errorf("unexpected tmux context %q", out)
	}
	wd, err := os.Getwd()
	if err != nil {
		wd = ""
	}
	return &Context{SessionID: parts[0], PaneID: parts[1], WorkDir: wd}, nil
}
