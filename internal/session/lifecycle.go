package session

import (
	"github.com/CandySunPlus/vmux/internal/editor"
)

// Orchestrator runs the reuse-or-recreate decision for one invocation.
//
// The state machine is linear: resolve the session identity, probe the
// backends in priority order, then either hand the arguments to the live
// instance that owns the name (reusing), or purge a stale registry entry and
// replace this process with a fresh instance (fresh). A missing tmux context
// short-circuits to a bare launch with no registry interaction at all.
type Orchestrator struct {
	// Context is the resolved tmux context, nil when invoked outside tmux.
	Context *Context

	// Mode scopes the session identity. Ignored when Context is nil.
	Mode Mode

	// Registry persists session names, writing to Mode's scope. Must be
	// non-nil when Context is non-nil.
	Registry Registry

	// LocalRegistry writes to the Local scope of this context. Used in
	// Global mode to clear a superseded per-pane entry. May be nil.
	LocalRegistry Registry

	// Editors is the backend probe list in priority order.
	Editors []editor.Editor

	// DefaultEditor names the backend used for fresh launches.
	DefaultEditor string

	// AutoFocus enables owner-pane focusing before a Global-mode reuse.
	AutoFocus bool

	// Focus brings the owning pane to the front. May be nil.
	Focus func(owner string) error

	// Announce reports a fresh session on the tmux status line. May be nil.
	Announce func(name string)

	// Logf receives verbose diagnostics. May be nil.
	Logf func(format string, args ...any)
}

// Run executes the state machine and returns the process exit code. When a
// fresh launch succeeds the current process image has been replaced and Run
// does not return at all; every registry write needed for recovery happens
// strictly before that point.
func (o *Orchestrator) Run(args editor.Args) (int, error) {
	if o.Context == nil {
		// No host session: bare launch, no session tracking.
		o.logf("no tmux context, launching %s directly", o.DefaultEditor)
		return o.launch("", args)
	}

	res, err := Resolve(o.Context, o.Mode, o.Registry)
	if err != nil {
		return 1, err
	}
	o.logf("resolved %s session %q (key %s, registered %v)", res.Mode, res.Name, res.Key, res.FromRegistry)

	if o.Mode == ModeGlobal && o.LocalRegistry != nil {
		// Entering Global mode supersedes this context's per-pane entry.
		// The shared entry is left alone on the way back: other panes may
		// still be using it.
		if err := o.LocalRegistry.Unset(LocalKey(o.Context)); err != nil {
			return 1, err
		}
	}

	for _, ed := range o.Editors {
		if !ed.Exists(res.Name) {
			continue
		}
		o.logf("reusing %s instance for %q", ed.Name(), res.Name)
		o.focusOwner()
		code, err := ed.OpenInExisting(res.Name, args)
		if err != nil {
			return 1, err
		}
		return code, nil
	}

	if res.FromRegistry {
		// The registered name has no live backend: purge it rather than
		// silently reusing a dead identity.
		o.logf("purging stale entry %s=%q", res.Key, res.Name)
		if err := o.Registry.Unset(res.Key); err != nil {
			return 1, err
		}
	}

	ed, err := editor.ByName(o.Editors, o.DefaultEditor)
	if err != nil {
		return 1, err
	}
	if err := o.Registry.Set(res.Key, res.Name); err != nil {
		return 1, err
	}
	if o.Mode == ModeGlobal {
		if err := o.Registry.Set(OwnerPaneKey, o.Context.PaneID); err != nil {
			return 1, err
		}
	}
	if o.Announce != nil {
		o.Announce(res.Name)
	}
	o.logf("launching new %s session %q", ed.Name(), res.Name)
	if err := ed.LaunchNew(res.Name, args); err != nil {
		return 1, err
	}
	return 0, nil
}

// launch starts the configured default backend without any session identity.
func (o *Orchestrator) launch(session string, args editor.Args) (int, error) {
	ed, err := editor.ByName(o.Editors, o.DefaultEditor)
	if err != nil {
		return 1, err
	}
	if err := ed.LaunchNew(session, args); err != nil {
		return 1, err
	}
	return 0, nil
}

// focusOwner focuses the pane recorded as the shared session's owner.
// Best effort: a failed focus must not block the reuse itself.
func (o *Orchestrator) focusOwner() {
	if o.Mode != ModeGlobal || !o.AutoFocus || o.Focus == nil {
		return
	}
	owner, ok, err := o.Registry.Get(OwnerPaneKey)
	if err != nil || !ok {
		return
	}
	if err := o.Focus(owner); err != nil {
		o.logf("focusing owner pane %s: %v", owner, err)
	}
}

func (o *Orchestrator) logf(format string, args ...any) {
	if o.Logf != nil {
		o.Logf(format, args...)
	}
}
