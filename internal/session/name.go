package session

import "strings"

// Mode selects how session identity is scoped.
type Mode int

const (
	// ModeLocal binds one session identity to one tmux pane.
	ModeLocal Mode = iota
	// ModeGlobal shares one session identity across all opted-in panes.
	ModeGlobal
)

func (m Mode) String() string {
	if m == ModeGlobal {
		return "global"
	}
	return "local"
}

// Registry keys. The global key is a fixed literal shared by every opted-in
// pane; the local key is qualified by the tmux session id so different tmux
// sessions never collide. The owner pane record exists only for focus
// disambiguation and is never authoritative for session identity.
const (
	GlobalKey      = "VMUX_GLOBAL_SESSION"
	OwnerPaneKey   = "VMUX_GLOBAL_SESSION_PANE"
	localKeyPrefix = "VMUX_SESSION_"
)

// globalSessionName is the default shared identity in Global mode.
const globalSessionName = "global"

// LocalKey returns the registry key for this context's per-pane entry.
func LocalKey(ctx *Context) string {
	return localKeyPrefix + sanitizeID(ctx.SessionID)
}

// KeyFor returns the registry key for a mode and context.
func KeyFor(mode Mode, ctx *Context) string {
	if mode == ModeGlobal {
		return GlobalKey
	}
	return LocalKey(ctx)
}

// sanitizeID strips tmux id sigils ("$3" -> "3", "%7" -> "7") and maps any
// remaining character that is unsafe in an environment variable name, a vim
// servername, or a socket filename to an underscore.
func sanitizeID(id string) string {
	var b strings.Builder
	b.Grow(len(id))
	for _, r := range id {
		switch {
		case r == '$' || r == '%':
			continue
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

// ResolvedSession is the session identity of one invocation, computed once
// and carried by value through the state machine.
type ResolvedSession struct {
	Name string
	Key  string
	Mode Mode

	// FromRegistry records whether Name came from a registry entry. Such a
	// name is only a candidate: it may be stale and must be validated
	// against the live backends before it is trusted.
	FromRegistry bool
}

// Resolve computes the session name for a context and mode. A registered
// name wins; otherwise the default identity is synthesized: the fixed shared
// name in Global mode, the pane id in Local mode. The working directory is
// never part of the identity -- the pane id already disambiguates terminals.
func Resolve(ctx *Context, mode Mode, reg Registry) (ResolvedSession, error) {
	key := KeyFor(mode, ctx)
	v, ok, err := reg.Get(key)
	if err != nil {
		return ResolvedSession{}, err
	}
	if ok && v != "" {
		return ResolvedSession{Name: v, Key: key, Mode: mode, FromRegistry: true}, nil
	}
	name := globalSessionName
	if mode == ModeLocal {
		name = sanitizeID(ctx.PaneID)
	}
	return ResolvedSession{Name: name, Key: key, Mode: mode}, nil
}
