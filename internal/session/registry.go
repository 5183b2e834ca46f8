package session

import (
	"errors"
	"fmt"
	"os"

	"github.com/CandySunPlus/vmux/internal/tmux"
)

// ErrRegistryUnavailable means the tmux variable store could not be reached.
// This is fatal: without the store, session identity cannot be trusted and
// continuing would risk duplicate or ghost sessions.
var ErrRegistryUnavailable = errors.New("tmux variable store unreachable")

// Registry persists session names in a key-value store scoped to the tmux
// context. Get reports absence via its second return, never with an error.
type Registry interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Unset(key string) error
}

// envStore is the tmux facet the registry needs.
type envStore interface {
	GetEnvironment(session, key string) (string, error)
	SetEnvironment(session, key, value string) error
	UnsetEnvironment(session, key string) error
	GetGlobalEnvironment(key string) (string, error)
	SetGlobalEnvironment(key, value string) error
	UnsetGlobalEnvironment(key string) error
}

// TmuxRegistry stores session names in tmux's environment tables.
//
// Reads fall through three tiers in fixed order: the server-wide table, the
// context session's table, then the ordinary process environment. The last
// tier lets a value pre-seeded in the shell before entering tmux win when
// neither tmux table has an entry.
//
// Writes target exactly one scope, chosen by the mode the registry was
// created with: the server-wide table in Global mode, the context session's
// table in Local mode.
type TmuxRegistry struct {
	store   envStore
	session string // tmux session id for the -t scope
	scope   Mode
}

// NewTmuxRegistry creates a registry over the given store, writing to the
// scope implied by mode.
func NewTmuxRegistry(store envStore, sessionID string, mode Mode) *TmuxRegistry {
	return &TmuxRegistry{store: store, session: sessionID, scope: mode}
}

// WithScope returns a registry over the same store writing to the scope
// implied by mode. Reads are scope-independent.
func (r *TmuxRegistry) WithScope(mode Mode) *TmuxRegistry {
	return &TmuxRegistry{store: r.store, session: r.session, scope: mode}
}

func (r *TmuxRegistry) Get(key string) (string, bool, error) {
	v, err := r.store.GetGlobalEnvironment(key)
	if err == nil {
		return v, true, nil
	}
	if !errors.Is(err, tmux.ErrNotSet) {
		return "", false, fmt.Errorf("%w: %v", ErrRegistryUnavailable, err)
	}
	v, err = r.store.GetEnvironment(r.session, key)
	if err == nil {
		return v, true, nil
	}
	if !errors.Is(err, tmux.ErrNotSet) {
		return "", false, fmt.Errorf("%w: %v", ErrRegistryUnavailable, err)
	}
	if v, ok := os.LookupEnv(key); ok {
		return v, true, nil
	}
	return "", false, nil
}

func (r *TmuxRegistry) Set(key, value string) error {
	var err error
	if r.scope == ModeGlobal {
		err = r.store.SetGlobalEnvironment(key, value)
	} else {
		err = r.store.SetEnvironment(r.session, key, value)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRegistryUnavailable, err)
	}
	return nil
}

func (r *TmuxRegistry) Unset(key string) error {
	var err error
	if r.scope == ModeGlobal {
		err = r.store.UnsetGlobalEnvironment(key)
	} else {
		err = r.store.UnsetEnvironment(r.session, key)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRegistryUnavailable, err)
	}
	return nil
}
