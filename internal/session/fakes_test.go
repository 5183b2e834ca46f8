package session

import (
	"github.com/CandySunPlus/vmux/internal/editor"
)

// fakeRegistry is an in-memory Registry recording operation order.
type fakeRegistry struct {
	data map[string]string
	ops  []string
	err  error
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{data: map[string]string{}}
}

func (r *fakeRegistry) Get(key string) (string, bool, error) {
	if r.err != nil {
		return "", false, r.err
	}
	r.ops = append(r.ops, "get "+key)
	v, ok := r.data[key]
	return v, ok, nil
}

func (r *fakeRegistry) Set(key, value string) error {
	if r.err != nil {
		return r.err
	}
	r.ops = append(r.ops, "set "+key)
	r.data[key] = value
	return nil
}

func (r *fakeRegistry) Unset(key string) error {
	if r.err != nil {
		return r.err
	}
	r.ops = append(r.ops, "unset "+key)
	delete(r.data, key)
	return nil
}

// fakeEditor implements editor.Editor without touching any real process.
// Its LaunchNew returns nil instead of replacing the process; tests treat a
// (0, nil) result from Run as the delegated terminal state.
type fakeEditor struct {
	name     string
	live     map[string]bool
	openCode int
	openErr  error

	opened       []string
	openedArgs   []editor.Args
	launched     []string
	launchedArgs []editor.Args
}

func newFakeEditor(name string, liveSessions ...string) *fakeEditor {
	live := make(map[string]bool, len(liveSessions))
	for _, s := range liveSessions {
		live[s] = true
	}
	return &fakeEditor{name: name, live: live}
}

func (e *fakeEditor) Name() string { return e.name }

func (e *fakeEditor) Exists(session string) bool {
	return session != "" && e.live[session]
}

func (e *fakeEditor) OpenInExisting(session string, args editor.Args) (int, error) {
	e.opened = append(e.opened, session)
	e.openedArgs = append(e.openedArgs, args)
	return e.openCode, e.openErr
}

func (e *fakeEditor) LaunchNew(session string, args editor.Args) error {
	e.launched = append(e.launched, session)
	e.launchedArgs = append(e.launchedArgs, args)
	return nil
}
