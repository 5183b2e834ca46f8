package tmux

import (
	"errors"
	"os/exec"
	"testing"

	"github.com/google/uuid"
)

// newTestServer stands up an isolated tmux server on a throwaway socket with
// one detached session, and tears the server down when the test finishes.
func newTestServer(t *testing.T) (*Tmux, string) {
	t.Helper()
	if _, err := exec.LookPath("tmux"); err != nil {
		t.Skip("tmux not installed")
	}

	tm := NewWithSocket("vmux-test-" + uuid.NewString())
	session := "vmux-test"
	if err := tm.NewSession(session, t.TempDir()); err != nil {
		t.Fatalf("new-session: %v", err)
	}
	t.Cleanup(func() {
		if err := tm.KillServer(); err != nil {
			t.Errorf("kill-server: %v", err)
		}
	})
	return tm, session
}

func TestSessionEnvironmentRoundTrip(t *testing.T) {
	tm, session := newTestServer(t)

	const key = "VMUX_TEST_VAR"
	if _, err := tm.GetEnvironment(session, key); !errors.Is(err, ErrNotSet) {
		t.Fatalf("unset read err = %v, want ErrNotSet", err)
	}

	if err := tm.SetEnvironment(session, key, "hello"); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, err := tm.GetEnvironment(session, key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if v != "hello" {
		t.Errorf("value = %q", v)
	}

	if err := tm.UnsetEnvironment(session, key); err != nil {
		t.Fatalf("unset: %v", err)
	}
	if _, err := tm.GetEnvironment(session, key); !errors.Is(err, ErrNotSet) {
		t.Errorf("read after unset err = %v, want ErrNotSet", err)
	}
	// Unsetting again must stay quiet.
	if err := tm.UnsetEnvironment(session, key); err != nil {
		t.Errorf("second unset: %v", err)
	}
}

func TestGlobalEnvironmentRoundTrip(t *testing.T) {
	tm, session := newTestServer(t)

	const key = "VMUX_TEST_GLOBAL"
	if err := tm.SetGlobalEnvironment(key, "shared"); err != nil {
		t.Fatalf("set -g: %v", err)
	}
	v, err := tm.GetGlobalEnvironment(key)
	if err != nil {
		t.Fatalf("get -g: %v", err)
	}
	if v != "shared" {
		t.Errorf("value = %q", v)
	}

	// The server-wide entry must not leak into the session table.
	if _, err := tm.GetEnvironment(session, key); !errors.Is(err, ErrNotSet) {
		t.Errorf("session read err = %v, want ErrNotSet", err)
	}

	if err := tm.UnsetGlobalEnvironment(key); err != nil {
		t.Fatalf("unset -g: %v", err)
	}
	if _, err := tm.GetGlobalEnvironment(key); !errors.Is(err, ErrNotSet) {
		t.Errorf("read after unset err = %v, want ErrNotSet", err)
	}
}

func TestEnvironmentValueWithEquals(t *testing.T) {
	tm, session := newTestServer(t)

	if err := tm.SetEnvironment(session, "VMUX_TEST_EQ", "a=b=c"); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, err := tm.GetEnvironment(session, "VMUX_TEST_EQ")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if v != "a=b=c" {
		t.Errorf("value = %q, want the equals signs preserved", v)
	}
}

func TestListAllPanes(t *testing.T) {
	tm, _ := newTestServer(t)

	panes, err := tm.ListAllPanes()
	if err != nil {
		t.Fatalf("list-panes: %v", err)
	}
	if len(panes) == 0 {
		t.Fatal("no panes listed")
	}
	p := panes[0]
	if p.ID == "" || p.SessionID == "" || p.WindowID == "" {
		t.Errorf("incomplete pane record: %+v", p)
	}
}

func TestNoServer(t *testing.T) {
	if _, err := exec.LookPath("tmux"); err != nil {
		t.Skip("tmux not installed")
	}
	tm := NewWithSocket("vmux-test-" + uuid.NewString())

	if _, err := tm.Display("#{session_id}"); !errors.Is(err, ErrNoServer) {
		t.Errorf("Display err = %v, want ErrNoServer", err)
	}
	panes, err := tm.ListAllPanes()
	if err != nil || panes != nil {
		t.Errorf("ListAllPanes = %v, %v; want nil, nil", panes, err)
	}
	if err := tm.KillServer(); err != nil {
		t.Errorf("KillServer without server: %v", err)
	}
}

func TestParseEnvLine(t *testing.T) {
	tests := []struct {
		name    string
		out     string
		want    string
		wantErr bool
		notSet  bool
	}{
		{name: "simple", out: "KEY=value", want: "value"},
		{name: "empty value", out: "KEY=", want: ""},
		{name: "equals in value", out: "KEY=a=b", want: "a=b"},
		{name: "flagged for removal", out: "-KEY", notSet: true},
		{name: "garbage", out: "nonsense", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseEnvLine("KEY", tt.out)
			if tt.notSet {
				if !errors.Is(err, ErrNotSet) {
					t.Fatalf("err = %v, want ErrNotSet", err)
				}
				return
			}
			if tt.wantErr {
				if err == nil {
					t.Fatal("no error")
				}
				return
			}
			if err != nil {
				t.Fatalf("err = %v", err)
			}
			if got != tt.want {
				t.Errorf("value = %q, want %q", got, tt.want)
			}
		})
	}
}
