package session

import (
	"reflect"
	"testing"

	"github.com/CandySunPlus/vmux/internal/tmux"
)

type fakePaneLister struct {
	panes []tmux.Pane
	err   error
	calls []string
}

func (l *fakePaneLister) ListAllPanes() ([]tmux.Pane, error) {
	l.calls = append(l.calls, "list")
	return l.panes, l.err
}

func (l *fakePaneLister) SelectWindow(windowID string) error {
	l.calls = append(l.calls, "window "+windowID)
	return nil
}

func (l *fakePaneLister) SelectPane(paneID string) error {
	l.calls = append(l.calls, "pane "+paneID)
	return nil
}

func TestFocusOwnerPane(t *testing.T) {
	lister := &fakePaneLister{panes: []tmux.Pane{
		{ID: "%1", SessionID: "$0", WindowID: "@1"},
		{ID: "%4", SessionID: "$2", WindowID: "@6"},
		{ID: "%9", SessionID: "$2", WindowID: "@7"},
	}}

	if err := FocusOwnerPane(lister, "%4"); err != nil {
		t.Fatalf("FocusOwnerPane: %v", err)
	}
	want := []string{"list", "window @6", "pane %4"}
	if !reflect.DeepEqual(lister.calls, want) {
		t.Errorf("calls = %v, want %v", lister.calls, want)
	}
}

func TestFocusOwnerPaneGone(t *testing.T) {
	lister := &fakePaneLister{panes: []tmux.Pane{{ID: "%1", WindowID: "@1"}}}
	if err := FocusOwnerPane(lister, "%99"); err != nil {
		t.Errorf("vanished owner should be a no-op, got %v", err)
	}
	if len(lister.calls) != 1 {
		t.Errorf("calls = %v, want only the listing", lister.calls)
	}
}

func TestFocusOwnerPaneEmpty(t *testing.T) {
	lister := &fakePaneLister{}
	if err := FocusOwnerPane(lister, ""); err != nil {
		t.Errorf("empty owner should be a no-op, got %v", err)
	}
	if len(lister.calls) != 0 {
		t.Errorf("calls = %v, want none", lister.calls)
	}
}
