package session

import "github.com/CandySunPlus/vmux/internal/tmux"

// paneLister is the tmux facet focus needs.
type paneLister interface {
	ListAllPanes() ([]tmux.Pane, error)
	SelectWindow(windowID string) error
	SelectPane(paneID string) error
}

// FocusOwnerPane brings the pane that owns the shared session to the front:
// its window is selected, then the pane within that window. Pane ids are
// unique server-wide, so the first match wins and the scan stops there. A
// missing owner is a no-op, not an error -- the owning pane may simply have
// exited since the record was written.
func FocusOwnerPane(tm paneLister, owner string) error {
	if owner == "" {
		return nil
	}
	panes, err := tm.ListAllPanes()
	if err != nil {
		return err
	}
	for _, p := range panes {
		if p.ID != owner {
			continue
		}
		if err := tm.SelectWindow(p.WindowID); err != nil {
			return err
		}
		return tm.SelectPane(p.ID)
	}
	return nil
}
