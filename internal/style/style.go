// Package style defines the lipgloss styles for vmux's terminal output.
package style

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Styles for stderr output. Plain when stderr is not a terminal so that
// redirected output stays free of escape sequences.
var (
	Error = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	Warn  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	Dim   = lipgloss.NewStyle().Faint(true)
)

func init() {
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		plain := lipgloss.NewStyle()
		Error, Warn, Dim = plain, plain, plain
	}
}
