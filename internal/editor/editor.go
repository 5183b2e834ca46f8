// Package editor integrates the supported editor backends: Neovim over a
// listen socket, and Vim/GVim over the X clientserver protocol. Each backend
// can probe for a live instance owning a session name, hand files to that
// instance, or replace the current process with a fresh one.
package editor

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"
)

// ErrUnknownEditor is returned when a configured editor name matches no
// known variant.
var ErrUnknownEditor = errors.New("unknown editor")

// OpenError wraps a failure to invoke the remote-open command of a live
// instance. It is not used for nonzero exit codes of a command that ran;
// those pass through verbatim.
type OpenError struct {
	Editor string
	Err    error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("%s remote open: %v", e.Editor, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// LaunchError wraps a failure to start a fresh editor instance, including a
// missing executable.
type LaunchError struct {
	Editor string
	Err    error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launching %s: %v", e.Editor, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// Args carries the positional arguments of one invocation.
type Args struct {
	// Files are the arguments forwarded to the backend. When Passthrough is
	// set they are raw flags for the remote-open command, not file names.
	Files []string

	// Passthrough suppresses the default silent-remote flag and forwards
	// Files verbatim.
	Passthrough bool
}

// SplitArgs interprets the positional arguments of one invocation. A leading
// "--" is consumed as an explicit separator; sepConsumed reports whether the
// caller's flag parser already removed it. When the separator was present and
// the first remaining argument starts with a flag prefix, the remainder is
// forwarded verbatim to the remote-open command instead of being treated as
// file names.
func SplitArgs(argv []string, sepConsumed bool) Args {
	if !sepConsumed && len(argv) > 0 && argv[0] == "--" {
		sepConsumed = true
		argv = argv[1:]
	}
	a := Args{Files: argv}
	if sepConsumed && len(argv) > 0 && strings.HasPrefix(argv[0], "-") {
		a.Passthrough = true
	}
	return a
}

// Editor is one supported backend integration strategy.
type Editor interface {
	// Name is the identifier used for default-editor configuration.
	Name() string

	// Exists reports whether a live instance owns the session name.
	// Probe failures count as "no live instance": a broken probe must fall
	// through to a fresh launch, not abort the invocation.
	Exists(session string) bool

	// OpenInExisting hands the arguments to the live instance and returns
	// the remote-open command's exit code. The error is non-nil only when
	// the command could not be run at all.
	OpenInExisting(session string, args Args) (int, error)

	// LaunchNew replaces the current process with a fresh instance bound to
	// the session name (plain launch when session is empty). It only
	// returns on failure.
	LaunchNew(session string, args Args) error
}

// Options configures the backend variants.
type Options struct {
	// SocketDir is where Neovim listen sockets live, one per session name.
	SocketDir string

	// Executable overrides; the variant name is used when empty.
	NvimBin string
	VimBin  string
	GvimBin string
}

// Variants returns all backends in probe priority order. The order is part
// of the contract: when several backends report a live instance for the same
// name, the earliest one wins.
func Variants(o Options) []Editor {
	return []Editor{
		NewNvim(o.NvimBin, o.SocketDir),
		NewVim(o.VimBin),
		NewGvim(o.GvimBin),
	}
}

// ByName selects the variant with the given name from the priority list.
func ByName(editors []Editor, name string) (Editor, error) {
	for _, e := range editors {
		if e.Name() == name {
			return e, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEditor, name)
}

// runForExitCode runs the backend attached to the invoking terminal and
// passes its exit code through.
func runForExitCode(name, bin string, argv []string) (int, error) {
	cmd := exec.Command(bin, argv...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return 1, &OpenError{Editor: name, Err: err}
	}
	return 0, nil
}

// execReplace replaces the current process image with the backend.
// On success it never returns.
func execReplace(name, bin string, argv []string) error {
	path, err := exec.LookPath(bin)
	if err != nil {
		return &LaunchError{Editor: name, Err: err}
	}
	args := append([]string{bin}, argv...)
	if err := syscall.Exec(path, args, os.Environ()); err != nil {
		return &LaunchError{Editor: name, Err: err}
	}
	return nil
}
