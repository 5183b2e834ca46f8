package editor

import (
	"os/exec"
	"strings"
)

// serverEditor implements the clientserver protocol shared by vim and gvim:
// live instances are found via --serverlist, addressed via --servername.
// Vim upper-cases server names, so matching is case-insensitive and the
// server's own spelling is used when addressing it.
type serverEditor struct {
	name string
	bin  string
}

// NewVim creates the terminal Vim backend. bin defaults to "vim" when empty.
func NewVim(bin string) Editor {
	if bin == "" {
		bin = "vim"
	}
	return &serverEditor{name: "vim", bin: bin}
}

func (e *serverEditor) Name() string { return e.name }

// serverList queries the running servers known to this backend's binary.
func (e *serverEditor) serverList() []string {
	out, err := exec.Command(e.bin, "--serverlist").Output()
	if err != nil {
		// No binary, no X connection, or no clientserver support: in every
		// case there is nothing to reuse.
		return nil
	}
	var names []string
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		if line != "" {
			names = append(names, line)
		}
	}
	return names
}

// matchServerName finds target in names, folding case, and returns the
// server's own spelling.
func matchServerName(names []string, target string) (string, bool) {
	for _, n := range names {
		if strings.EqualFold(n, target) {
			return n, true
		}
	}
	return "", false
}

func (e *serverEditor) Exists(session string) bool {
	if session == "" {
		return false
	}
	_, ok := matchServerName(e.serverList(), session)
	return ok
}

// OpenInExisting hands the arguments to the live server. Without passthrough
// and without files there is nothing to send; that is a successful no-op.
func (e *serverEditor) OpenInExisting(session string, args Args) (int, error) {
	name := session
	if m, ok := matchServerName(e.serverList(), session); ok {
		name = m
	}
	argv := remoteArgvFor(name, args)
	if argv == nil {
		return 0, nil
	}
	return runForExitCode(e.name, e.bin, argv)
}

// remoteArgvFor builds the remote-open command line for a server name, nil
// when there is nothing to send. Passthrough forwards the arguments verbatim
// in place of the default silent-open flag.
func remoteArgvFor(name string, args Args) []string {
	argv := []string{"--servername", name}
	switch {
	case args.Passthrough:
		return append(argv, args.Files...)
	case len(args.Files) == 0:
		return nil
	default:
		argv = append(argv, "--remote-silent")
		return append(argv, args.Files...)
	}
}

// LaunchNew replaces the process with a fresh instance serving the session
// name. An empty session name launches the editor with no server name.
func (e *serverEditor) LaunchNew(session string, args Args) error {
	var argv []string
	if session != "" {
		argv = append(argv, "--servername", session)
	}
	argv = append(argv, args.Files...)
	return execReplace(e.name, e.bin, argv)
}
