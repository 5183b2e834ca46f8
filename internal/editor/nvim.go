package editor

import (
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// socketDialTimeout bounds the liveness dial against a Neovim socket. A
// healthy nvim accepts immediately; anything slower is treated as dead.
const socketDialTimeout = 250 * time.Millisecond

// Nvim integrates Neovim through one listen socket per session name under a
// base directory. A present, accepting socket is a live instance.
type Nvim struct {
	bin       string
	socketDir string
}

// NewNvim creates the Neovim backend. bin defaults to "nvim" when empty.
func NewNvim(bin, socketDir string) *Nvim {
	if bin == "" {
		bin = "nvim"
	}
	return &Nvim{bin: bin, socketDir: socketDir}
}

func (n *Nvim) Name() string { return "nvim" }

// SocketPath returns the listen socket for a session name.
func (n *Nvim) SocketPath(session string) string {
	return filepath.Join(n.socketDir, session)
}

// Exists reports whether a live Neovim owns the session's socket. A socket
// file whose listener is gone (crashed nvim) is pruned so it cannot shadow a
// fresh launch forever.
func (n *Nvim) Exists(session string) bool {
	if session == "" {
		return false
	}
	path := n.SocketPath(session)
	fi, err := os.Lstat(path)
	if err != nil || fi.Mode()&os.ModeSocket == 0 {
		return false
	}
	if dialOK(path) {
		return true
	}
	n.pruneDeadSocket(path)
	return false
}

func dialOK(path string) bool {
	conn, err := net.DialTimeout("unix", path, socketDialTimeout)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// pruneDeadSocket removes a socket file with no listener behind it. The
// removal is guarded by a file lock so two invocations racing through the
// probe do not both act on the same path.
func (n *Nvim) pruneDeadSocket(path string) {
	lock := flock.New(filepath.Join(n.socketDir, ".vmux.lock"))
	locked, err := lock.TryLock()
	if err != nil || !locked {
		return
	}
	defer func() { _ = lock.Unlock() }()
	_ = os.Remove(path)
}

// OpenInExisting hands the arguments to the live instance on the session's
// socket. Without passthrough and without files there is nothing to send;
// that is a successful no-op.
func (n *Nvim) OpenInExisting(session string, args Args) (int, error) {
	argv := n.remoteArgv(session, args)
	if argv == nil {
		return 0, nil
	}
	return runForExitCode(n.Name(), n.bin, argv)
}

// remoteArgv builds the remote-open command line, nil when there is nothing
// to send. Passthrough forwards the arguments verbatim in place of the
// default silent-open flag.
func (n *Nvim) remoteArgv(session string, args Args) []string {
	argv := []string{"--server", n.SocketPath(session)}
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

// LaunchNew replaces the process with a fresh Neovim listening on the
// session's socket. An empty session name launches plain nvim with no
// server socket at all.
func (n *Nvim) LaunchNew(session string, args Args) error {
	var argv []string
	if session != "" {
		if err := os.MkdirAll(n.socketDir, 0o700); err != nil {
			return &LaunchError{Editor: n.Name(), Err: err}
		}
		argv = append(argv, "--listen", n.SocketPath(session))
	}
	argv = append(argv, args.Files...)
	return execReplace(n.Name(), n.bin, argv)
}
