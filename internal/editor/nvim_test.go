package editor

import (
	"net"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestNvimExistsLiveSocket(t *testing.T) {
	dir := t.TempDir()
	n := NewNvim("", dir)

	ln, err := net.Listen("unix", n.SocketPath("7"))
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	if !n.Exists("7") {
		t.Error("expected live socket to be detected")
	}
	if n.Exists("8") {
		t.Error("unexpected match for a session with no socket")
	}
	if n.Exists("") {
		t.Error("empty session name must never report a live instance")
	}
}

func TestNvimExistsPrunesDeadSocket(t *testing.T) {
	dir := t.TempDir()
	n := NewNvim("", dir)

	// A socket file whose listener is gone: create one, move it aside, and
	// close the listener. The moved path keeps the socket inode but nothing
	// accepts on it anymore.
	ln, err := net.Listen("unix", n.SocketPath("tmp"))
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	dead := n.SocketPath("7")
	if err := os.Rename(n.SocketPath("tmp"), dead); err != nil {
		t.Fatalf("rename: %v", err)
	}
	ln.Close()

	if n.Exists("7") {
		t.Error("dead socket reported as live")
	}
	if _, err := os.Lstat(dead); !os.IsNotExist(err) {
		t.Errorf("dead socket not pruned: %v", err)
	}
}

func TestNvimExistsIgnoresRegularFile(t *testing.T) {
	dir := t.TempDir()
	n := NewNvim("", dir)

	if err := os.WriteFile(n.SocketPath("7"), nil, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if n.Exists("7") {
		t.Error("regular file mistaken for a listen socket")
	}
	// Not a socket, so it is not ours to remove.
	if _, err := os.Lstat(n.SocketPath("7")); err != nil {
		t.Errorf("regular file was removed: %v", err)
	}
}

func TestNvimSocketPath(t *testing.T) {
	n := NewNvim("", "/run/user/1000/vmux")
	want := filepath.Join("/run/user/1000/vmux", "global")
	if got := n.SocketPath("global"); got != want {
		t.Errorf("SocketPath = %q, want %q", got, want)
	}
}

func TestNvimRemoteArgv(t *testing.T) {
	dir := t.TempDir()
	n := NewNvim("", dir)
	sock := n.SocketPath("7")

	tests := []struct {
		name string
		args Args
		want []string
	}{
		{
			name: "files open silently",
			args: Args{Files: []string{"a.txt"}},
			want: []string{"--server", sock, "--remote-silent", "a.txt"},
		},
		{
			name: "passthrough suppresses the silent flag",
			args: Args{Files: []string{"-c", "echo hi"}, Passthrough: true},
			want: []string{"--server", sock, "-c", "echo hi"},
		},
		{
			name: "no files, nothing to send",
			args: Args{},
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := n.remoteArgv("7", tt.args)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("remoteArgv = %v, want %v", got, tt.want)
			}
		})
	}
}
