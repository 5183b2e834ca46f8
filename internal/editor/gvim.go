package editor

// NewGvim creates the GVim backend. It speaks the same clientserver protocol
// as terminal Vim but opens its own window instead of taking over the
// invoking terminal; gvim forks away from the exec'd process, so a fresh
// launch returns the terminal to the user immediately.
// bin defaults to "gvim" when empty.
func NewGvim(bin string) Editor {
	if bin == "" {
		bin = "gvim"
	}
	return &serverEditor{name: "gvim", bin: bin}
}
