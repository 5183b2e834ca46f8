// Package cmd implements the vmux command line interface.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/CandySunPlus/vmux/internal/config"
	"github.com/CandySunPlus/vmux/internal/editor"
	"github.com/CandySunPlus/vmux/internal/session"
	"github.com/CandySunPlus/vmux/internal/style"
	"github.com/CandySunPlus/vmux/internal/tmux"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// exitUnknownEditor signals a configured default backend that matches no
// known variant.
const exitUnknownEditor = 3

var (
	flagGlobal  bool
	flagLocal   bool
	flagNoFocus bool
	flagVerbose bool
	flagPrint   bool
	flagEditor  string
)

var rootCmd = &cobra.Command{
	Use:   "vmux [--] [file ...]",
	Short: "Open files in a tmux-bound editor session",
	Long: `vmux binds a persistent editor server to the current tmux pane (or, in
global mode, to one session shared across all opted-in panes) and routes
every invocation to it. The first call launches the editor; later calls
hand their files to the running instance instead of starting a new one.

A leading "--" separates files from vmux's own flags. When the first
argument after "--" itself starts with "-", the remainder is passed through
verbatim to the editor's remote-open command.`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

func init() {
	rootCmd.Version = Version
	rootCmd.Flags().BoolVar(&flagGlobal, "global", false, "share one session across all panes")
	rootCmd.Flags().BoolVar(&flagLocal, "local", false, "scope the session to this pane")
	rootCmd.Flags().BoolVar(&flagNoFocus, "no-focus", false, "do not focus the owning pane in global mode")
	rootCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "verbose diagnostics on stderr")
	rootCmd.Flags().BoolVar(&flagPrint, "print-session", false, "print the resolved session name and exit")
	rootCmd.Flags().StringVar(&flagEditor, "editor", "", "backend for new sessions (nvim, vim, gvim)")
}

var exitCode int

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, style.Error.Render("vmux: "+err.Error()))
		if errors.Is(err, editor.ErrUnknownEditor) {
			return exitUnknownEditor
		}
		return 1
	}
	return exitCode
}

func runRoot(cmd *cobra.Command, args []string) error {
	tm := tmux.New()

	ctx, err := session.Current(tm)
	if err != nil && !errors.Is(err, session.ErrNoHostSession) {
		return err
	}

	var reader *session.TmuxRegistry
	var getter config.Getter
	if ctx != nil {
		reader = session.NewTmuxRegistry(tm, ctx.SessionID, session.ModeLocal)
		getter = reader
	}
	cfg, err := config.Load(getter)
	if err != nil {
		return err
	}

	mode := resolveMode(cfg.Global, flagGlobal, flagLocal)
	verbose := cfg.Debug || flagVerbose
	logf := func(format string, a ...any) {
		if verbose {
			fmt.Fprintln(os.Stderr, style.Dim.Render("vmux: "+fmt.Sprintf(format, a...)))
		}
	}

	orch := &session.Orchestrator{
		Context: ctx,
		Mode:    mode,
		Editors: editor.Variants(editor.Options{
			SocketDir: cfg.SocketDir,
			NvimBin:   cfg.NvimBin,
			VimBin:    cfg.VimBin,
			GvimBin:   cfg.GvimBin,
		}),
		DefaultEditor: defaultEditorName(cfg, flagEditor),
		AutoFocus:     !cfg.NoAutoFocus && !flagNoFocus,
		Logf:          logf,
	}
	if ctx != nil {
		orch.Registry = reader.WithScope(mode)
		orch.LocalRegistry = reader
		orch.Focus = func(owner string) error {
			return session.FocusOwnerPane(tm, owner)
		}
		orch.Announce = func(name string) {
			msg := "vmux: new session " + name
			if ctx.WorkDir != "" {
				msg += " (" + filepath.Base(ctx.WorkDir) + ")"
			}
			_ = tm.DisplayMessage(msg)
		}
	}

	if flagPrint {
		if ctx == nil {
			return session.ErrNoHostSession
		}
		res, err := session.Resolve(ctx, mode, orch.Registry)
		if err != nil {
			return err
		}
		fmt.Println(res.Name)
		return nil
	}

	a := editor.SplitArgs(args, cmd.ArgsLenAtDash() == 0)
	code, err := orch.Run(a)
	if err != nil {
		return err
	}
	exitCode = code
	return nil
}

// resolveMode applies the flag overrides on top of the configured toggle.
// An explicit flag wins; --global beats --local when both are given.
func resolveMode(cfgGlobal, fGlobal, fLocal bool) session.Mode {
	switch {
	case fGlobal:
		return session.ModeGlobal
	case fLocal:
		return session.ModeLocal
	case cfgGlobal:
		return session.ModeGlobal
	}
	return session.ModeLocal
}

func defaultEditorName(cfg *config.Config, override string) string {
	if override != "" {
		return override
	}
	return cfg.DefaultEditor
}
