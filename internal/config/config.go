// Package config resolves vmux configuration.
//
// Every value resolves through the same precedence chain, highest first:
//
//  1. tmux server-wide environment table
//  2. tmux session environment table
//  3. process environment
//  4. config file (~/.config/vmux/config.toml)
//  5. compiled-in default
//
// The first three tiers share one env-style key per setting and are read
// through the session registry's fallback chain; outside tmux only the
// process environment tier applies.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Keys addressed through the registry/environment tiers.
const (
	KeyDefaultEditor = "VMUX_DEFAULT_EDITOR"
	KeyGlobal        = "VMUX_GLOBAL"
	KeyNoAutoFocus   = "VMUX_NO_AUTOFOCUS"
	KeyDebug         = "VMUX_DEBUG"
	KeySocketDir     = "VMUX_SOCKET_DIR"
	KeyNvimBin       = "VMUX_NVIM_BIN"
	KeyVimBin        = "VMUX_VIM_BIN"
	KeyGvimBin       = "VMUX_GVIM_BIN"
)

// Getter reads one key through the store/environment tiers. Satisfied by
// the session registry; nil means "process environment only".
type Getter interface {
	Get(key string) (string, bool, error)
}

// Config holds all vmux configuration.
type Config struct {
	DefaultEditor string // backend used for fresh launches
	Global        bool   // share one session across opted-in panes
	NoAutoFocus   bool   // suppress owner-pane focusing in global mode
	Debug         bool   // verbose diagnostics on stderr
	SocketDir     string // nvim listen socket directory

	// Per-backend executable overrides; empty means the backend name.
	NvimBin string
	VimBin  string
	GvimBin string

	// File is the config file that was loaded, empty if none.
	File string
}

// fileConfig is the TOML shape of the config file. Pointers distinguish
// "absent" from "explicitly false".
type fileConfig struct {
	DefaultEditor string `toml:"default_editor"`
	Global        *bool  `toml:"global"`
	NoAutoFocus   *bool  `toml:"no_autofocus"`
	Debug         *bool  `toml:"debug"`
	SocketDir     string `toml:"socket_dir"`
	Bin           struct {
		Nvim string `toml:"nvim"`
		Vim  string `toml:"vim"`
		Gvim string `toml:"gvim"`
	} `toml:"bin"`
}

// Load resolves the full configuration. reg may be nil outside tmux.
func Load(reg Getter) (*Config, error) {
	return load(reg, defaultFilePath())
}

func load(reg Getter, filePath string) (*Config, error) {
	cfg := &Config{
		DefaultEditor: "nvim",
		SocketDir:     defaultSocketDir(),
	}

	if filePath != "" {
		if data, err := os.ReadFile(filePath); err == nil {
			var fc fileConfig
			if err := toml.Unmarshal(data, &fc); err != nil {
				return nil, fmt.Errorf("parsing %s: %w", filePath, err)
			}
			applyFile(cfg, &fc)
			cfg.File = filePath
		}
	}

	if reg == nil {
		reg = envGetter{}
	}
	if err := applyStore(cfg, reg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyFile(cfg *Config, fc *fileConfig) {
	if fc.DefaultEditor != "" {
		cfg.DefaultEditor = fc.DefaultEditor
	}
	if fc.Global != nil {
		cfg.Global = *fc.Global
	}
	if fc.NoAutoFocus != nil {
		cfg.NoAutoFocus = *fc.NoAutoFocus
	}
	if fc.Debug != nil {
		cfg.Debug = *fc.Debug
	}
	if fc.SocketDir != "" {
		cfg.SocketDir = fc.SocketDir
	}
	if fc.Bin.Nvim != "" {
		cfg.NvimBin = fc.Bin.Nvim
	}
	if fc.Bin.Vim != "" {
		cfg.VimBin = fc.Bin.Vim
	}
	if fc.Bin.Gvim != "" {
		cfg.GvimBin = fc.Bin.Gvim
	}
}

func applyStore(cfg *Config, reg Getter) error {
	strs := []struct {
		key string
		dst *string
	}{
		{KeyDefaultEditor, &cfg.DefaultEditor},
		{KeySocketDir, &cfg.SocketDir},
		{KeyNvimBin, &cfg.NvimBin},
		{KeyVimBin, &cfg.VimBin},
		{KeyGvimBin, &cfg.GvimBin},
	}
	for _, s := range strs {
		v, ok, err := reg.Get(s.key)
		if err != nil {
			return err
		}
		if ok && v != "" {
			*s.dst = v
		}
	}

	bools := []struct {
		key string
		dst *bool
	}{
		{KeyGlobal, &cfg.Global},
		{KeyNoAutoFocus, &cfg.NoAutoFocus},
		{KeyDebug, &cfg.Debug},
	}
	for _, b := range bools {
		v, ok, err := reg.Get(b.key)
		if err != nil {
			return err
		}
		if ok {
			*b.dst = parseBool(v)
		}
	}
	return nil
}

// envGetter serves the no-tmux path: only the process environment tier.
type envGetter struct{}

func (envGetter) Get(key string) (string, bool, error) {
	v, ok := os.LookupEnv(key)
	return v, ok, nil
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func defaultFilePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "vmux", "config.toml")
}

// defaultSocketDir follows the runtime-dir convention: the user's XDG
// runtime directory when available, otherwise a per-uid directory under
// /tmp (tmux keeps its own sockets the same way).
func defaultSocketDir() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "vmux")
	}
	return filepath.Join("/tmp", fmt.Sprintf("vmux-%d", os.Getuid()))
}
