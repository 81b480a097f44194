package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hexwalk/hexwalk/internal/prefs"
	"github.com/hexwalk/hexwalk/internal/schema"
	"github.com/hexwalk/hexwalk/internal/ui"
)

// Options configure the hexwalk application.
type Options struct {
	DataPath   string
	LayoutPath string
	PrefsPath  string // empty uses default ~/.config/hexwalk/prefs.toml
}

// Run boots the hexwalk TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	blob, err := os.ReadFile(opts.DataPath)
	if err != nil {
		return fmt.Errorf("read data file: %w", err)
	}

	layout, err := schema.Load(opts.LayoutPath)
	if err != nil {
		return fmt.Errorf("load layout: %w", err)
	}

	roots, err := layout.Decode(blob)
	if err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(opts.DataPath), err)
	}

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	uiOpts := ui.Options{
		Context:   ctx,
		Roots:     roots,
		Data:      blob,
		FileName:  filepath.Base(opts.DataPath),
		Prefs:     userPrefs,
		PrefsPath: opts.PrefsPath,
	}
	return ui.Run(uiOpts)
}
