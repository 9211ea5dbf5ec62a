package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/encodeous/tint"
	"github.com/encodeous/weft/core"
	"github.com/encodeous/weft/state"
)

// loadNodeConfig reads the node config, falling back to defaults when the
// file does not exist.
func loadNodeConfig(path string) (*state.NodeCfg, error) {
	cfg, err := core.ReadNodeConfig(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg = &state.NodeCfg{}
		cfg.ApplyDefaults()
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return cfg, nil
}

func cliLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level: level,
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			if attr.Key == "time" {
				return slog.Attr{}
			}
			return attr
		},
	}))
}
