package cmd

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/ardnew/nml/cli/cmd/repl"
	"github.com/ardnew/nml/log"
	"github.com/ardnew/nml/session"
)

// Edit starts the interactive shell.
type Edit struct {
	Group string `default:"output_namelist" help:"Namelist group holding output lists." short:"g"`

	File string `arg:"" help:"Namelist file (created on save if needed)." optional:"" type:"path"`
}

// Run executes the edit command.
func (c *Edit) Run(ctx context.Context) error {
	cat, err := loadCatalog(ctx)
	if err != nil {
		return err
	}

	var s *session.Session

	if c.File == "" {
		s = newSession(ctx)
	} else if s, err = openSession(ctx, c.File, true); err != nil {
		return err
	}

	log.DebugContext(ctx, "start shell",
		slog.String("path", s.Path()),
		slog.String("group", c.Group))

	return repl.Run(ctx, s, cat,
		repl.WithHistory(historyPath(ctx)),
		repl.WithGroup(c.Group),
		repl.WithLogger(log.Default()),
	)
}

// historyPath returns the shell history file in the cache directory, or ""
// if no cache directory is known.
func historyPath(ctx context.Context) string {
	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return ""
	}

	dir, ok := ktx.Model.Vars()[CacheIdentifier]
	if !ok || dir == "" {
		return ""
	}

	return filepath.Join(dir, repl.HistoryFile)
}
