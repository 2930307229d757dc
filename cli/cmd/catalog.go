package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ardnew/nml/catalog"
	"github.com/ardnew/nml/log"
)

// Catalog inspects the quantity catalog or builds one from Fortran sources.
type Catalog struct {
	Ls   CatalogLs   `cmd:"" default:"withargs" help:"List output types, diagnostic groups or quantities."`
	Scan CatalogScan `cmd:""                    help:"Build a catalog from Rayleigh diagnostic sources."`
}

// CatalogLs lists output types, the diagnostic groups of an output type, or
// the quantities of one group.
type CatalogLs struct {
	Output string `arg:"" help:"Output type label or prefix." optional:""`
	Diag   string `arg:"" help:"Diagnostic group."            optional:""`
}

// Run executes the catalog ls command.
func (c *CatalogLs) Run(ctx context.Context) error {
	cat, err := loadCatalog(ctx)
	if err != nil {
		return err
	}

	w := stdout(ctx)

	switch {
	case c.Output == "":
		for _, o := range cat.OutputTypes() {
			fmt.Fprintf(w, "%-12s %s\n", o.Prefix, o.Label)
		}

	case c.Diag == "":
		groups, err := cat.GroupsFor(c.Output)
		if err != nil {
			return err
		}

		for _, g := range groups {
			fmt.Fprintln(w, g)
		}

	default:
		qs, err := cat.Quantities(c.Output, c.Diag)
		if err != nil {
			return err
		}

		writeQuantities(w, qs)
	}

	return nil
}

// CatalogScan scans a directory of Fortran diagnostic sources and writes
// the resulting catalog.
type CatalogScan struct {
	Format string `default:"yaml" enum:"yaml,json,toml" help:"Output format."                     short:"f"`
	Out    string `                                     help:"Output file (default stdout)." short:"o" type:"path"`
	Force  bool   `                                     help:"Overwrite an existing output file."`

	Dir string `arg:"" help:"Directory containing Diagnostics_Base.F90." type:"existingdir"`
}

// Run executes the catalog scan command.
func (c *CatalogScan) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	format, err := catalog.ParseFormat(c.Format)
	if err != nil {
		return err
	}

	cat, err := catalog.Scan(ctx, c.Dir, catalog.WithLogger(log.Default()))
	if err != nil {
		return err
	}

	if c.Out == "" {
		return cat.Encode(ctx, stdout(ctx), format)
	}

	if _, err := os.Stat(c.Out); err == nil && !c.Force {
		return ErrWriteOutput.
			With(slog.String("file", c.Out)).
			Wrap(ErrFileExists)
	}

	if err := os.MkdirAll(filepath.Dir(c.Out), 0o755); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	file, err := os.Create(c.Out)
	if err != nil {
		return ErrWriteOutput.With(slog.String("file", c.Out)).Wrap(err)
	}
	defer file.Close()

	if err := cat.Encode(ctx, file, format); err != nil {
		return err
	}

	log.DebugContext(ctx, "wrote catalog",
		slog.String("path", c.Out),
		slog.Int("group_count", len(cat.Groups())))

	return nil
}

// writeQuantities prints the quantities of one diagnostic group.
func writeQuantities(w io.Writer, qs []catalog.Quantity) {
	for _, q := range qs {
		fmt.Fprintf(w, "%5s  %-24s %s\n", q.Code, q.Name, q.Label())
	}
}
