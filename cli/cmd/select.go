package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/ardnew/nml/log"
	"github.com/ardnew/nml/selection"
)

// Select adds diagnostic quantity codes to the output list of an output
// type. Without --diag it lists the diagnostic groups offered; without codes
// it lists the quantities of the group.
type Select struct {
	Output string `help:"Output type label or prefix, e.g. shellslice." required:"" short:"o"`
	Diag   string `help:"Diagnostic group."                                          short:"d"`
	Group  string `default:"output_namelist" help:"Namelist group holding output lists." short:"g"`

	File  string   `arg:"" help:"Namelist file (created if needed)." type:"path"`
	Codes []string `arg:"" help:"Quantity codes to add."             optional:""`
}

// Run executes the select command.
func (c *Select) Run(ctx context.Context) error {
	cat, err := loadCatalog(ctx)
	if err != nil {
		return err
	}

	s, err := openSession(ctx, c.File, true)
	if err != nil {
		return err
	}

	h := selection.New(cat, s.Document(),
		selection.WithGroup(c.Group),
		selection.WithLogger(log.Default()),
	)

	w := stdout(ctx)

	if c.Diag == "" {
		if len(c.Codes) > 0 {
			return ErrNoDiag
		}

		if err := h.SetOutput(c.Output); err != nil {
			return err
		}

		groups, err := h.Groups()
		if err != nil {
			return err
		}

		for _, g := range groups {
			fmt.Fprintln(w, g)
		}

		return nil
	}

	if err := h.Browse(c.Output, c.Diag); err != nil {
		return err
	}

	if len(c.Codes) == 0 {
		rows, err := h.Rows()
		if err != nil {
			return err
		}

		writeRows(w, rows)

		return nil
	}

	for _, code := range c.Codes {
		if err := h.Select(code); err != nil {
			return err
		}
	}

	added, err := h.Commit()
	if err != nil {
		return err
	}

	out, _ := h.Output()

	log.InfoContext(ctx, "selection committed",
		slog.String("entry", out.ValuesEntry()),
		slog.Int("added", added))

	if added == 0 {
		return nil
	}

	return s.Save(ctx, "", false)
}

// writeRows prints one line per quantity: a mark ("*" saved, "+" selected),
// the code and the label.
func writeRows(w io.Writer, rows []selection.Row) {
	for _, r := range rows {
		mark := " "

		switch {
		case r.Saved:
			mark = "*"
		case r.Selected:
			mark = "+"
		}

		fmt.Fprintf(w, "%s %5s  %s\n", mark, r.Code, r.Label())
	}
}
