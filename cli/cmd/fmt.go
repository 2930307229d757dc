package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/nml/log"
	"github.com/ardnew/nml/namelist"
)

// Fmt parses namelist input and writes it in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as namelist syntax (default)."`
	JSON   JSON   `cmd:""                    help:"Format as JSON."`
	YAML   YAML   `cmd:""                    help:"Format as YAML."`
}

// Native writes input in canonical namelist syntax.
type Native struct {
	Source []string `arg:"" default:"-" help:"Source files or '-' for stdin." name:"source"`
}

// Run executes the native command.
func (f *Native) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	return format(ctx, "native", f.Source,
		func(doc *namelist.Document, w io.Writer, _ int) error {
			return doc.Format(ctx, w)
		})
}

// JSON writes input as a JSON object of groups.
type JSON struct {
	Source []string `arg:"" default:"-" help:"Source files or '-' for stdin." name:"source"`
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	return format(ctx, "json", j.Source,
		func(doc *namelist.Document, w io.Writer, indent int) error {
			return doc.FormatJSON(ctx, w, indent)
		})
}

// YAML writes input as a YAML mapping of groups.
type YAML struct {
	Source []string `arg:"" default:"-" help:"Source files or '-' for stdin." name:"source"`
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	return format(ctx, "yaml", y.Source,
		func(doc *namelist.Document, w io.Writer, indent int) error {
			return doc.FormatYAML(ctx, w, indent)
		})
}

// format parses the concatenated sources as one document and writes it to
// the command output with write.
func format(
	ctx context.Context,
	name string,
	source []string,
	write func(doc *namelist.Document, w io.Writer, indent int) error,
) error {
	src, err := openSources(source)
	if err != nil {
		return err
	}
	defer src.Close()

	indent := globalsFrom(ctx).Indent

	doc, err := namelist.ParseReader(ctx, src.Reader(),
		namelist.WithIndent(indent),
		namelist.WithLogger(log.Default()),
	)
	if err != nil {
		reportFormat(ctx, err)

		return ErrReadInput.Wrap(err).With(slog.String("format", name))
	}

	if err := write(doc, stdout(ctx), indent); err != nil {
		return ErrWriteOutput.Wrap(err).With(slog.String("format", name))
	}

	return nil
}
