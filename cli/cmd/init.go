package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/ardnew/nml/log"
	"github.com/ardnew/nml/namelist"
	"github.com/ardnew/nml/profile"
)

// Init writes the current values of the global flags to the namelist
// configuration file.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	doc, err := i.buildDocument(ctx)
	if err != nil {
		return ErrWriteConfig.Wrap(err)
	}

	file, err := os.Create(confPath)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}
	defer file.Close()

	if err := doc.Format(ctx, file); err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(
		ctx,
		"initialized configuration file",
		slog.String("path", confPath),
	)

	return nil
}

// buildDocument returns a document with one group holding an entry for each
// top-level flag that has a value.
func (i *Init) buildDocument(ctx context.Context) (*namelist.Document, error) {
	ktx := kongContextFrom(ctx)

	doc := namelist.New(namelist.WithIndent(globalsFrom(ctx).Indent))

	g, err := doc.AddGroup(ConfigIdentifier)
	if err != nil {
		return nil, err
	}

	prefixIgnore := []string{"help", profile.Tag}

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(prefixIgnore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		v := flagValue(ktx.FlagValue(flag))
		if len(v) == 0 {
			continue
		}

		if _, err := g.AddEntry(strings.ReplaceAll(flag.Name, "-", "_"), v); err != nil {
			return nil, err
		}
	}

	return doc, nil
}

// flagValue converts a kong flag value to a namelist value. Unset and empty
// values yield nil.
func flagValue(val any) namelist.Value {
	switch v := val.(type) {
	case nil:
		return nil

	case bool:
		return namelist.Value{namelist.Bool(v)}

	case string:
		if v == "" {
			return nil
		}

		return namelist.Value{namelist.String(v)}

	case int:
		return namelist.Value{namelist.Int(int64(v))}

	case int64:
		return namelist.Value{namelist.Int(v)}

	case float64:
		return namelist.Value{namelist.Float(v)}

	case []string:
		out := make(namelist.Value, len(v))
		for i, s := range v {
			out[i] = namelist.String(s)
		}

		return out

	case []int:
		out := make(namelist.Value, len(v))
		for i, n := range v {
			out[i] = namelist.Int(int64(n))
		}

		return out

	case fmt.Stringer:
		return flagValue(v.String())

	default:
		return flagValue(fmt.Sprint(v))
	}
}
