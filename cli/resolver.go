package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/alecthomas/kong"

	"github.com/ardnew/nml/log"
	"github.com/ardnew/nml/namelist"
)

// resolveNamelist returns a [kong.ConfigurationLoader] for namelist files.
// Flag values are read from the entries of the group named group:
//
//	&config
//	  log_level = 'debug'
//	  log_pretty = .false.
//	  indent = 4
//	/
//
// Hyphens in flag names are written as underscores. A file that does not
// parse, or has no such group, resolves nothing.
func resolveNamelist(
	ctx context.Context,
	group string,
) func(r io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		doc, err := namelist.ParseReader(ctx, r)
		if err != nil {
			log.WarnContext(ctx, "ignoring configuration file",
				slog.Any("error", err))

			return config{}, nil
		}

		g, ok := doc.Group(group)
		if !ok {
			return config{}, nil
		}

		c := make(config, g.Len())
		for e := range g.Entries() {
			c[strings.ToLower(e.Name())] = flagValue(e.Value.Native())
		}

		return c, nil
	}
}

// resolveTOML returns a [kong.ConfigurationLoader] for TOML files. Flag
// values are read from the table named table, or from top-level keys if the
// file has no such table.
func resolveTOML(
	ctx context.Context,
	table string,
) func(r io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		var raw map[string]any

		if _, err := toml.NewDecoder(r).Decode(&raw); err != nil {
			log.WarnContext(ctx, "ignoring configuration file",
				slog.Any("error", err))

			return config{}, nil
		}

		if t, ok := raw[table].(map[string]any); ok {
			raw = t
		}

		c := make(config, len(raw))
		for k, v := range raw {
			c[strings.ToLower(k)] = flagValue(v)
		}

		return c, nil
	}
}

// config implements [kong.Resolver] over a flat map of flag values.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver]. Keys match the flag name with hyphens
// or with underscores.
func (c config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	if v, ok := c[flag.Name]; ok {
		return v, nil
	}

	if v, ok := c[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return v, nil
	}

	return nil, nil
}

// flagValue converts a decoded value to a form kong can map onto a flag.
// Numbers are passed as strings and arrays as comma-separated lists.
func flagValue(v any) any {
	switch v := v.(type) {
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		parts := make([]string, len(v))
		for i, e := range v {
			parts[i] = fmt.Sprint(flagValue(e))
		}

		return strings.Join(parts, ",")
	default:
		return v
	}
}
