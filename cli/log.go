package cli

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/nml/log"
)

// logFormat configures the logger format as a side effect of parsing, so
// that errors reported while kong is still parsing use the chosen format.
type logFormat string

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *logFormat) UnmarshalText(text []byte) error {
	*f = logFormat(text)
	log.Config(log.WithFormat(log.ParseFormat(string(*f))))

	return nil
}

// logLevel configures the logger level as a side effect of parsing.
type logLevel string

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *logLevel) UnmarshalText(text []byte) error {
	*l = logLevel(text)
	log.Config(log.WithLevel(log.ParseLevel(string(*l))))

	return nil
}

type logConfig struct {
	Level      logLevel  `default:"info"    enum:"${logLevelEnum}"  help:"Set log level."`
	Format     logFormat `default:"text"    enum:"${logFormatEnum}" help:"Set log format."`
	TimeLayout string    `default:"RFC3339"                         help:"Set timestamp layout (Go layout or name, \"none\" to omit)."`
	Caller     bool      `default:"false"                           help:"Include caller information."       negatable:""`
	Pretty     bool      `default:"true"                            help:"Enable colorized pretty printing." negatable:""`
}

func (*logConfig) vars() kong.Vars {
	return kong.Vars{
		"logLevelEnum":  strings.Join(slices.Collect(log.Levels()), ","),
		"logFormatEnum": strings.Join(slices.Collect(log.Formats()), ","),
	}
}

func (*logConfig) group() kong.Group {
	return kong.Group{Key: "log", Title: "Logging options"}
}

// start applies every parsed logging flag to the default logger.
func (f *logConfig) start(ctx context.Context) {
	log.Config(
		log.WithLevel(log.ParseLevel(string(f.Level))),
		log.WithFormat(log.ParseFormat(string(f.Format))),
		log.WithTimeLayout(f.TimeLayout),
		log.WithCaller(f.Caller),
		log.WithPretty(f.Pretty),
	)

	log.DebugContext(ctx, "logger initialized",
		slog.String("level", string(f.Level)),
		slog.String("format", string(f.Format)),
		slog.String("time", f.TimeLayout),
		slog.Bool("caller", f.Caller),
		slog.Bool("pretty", f.Pretty),
	)
}

// scan applies logging flags found in args before kong parses them, so that
// the logger is configured regardless of flag position. Boolean flags do not
// pass through encoding.TextUnmarshaler and are only handled here.
func (f *logConfig) scan(args []string) {
	boolFlag := func(set func(bool)) func(value string, assigned bool) {
		return func(value string, assigned bool) {
			v := true
			if assigned {
				var err error
				if v, err = strconv.ParseBool(value); err != nil {
					return
				}
			}

			set(v)
		}
	}

	setCaller := func(v bool) {
		f.Caller = v
		log.Config(log.WithCaller(v))
	}

	setPretty := func(v bool) {
		f.Pretty = v
		log.Config(log.WithPretty(v))
	}

	flags := map[string]func(value string, assigned bool){
		"--log-caller":    boolFlag(setCaller),
		"--no-log-caller": boolFlag(func(v bool) { setCaller(!v) }),
		"--log-pretty":    boolFlag(setPretty),
		"--no-log-pretty": boolFlag(func(v bool) { setPretty(!v) }),
		"--log-level": func(value string, _ bool) {
			_ = f.Level.UnmarshalText([]byte(value))
		},
		"--log-format": func(value string, _ bool) {
			_ = f.Format.UnmarshalText([]byte(value))
		},
	}

	valued := map[string]bool{"--log-level": true, "--log-format": true}

	for i := 0; i < len(args); i++ {
		if args[i] == "--" {
			return
		}

		name, value, assigned := strings.Cut(args[i], "=")

		apply, ok := flags[name]
		if !ok {
			continue
		}

		if valued[name] && !assigned {
			if i+1 >= len(args) || strings.HasPrefix(args[i+1], "-") {
				continue
			}

			i++
			value = args[i]
		}

		apply(value, assigned)
	}
}
