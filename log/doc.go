// Package log is a small structured logger built on [log/slog].
//
// A [Logger] is an immutable value: [Logger.Wrap] and [Logger.With] return a
// new Logger and leave the receiver unchanged, so loggers can be handed to
// library code as plain configuration values.
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatText),
//	)
//	logger.Info("loaded", slog.String("path", path))
//
// Output formats are [FormatJSON] and [FormatText]. With [WithPretty], text
// output is colorized with lipgloss styles; JSON output is never colorized.
//
// The package also keeps a default logger used by the package-level
// functions ([Info], [Error], ...). The command line configures it once with
// [Config] after flags are parsed.
package log
