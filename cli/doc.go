// Package cli contains the command line interface for nml.
//
// # Usage
//
//	nml [flags] <command> [args]
//	nml input.nml              # same as: nml edit input.nml
//
// # Commands
//
//   - init: write the current flag values to the configuration file
//   - fmt native|json|yaml: reformat or convert namelist files
//   - group ls|add|rm: list or edit groups
//   - entry get|add|set|rm: read or edit entries
//   - select: add diagnostic quantity codes to an output list
//   - catalog ls|scan: inspect the quantity catalog or build one from
//     Fortran sources
//   - edit: interactive shell
//
// # Configuration
//
// Flag defaults are read from files in the user configuration directory:
//
//	config.json   # kong JSON: {"log-level": "debug"}
//	config.toml   # top-level keys or a [config] table
//	config.nml    # entries of the &config namelist group
//
// Hyphens in flag names may be written as underscores. Flags given on the
// command line take precedence.
//
// # Logging Options
//
//   - --log-level: minimum level (trace, debug, info, warn, error)
//   - --log-format: output format (text, json)
//   - --log-time-layout: timestamp layout (RFC3339, Kitchen, none, ...)
//   - --log-caller: include caller information
//   - --log-pretty: colorize text output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof .
//
//   - --pprof-mode: enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: profile output directory (default: pprof under the user
//     cache directory)
package cli
