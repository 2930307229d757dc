// Package cmd implements the nml subcommands.
//
// Commands read shared flag values with [WithGlobals] and the running
// [kong.Context] with [WithContext]. Commands that modify a file open it in
// a [session.Session] and save it only if the document changed.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the namelist configuration file.
	ConfigIdentifier = "config"
)
