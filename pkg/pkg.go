//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version is the semantic version of the nml module embedded at build time.
var Version = strings.TrimSpace(version)

const (
	// Name is the command name. It also names the per-user config and cache
	// directories.
	Name = "nml"
	// Description is a short summary used in help output.
	Description = "Fortran namelist reader, writer and editor"
)

// AuthorInfo represents an individual author's name and email address.
type AuthorInfo struct {
	Name  string
	Email string
}

// Author lists the primary author(s) of the project for display in metadata.
//
//nolint:gochecknoglobals
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
