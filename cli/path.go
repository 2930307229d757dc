package cli

import (
	"github.com/ardnew/nml/pkg"
)

// baseConfig is the base name of the configuration files and the name of the
// namelist group holding flag values.
const baseConfig = "config"

// Extensions of the configuration files read at startup. Flags set on the
// command line override them.
var configFormats = []string{"json", "toml", "nml"}

// configPath returns the path of the configuration file with extension ext.
func configPath(ext string) string {
	return pkg.ConfigPath(baseConfig + "." + ext)
}
