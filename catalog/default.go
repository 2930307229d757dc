package catalog

// Default returns a catalog with the standard output types and no
// diagnostic groups.
func Default() *Catalog {
	return &Catalog{outputs: defaultOutputs()}
}

func defaultOutputs() []OutputType {
	return []OutputType{
		{Label: "Shell Slice", Prefix: "shellslice"},
		{Label: "Shell Spectra", Prefix: "shellspectra"},
		{Label: "Point Probes", Prefix: "point_probe"},
		{Label: "Meridional Slice", Prefix: "meridional"},
		{Label: "Equatorial Slice", Prefix: "equatorial"},
		{Label: "Az Average", Prefix: "azavg"},
		{Label: "Shell Average", Prefix: "shellavg"},
		{Label: "Global Average", Prefix: "globalavg"},
		{Label: "SPH Mode", Prefix: "sph_mode"},
		{Label: "Spherical 3D", Prefix: "full3d"},
	}
}
