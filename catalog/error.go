package catalog

import "github.com/ardnew/nml/pkg"

// Error is a catalog error with structured logging support.
type Error = pkg.Error

var (
	ErrUnknownOutput = pkg.NewError("unknown output type")
	ErrUnknownGroup  = pkg.NewError("unknown diagnostic group")
	ErrUnknownFormat = pkg.NewError("unknown catalog format")
	ErrReadInput     = pkg.NewError("read catalog")
	ErrDecode        = pkg.NewError("decode catalog")
	ErrEncode        = pkg.NewError("encode catalog")
	ErrInvalid       = pkg.NewError("invalid catalog")
	ErrScan          = pkg.NewError("scan diagnostics")
)
