package selection

import "github.com/ardnew/nml/pkg"

// Error is a selection error with structured logging support.
type Error = pkg.Error

var (
	ErrNotBrowsing   = pkg.NewError("no diagnostic group selected")
	ErrNoOutputType  = pkg.NewError("no output type selected")
	ErrUnknownOutput = pkg.NewError("unknown output type")
	ErrUnknownGroup  = pkg.NewError("unknown diagnostic group")
	ErrUnknownCode   = pkg.NewError("unknown quantity code")
)
