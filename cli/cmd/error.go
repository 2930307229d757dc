package cmd

import "github.com/ardnew/nml/pkg"

// Error is a command error with structured logging support.
type Error = pkg.Error

var (
	ErrReadInput   = pkg.NewError("read input")
	ErrWriteOutput = pkg.NewError("write output")
	ErrWriteConfig = pkg.NewError("write configuration file")
	ErrFileExists  = pkg.NewError("file exists (use --force to overwrite)")
	ErrNoDiag      = pkg.NewError("quantity codes need a diagnostic group (--diag)")
)
