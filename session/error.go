package session

import "github.com/ardnew/nml/pkg"

// Error is a session error with structured logging support.
type Error = pkg.Error

var (
	ErrOpen       = pkg.NewError("open document")
	ErrSave       = pkg.NewError("save document")
	ErrNoPath     = pkg.NewError("no file name")
	ErrFileExists = pkg.NewError("file exists (use overwrite to replace it)")
	ErrUnsaved    = pkg.NewError("unsaved changes")
)
