// Package session manages the lifecycle of one namelist document: creating,
// opening, saving and quitting, with detection of unsaved changes.
package session

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/zeebo/xxh3"

	"github.com/ardnew/nml/log"
	"github.com/ardnew/nml/namelist"
)

// Session holds the current document and the file it was read from or
// last saved to.
type Session struct {
	doc     *namelist.Document
	path    string
	saved   uint64 // hash of the document text at the last open or save
	docOpts []namelist.Option
	logger  log.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the structured logger, which is also passed to documents.
func WithLogger(logger log.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithIndent sets the entry indent of documents written by the session.
func WithIndent(n int) Option {
	return func(s *Session) {
		s.docOpts = append(s.docOpts, namelist.WithIndent(n))
	}
}

// WithPath names the file of the initial empty document. The file need not
// exist; it is created by the first [Session.Save].
func WithPath(path string) Option {
	return func(s *Session) {
		s.path = path
	}
}

// New returns a session holding an empty document. It has no file name
// unless [WithPath] is given.
func New(opts ...Option) *Session {
	s := &Session{}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	s.docOpts = append(s.docOpts, namelist.WithLogger(s.logger))
	s.replace(namelist.New(s.docOpts...), s.path)

	return s
}

// Document returns the current document. It is edited in place.
func (s *Session) Document() *namelist.Document { return s.doc }

// SetDocument replaces the document and keeps the file name. The session is
// dirty if doc differs from the last open or save.
func (s *Session) SetDocument(doc *namelist.Document) { s.doc = doc }

// Path returns the file name of the document, or "" for a new document.
func (s *Session) Path() string { return s.path }

// Dirty reports whether the document text differs from the last open or
// save.
func (s *Session) Dirty() bool { return s.hash() != s.saved }

// Reset replaces the document with an empty one. It fails with [ErrUnsaved]
// if the document has unsaved changes, unless force is set.
func (s *Session) Reset(force bool) error {
	if err := s.checkUnsaved(force); err != nil {
		return err
	}

	s.replace(namelist.New(s.docOpts...), "")

	return nil
}

// Open reads and parses path. The current document and path are replaced
// only if the whole file parses; on error the session is unchanged.
func (s *Session) Open(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return ErrOpen.Wrap(err).With(slog.String("path", path))
	}
	defer f.Close()

	doc, err := namelist.ParseReader(ctx, f, s.docOpts...)
	if err != nil {
		return ErrOpen.Wrap(err).With(slog.String("path", path))
	}

	s.replace(doc, path)

	s.logger.DebugContext(ctx, "opened document",
		slog.String("path", path),
		slog.Int("group_count", doc.Len()))

	return nil
}

// Save writes the document to path, or to the current file name if path is
// empty. Writing to a file other than the current one fails with
// [ErrFileExists] if it exists, unless overwrite is set. The file is replaced
// atomically.
func (s *Session) Save(ctx context.Context, path string, overwrite bool) error {
	if path == "" {
		path = s.path
	}

	if path == "" {
		return ErrSave.Wrap(ErrNoPath)
	}

	mode := fs.FileMode(0o644)

	info, err := os.Stat(path)

	switch {
	case err == nil:
		if !overwrite && !s.samePath(path) {
			return ErrSave.With(slog.String("path", path)).Wrap(ErrFileExists)
		}

		mode = info.Mode().Perm()

	case !errors.Is(err, fs.ErrNotExist):
		return ErrSave.Wrap(err).With(slog.String("path", path))
	}

	if err := writeFile(ctx, path, mode, s.doc); err != nil {
		return ErrSave.Wrap(err).With(slog.String("path", path))
	}

	s.path = path
	s.saved = s.hash()

	s.logger.DebugContext(ctx, "saved document", slog.String("path", path))

	return nil
}

// Quit fails with [ErrUnsaved] if the document has unsaved changes, unless
// force is set.
func (s *Session) Quit(force bool) error { return s.checkUnsaved(force) }

func (s *Session) checkUnsaved(force bool) error {
	if force || !s.Dirty() {
		return nil
	}

	if s.path != "" {
		return ErrUnsaved.With(slog.String("path", s.path))
	}

	return ErrUnsaved
}

func (s *Session) replace(doc *namelist.Document, path string) {
	s.doc, s.path = doc, path
	s.saved = s.hash()
}

func (s *Session) hash() uint64 { return xxh3.HashString(s.doc.String()) }

func (s *Session) samePath(path string) bool {
	if s.path == "" {
		return false
	}

	a, errA := os.Stat(s.path)
	b, errB := os.Stat(path)

	return errA == nil && errB == nil && os.SameFile(a, b)
}

// writeFile writes doc to a temporary file in the directory of path and
// renames it over path.
func writeFile(ctx context.Context, path string, mode fs.FileMode, doc *namelist.Document) (err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = doc.Format(ctx, tmp); err != nil {
		return err
	}

	if err = tmp.Sync(); err != nil {
		return err
	}

	if err = tmp.Chmod(mode); err != nil {
		return err
	}

	if err = tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}
