package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/nml/catalog"
	"github.com/ardnew/nml/log"
	"github.com/ardnew/nml/namelist"
	"github.com/ardnew/nml/session"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// Globals holds the values of flags shared by all commands.
type Globals struct {
	Indent  int    // indent width of written namelist entries
	Catalog string // catalog file; empty uses the built-in table
}

type globalsKey struct{}

// WithGlobals returns a new context.Context containing g.
func WithGlobals(ctx context.Context, g Globals) context.Context {
	return context.WithValue(ctx, globalsKey{}, g)
}

func globalsFrom(ctx context.Context) Globals {
	g, ok := ctx.Value(globalsKey{}).(Globals)
	if !ok {
		return Globals{Indent: namelist.DefaultIndent}
	}

	return g
}

// stdout returns the output writer of the running kong application.
func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

// stderr returns the error writer of the running kong application.
func stderr(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stderr != nil {
		return ktx.Stderr
	}

	return os.Stderr
}

// reportFormat prints the source snippet of a namelist syntax error.
func reportFormat(ctx context.Context, err error) {
	var fe *namelist.FormatError
	if errors.As(err, &fe) {
		fmt.Fprint(stderr(ctx), fe.Snippet())
	}
}

// newSession returns a session configured from the global flags.
func newSession(ctx context.Context, opts ...session.Option) *session.Session {
	return session.New(append([]session.Option{
		session.WithIndent(globalsFrom(ctx).Indent),
		session.WithLogger(log.Default()),
	}, opts...)...)
}

// openSession opens path. If create is set and path does not exist, the
// session starts with an empty document named path.
func openSession(ctx context.Context, path string, create bool) (*session.Session, error) {
	if create {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			return newSession(ctx, session.WithPath(path)), nil
		}
	}

	s := newSession(ctx)
	if err := s.Open(ctx, path); err != nil {
		reportFormat(ctx, err)

		return nil, err
	}

	return s, nil
}

// update opens path, applies fn to its document and saves it if anything
// changed.
func update(
	ctx context.Context,
	path string,
	create bool,
	fn func(*namelist.Document) error,
) error {
	s, err := openSession(ctx, path, create)
	if err != nil {
		return err
	}

	if err := fn(s.Document()); err != nil {
		return err
	}

	if !s.Dirty() {
		log.DebugContext(ctx, "document unchanged", slog.String("path", path))

		return nil
	}

	return s.Save(ctx, "", false)
}

// loadCatalog returns the catalog named by the --catalog flag, or the
// built-in table of output types.
func loadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	path := globalsFrom(ctx).Catalog
	if path == "" {
		return catalog.Default(), nil
	}

	return catalog.Load(ctx, path, catalog.WithLogger(log.Default()))
}

// stdinSource names standard input in a source list.
const stdinSource = "-"

// sources reads a list of input files in order, each distinct file once.
// Standard input, named by "-" any number of times, is read last.
type sources struct {
	files []*os.File
	stdin bool
}

// fileKey identifies a file by device and inode, so that symlinks and
// relative paths to the same file compare equal.
type fileKey struct {
	dev uint64
	ino uint64
}

// openSources opens each named file. It fails on the first file that cannot
// be opened.
func openSources(names []string) (*sources, error) {
	var s sources

	seen := make(map[fileKey]struct{})

	stdinInfo, _ := os.Stdin.Stat()
	stdinKey, hasStdinKey := makeFileKey(stdinInfo)

	for _, name := range names {
		if name == stdinSource {
			s.stdin = true

			continue
		}

		f, key, ok, err := openFile(name)
		if err != nil {
			_ = s.Close()

			return nil, ErrReadInput.Wrap(err).With(slog.String("path", name))
		}

		if ok && hasStdinKey && key == stdinKey {
			s.stdin = true
			_ = f.Close()

			continue
		}

		if _, dup := seen[key]; ok && dup {
			_ = f.Close()

			continue
		}

		if ok {
			seen[key] = struct{}{}
		}

		s.files = append(s.files, f)
	}

	if len(s.files) == 0 {
		s.stdin = true
	}

	return &s, nil
}

// Reader returns a reader over the concatenated sources.
func (s *sources) Reader() io.Reader {
	r := make([]io.Reader, 0, len(s.files)+1)
	for _, f := range s.files {
		r = append(r, f)
	}

	if s.stdin {
		r = append(r, os.Stdin)
	}

	return io.MultiReader(r...)
}

// Close closes every opened file.
func (s *sources) Close() error {
	var errs []error
	for _, f := range s.files {
		errs = append(errs, f.Close())
	}

	return errors.Join(errs...)
}

// openFile opens name with symlinks resolved. ok reports whether key
// identifies the file.
func openFile(name string) (f *os.File, key fileKey, ok bool, err error) {
	abs, err := filepath.Abs(name)
	if err != nil {
		return nil, key, false, err
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, key, false, err
	}

	f, err = os.Open(resolved)
	if err != nil {
		return nil, key, false, err
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()

		return nil, key, false, err
	}

	key, ok = makeFileKey(info)

	return f, key, ok, nil
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	if info == nil {
		return key, false
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: stat.Dev, ino: stat.Ino}, true
}
