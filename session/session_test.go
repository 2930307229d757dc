package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ardnew/nml/namelist"
)

const sample = `&input_namelist
  nstep = 10
  dt = 0.5
/
`

func writeSample(t *testing.T, name, text string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(text), 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	return string(data)
}

func openSample(t *testing.T, path string, opts ...Option) *Session {
	t.Helper()

	s := New(opts...)
	if err := s.Open(context.Background(), path); err != nil {
		t.Fatalf("Open: %v", err)
	}

	return s
}

func TestNewIsClean(t *testing.T) {
	s := New()

	if s.Document().Len() != 0 || s.Path() != "" || s.Dirty() {
		t.Errorf("expected empty clean session, got len=%d path=%q dirty=%v",
			s.Document().Len(), s.Path(), s.Dirty())
	}

	if err := s.Quit(false); err != nil {
		t.Errorf("Quit: %v", err)
	}
}

func TestOpen(t *testing.T) {
	path := writeSample(t, "input.nml", sample)
	s := openSample(t, path)

	if s.Path() != path {
		t.Errorf("expected path %q, got %q", path, s.Path())
	}

	if s.Dirty() {
		t.Errorf("expected clean session after open")
	}

	e, err := s.Document().Entry("input_namelist", "nstep")
	if err != nil {
		t.Fatalf("Entry: %v", err)
	}

	if e.Text() != "10" {
		t.Errorf("expected 10, got %q", e.Text())
	}
}

func TestOpenFailureKeepsDocument(t *testing.T) {
	good := writeSample(t, "good.nml", sample)
	bad := writeSample(t, "bad.nml", "&broken\n  x = 1\n")

	s := openSample(t, good)

	err := s.Open(context.Background(), bad)
	if !errors.Is(err, ErrOpen) || !errors.Is(err, namelist.ErrFormat) {
		t.Errorf("expected ErrOpen wrapping ErrFormat, got %v", err)
	}

	if s.Path() != good {
		t.Errorf("path changed to %q", s.Path())
	}

	if _, ok := s.Document().Group("input_namelist"); !ok {
		t.Errorf("document replaced after failed open")
	}

	err = s.Open(context.Background(), filepath.Join(t.TempDir(), "missing.nml"))
	if !errors.Is(err, ErrOpen) {
		t.Errorf("expected ErrOpen, got %v", err)
	}

	if s.Path() != good {
		t.Errorf("path changed to %q", s.Path())
	}
}

func TestDirtyTracking(t *testing.T) {
	s := openSample(t, writeSample(t, "input.nml", sample))

	g, ok := s.Document().Group("input_namelist")
	if !ok {
		t.Fatal("group not found")
	}

	if err := g.SetEntryValue("nstep", namelist.Value{namelist.Int(20)}); err != nil {
		t.Fatal(err)
	}

	if !s.Dirty() {
		t.Errorf("expected dirty after edit")
	}

	if err := g.SetEntryValue("nstep", namelist.Value{namelist.Int(10)}); err != nil {
		t.Fatal(err)
	}

	if s.Dirty() {
		t.Errorf("expected clean after restoring value")
	}
}

func TestSave(t *testing.T) {
	path := writeSample(t, "input.nml", sample)
	s := openSample(t, path)

	g, _ := s.Document().Group("input_namelist")
	if err := g.SetEntryValue("nstep", namelist.Value{namelist.Int(20)}); err != nil {
		t.Fatal(err)
	}

	if err := s.Save(context.Background(), "", false); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if s.Dirty() {
		t.Errorf("expected clean after save")
	}

	if got, want := readFile(t, path), "&input_namelist\n  nstep = 20\n  dt = 0.5\n/\n"; got != want {
		t.Errorf("saved %q, want %q", got, want)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}

	if len(entries) != 1 {
		t.Errorf("expected no temporary files left, got %d entries", len(entries))
	}
}

func TestSaveNewDocument(t *testing.T) {
	s := New(WithIndent(4))

	if err := s.Save(context.Background(), "", false); !errors.Is(err, ErrNoPath) {
		t.Errorf("expected ErrNoPath, got %v", err)
	}

	g, err := s.Document().AddGroup("output_namelist")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := g.AddEntry("shellslice_values", namelist.Value{namelist.Int(3)}); err != nil {
		t.Fatal(err)
	}

	if !s.Dirty() {
		t.Errorf("expected dirty after edit")
	}

	path := filepath.Join(t.TempDir(), "new.nml")
	if err := s.Save(context.Background(), path, false); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if s.Path() != path || s.Dirty() {
		t.Errorf("after save: path=%q dirty=%v", s.Path(), s.Dirty())
	}

	if got, want := readFile(t, path), "&output_namelist\n    shellslice_values = 3\n/\n"; got != want {
		t.Errorf("saved %q, want %q", got, want)
	}
}

func TestSaveExistingFile(t *testing.T) {
	path := writeSample(t, "input.nml", sample)
	other := writeSample(t, "other.nml", "&other\n  x = 1\n/\n")

	s := openSample(t, path)

	err := s.Save(context.Background(), other, false)
	if !errors.Is(err, ErrSave) || !errors.Is(err, ErrFileExists) {
		t.Errorf("expected ErrSave wrapping ErrFileExists, got %v", err)
	}

	if s.Path() != path {
		t.Errorf("path changed to %q", s.Path())
	}

	if got := readFile(t, other); got != "&other\n  x = 1\n/\n" {
		t.Errorf("existing file overwritten: %q", got)
	}

	if err := s.Save(context.Background(), other, true); err != nil {
		t.Fatalf("forced Save: %v", err)
	}

	if s.Path() != other {
		t.Errorf("expected path %q, got %q", other, s.Path())
	}

	if got := readFile(t, other); got != sample {
		t.Errorf("saved %q, want %q", got, sample)
	}
}

func TestSavePreservesMode(t *testing.T) {
	path := writeSample(t, "input.nml", sample)
	if err := os.Chmod(path, 0o640); err != nil {
		t.Fatal(err)
	}

	s := openSample(t, path)
	if err := s.Save(context.Background(), "", false); err != nil {
		t.Fatalf("Save: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}

	if info.Mode().Perm() != 0o640 {
		t.Errorf("expected mode 0640, got %v", info.Mode().Perm())
	}
}

func TestQuitAndReset(t *testing.T) {
	s := New()

	if _, err := s.Document().AddGroup("input_namelist"); err != nil {
		t.Fatal(err)
	}

	if err := s.Quit(false); !errors.Is(err, ErrUnsaved) {
		t.Errorf("expected ErrUnsaved, got %v", err)
	}

	if err := s.Quit(true); err != nil {
		t.Errorf("forced Quit: %v", err)
	}

	if err := s.Reset(false); !errors.Is(err, ErrUnsaved) {
		t.Errorf("expected ErrUnsaved, got %v", err)
	}

	if s.Document().Len() != 1 {
		t.Errorf("document changed by refused reset")
	}

	if err := s.Reset(true); err != nil {
		t.Fatalf("forced Reset: %v", err)
	}

	if s.Document().Len() != 0 || s.Dirty() {
		t.Errorf("expected empty clean document after reset")
	}

	if err := s.Quit(false); err != nil {
		t.Errorf("Quit: %v", err)
	}
}

func TestWithPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fresh.nml")

	s := New(WithPath(path))
	if s.Path() != path || s.Dirty() {
		t.Errorf("path=%q dirty=%v", s.Path(), s.Dirty())
	}

	if _, err := s.Document().AddGroup("input_namelist"); err != nil {
		t.Fatal(err)
	}

	if err := s.Save(context.Background(), "", false); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if got := readFile(t, path); got != "&input_namelist\n/\n" {
		t.Errorf("saved %q", got)
	}
}

func TestSetDocument(t *testing.T) {
	path := writeSample(t, "input.nml", sample)
	s := openSample(t, path)

	same, err := namelist.ParseString(context.Background(), sample)
	if err != nil {
		t.Fatal(err)
	}

	s.SetDocument(same)

	if s.Dirty() {
		t.Errorf("expected clean after setting an equal document")
	}

	s.SetDocument(namelist.New())

	if !s.Dirty() || s.Path() != path {
		t.Errorf("dirty=%v path=%q", s.Dirty(), s.Path())
	}
}
