package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
)

// testCLI holds the commands under test and a few flags for init.
type testCLI struct {
	Level string   `default:"info"`
	Scale float64  `default:"1.5"`
	Tags  []string `default:"a,b"`
	Quiet bool
	Token string `hidden:""`

	Init    Init    `cmd:""`
	Fmt     Fmt     `cmd:""`
	Group   Group   `cmd:""`
	Entry   Entry   `cmd:""`
	Select  Select  `cmd:""`
	Catalog Catalog `cmd:""`
}

// runCommand parses args and runs the selected command. It returns what the
// command wrote to stdout and stderr.
func runCommand(t *testing.T, vars kong.Vars, args ...string) (string, string, error) {
	t.Helper()

	return runCommandGlobals(t, Globals{Indent: 2}, vars, args...)
}

func runCommandGlobals(
	t *testing.T,
	g Globals,
	vars kong.Vars,
	args ...string,
) (string, string, error) {
	t.Helper()

	var (
		cli            testCLI
		stdout, stderr bytes.Buffer
	)

	parser, err := kong.New(&cli,
		kong.Writers(&stdout, &stderr),
		kong.Exit(func(int) { t.Fatal("unexpected exit") }),
		vars,
	)
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		t.Fatalf("Parse(%q): %v", args, err)
	}

	ctx := WithContext(context.Background(), ktx)
	ctx = WithGlobals(ctx, g)

	ktx.BindTo(ctx, (*context.Context)(nil))

	err = ktx.Run()

	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, dir, name, text string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}

	return path
}

func readSources(t *testing.T, names ...string) (string, bool) {
	t.Helper()

	src, err := openSources(names)
	if err != nil {
		t.Fatalf("openSources(%q): %v", names, err)
	}
	defer src.Close()

	if src.stdin {
		return "", true
	}

	data, err := io.ReadAll(src.Reader())
	if err != nil {
		t.Fatal(err)
	}

	return string(data), false
}

func TestOpenSources_Files(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "first.nml", "&a\n/\n")
	second := writeFile(t, dir, "second.nml", "&b\n/\n")

	got, stdin := readSources(t, first, second)
	if stdin {
		t.Error("stdin selected for file sources")
	}

	if want := "&a\n/\n&b\n/\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestOpenSources_Duplicates(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "input.nml", "&a\n/\n")

	link := filepath.Join(dir, "link.nml")
	if err := os.Symlink(path, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	t.Chdir(dir)

	tests := []struct {
		name  string
		names []string
	}{
		{"same_path", []string{path, path}},
		{"relative_absolute", []string{"input.nml", path}},
		{"symlink", []string{link, path}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, _ := readSources(t, tt.names...); got != "&a\n/\n" {
				t.Errorf("got %q, want one copy", got)
			}
		})
	}
}

func TestOpenSources_Stdin(t *testing.T) {
	path := writeFile(t, t.TempDir(), "input.nml", "&a\n/\n")

	tests := []struct {
		name  string
		names []string
		files int
	}{
		{"none", nil, 0},
		{"dash", []string{"-"}, 0},
		{"dash_collapsed", []string{"-", "-"}, 0},
		{"file_then_dash", []string{"-", path}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := openSources(tt.names)
			if err != nil {
				t.Fatal(err)
			}
			defer src.Close()

			if !src.stdin {
				t.Error("stdin not selected")
			}

			if len(src.files) != tt.files {
				t.Errorf("files = %d, want %d", len(src.files), tt.files)
			}
		})
	}
}

func TestOpenSources_Nonexistent(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "input.nml", "&a\n/\n")

	_, err := openSources([]string{path, filepath.Join(dir, "missing.nml")})
	if !errors.Is(err, ErrReadInput) {
		t.Errorf("error = %v, want %v", err, ErrReadInput)
	}
}

func TestGlobalsDefault(t *testing.T) {
	if got := globalsFrom(context.Background()); got.Indent != 2 || got.Catalog != "" {
		t.Errorf("globalsFrom() = %+v", got)
	}
}

func TestHistoryPath(t *testing.T) {
	if got := historyPath(context.Background()); got != "" {
		t.Errorf("historyPath without kong = %q", got)
	}

	var cli struct{}

	parser, err := kong.New(&cli, kong.Vars{CacheIdentifier: "/tmp/nml"})
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(nil)
	if err != nil {
		t.Fatal(err)
	}

	if got := historyPath(WithContext(context.Background(), ktx)); got != "/tmp/nml/history.utf8" {
		t.Errorf("historyPath = %q", got)
	}
}
