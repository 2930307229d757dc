package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/nml/namelist"
)

const sampleInput = `&Problemsize_Namelist
 N_R = 64, n_theta = 96
/
&output_namelist
shellslice_values = 1,2,
  3
shellslice_levels = 0.5
/
`

func TestFmtNative(t *testing.T) {
	path := writeFile(t, t.TempDir(), "main_input", sampleInput)

	for _, args := range [][]string{
		{"fmt", path},
		{"fmt", "native", path},
	} {
		out, _, err := runCommand(t, nil, args...)
		if err != nil {
			t.Fatalf("%q: %v", args, err)
		}

		want := "&Problemsize_Namelist\n" +
			"  N_R = 64\n" +
			"  n_theta = 96\n" +
			"/\n" +
			"&output_namelist\n" +
			"  shellslice_values = 1, 2, 3\n" +
			"  shellslice_levels = 0.5\n" +
			"/\n"
		if out != want {
			t.Errorf("%q output:\n%s\nwant:\n%s", args, out, want)
		}
	}
}

func TestFmtNativeIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "main_input", sampleInput)

	first, _, err := runCommand(t, nil, "fmt", path)
	if err != nil {
		t.Fatal(err)
	}

	second, _, err := runCommand(t, nil, "fmt", writeFile(t, dir, "formatted", first))
	if err != nil {
		t.Fatal(err)
	}

	if first != second {
		t.Errorf("reformatting changed output:\n%s\nthen:\n%s", first, second)
	}
}

func TestFmtJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "main_input", sampleInput)

	out, _, err := runCommand(t, nil, "fmt", "json", path)
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		`"Problemsize_Namelist"`,
		`"N_R": 64`,
		`"shellslice_values": [`,
		`"shellslice_levels": 0.5`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s:\n%s", want, out)
		}
	}

	if strings.Index(out, "Problemsize_Namelist") > strings.Index(out, "output_namelist") {
		t.Error("JSON output does not keep group order")
	}
}

func TestFmtYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "main_input", sampleInput)

	out, _, err := runCommand(t, nil, "fmt", "yaml", path)
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{"Problemsize_Namelist:", "N_R: 64", "shellslice_levels: 0.5"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFmtInvalidSyntax(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unterminated_group", "&grp\n  x = 1\n"},
		{"missing_equals", "&grp\n  x 1\n/\n"},
		{"unclosed_string", "&grp\n  x = 'abc\n/\n"},
		{"malformed_value", "&grp\n  x = 1.2.3\n/\n"},
	}

	for _, format := range []string{"native", "json", "yaml"} {
		for _, tt := range tests {
			t.Run(format+"/"+tt.name, func(t *testing.T) {
				path := writeFile(t, t.TempDir(), "bad.nml", tt.input)

				_, stderr, err := runCommand(t, nil, "fmt", format, path)
				if !errors.Is(err, ErrReadInput) {
					t.Errorf("error = %v, want %v", err, ErrReadInput)
				}

				if !errors.Is(err, namelist.ErrFormat) {
					t.Errorf("error = %v, want %v", err, namelist.ErrFormat)
				}

				if stderr == "" {
					t.Error("no snippet on stderr")
				}
			})
		}
	}
}
