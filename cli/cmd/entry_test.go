package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ardnew/nml/namelist"
)

const editInput = `&physical_controls_namelist
  rotation = .true.
  ! keep this comment out of the way
  magnetism = .false.
/
&output_namelist
  shellslice_levels = 0.5,   0.9
/
`

func TestEntryCommands(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "set_scalar",
			args: []string{"entry", "set", "physical_controls_namelist", "magnetism", ".true."},
			want: "&physical_controls_namelist\n  rotation = .true.\n  magnetism = .true.\n/\n" +
				"&output_namelist\n  shellslice_levels = 0.5,   0.9\n/\n",
		},
		{
			name: "set_list_from_args",
			args: []string{"entry", "set", "output_namelist", "shellslice_levels", "0.1", "0.2", "0.3"},
			want: "&physical_controls_namelist\n  rotation = .true.\n  magnetism = .false.\n/\n" +
				"&output_namelist\n  shellslice_levels = 0.1, 0.2, 0.3\n/\n",
		},
		{
			name: "add",
			args: []string{"entry", "add", "output_namelist", "shellslice_values", "1,", "2"},
			want: "&physical_controls_namelist\n  rotation = .true.\n  magnetism = .false.\n/\n" +
				"&output_namelist\n  shellslice_levels = 0.5,   0.9\n  shellslice_values = 1, 2\n/\n",
		},
		{
			name: "rm",
			args: []string{"entry", "rm", "physical_controls_namelist", "rotation"},
			want: "&physical_controls_namelist\n  magnetism = .false.\n/\n" +
				"&output_namelist\n  shellslice_levels = 0.5,   0.9\n/\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "main_input", editInput)

			// File goes after the subcommand name.
			args := append([]string{tt.args[0], tt.args[1], path}, tt.args[2:]...)

			if _, _, err := runCommand(t, nil, args...); err != nil {
				t.Fatal(err)
			}

			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}

			if string(data) != tt.want {
				t.Errorf("file:\n%s\nwant:\n%s", data, tt.want)
			}
		})
	}
}

func TestEntryGet(t *testing.T) {
	path := writeFile(t, t.TempDir(), "main_input", editInput)

	out, _, err := runCommand(t, nil, "entry", "get", path, "OUTPUT_NAMELIST", "Shellslice_Levels")
	if err != nil {
		t.Fatal(err)
	}

	if want := "0.5,   0.9\n"; out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestEntryErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{"get_missing_group", []string{"entry", "get", "nope", "x"}, namelist.ErrNotFound},
		{"get_missing_entry", []string{"entry", "get", "output_namelist", "x"}, namelist.ErrNotFound},
		{"add_missing_group", []string{"entry", "add", "nope", "x", "1"}, namelist.ErrNotFound},
		{"add_duplicate", []string{"entry", "add", "output_namelist", "SHELLSLICE_LEVELS", "1"}, namelist.ErrDuplicateName},
		{"set_bad_value", []string{"entry", "set", "output_namelist", "shellslice_levels", "'open"}, namelist.ErrFormat},
		{"set_missing_entry", []string{"entry", "set", "output_namelist", "x", "1"}, namelist.ErrNotFound},
		{"rm_missing_entry", []string{"entry", "rm", "output_namelist", "x"}, namelist.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "main_input", editInput)
			args := append([]string{tt.args[0], tt.args[1], path}, tt.args[2:]...)

			_, _, err := runCommand(t, nil, args...)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}

			if data, _ := os.ReadFile(path); string(data) != editInput {
				t.Errorf("file changed:\n%s", data)
			}
		})
	}
}

func TestGroupCommands(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "main_input", editInput)

	out, _, err := runCommand(t, nil, "group", path)
	if err != nil {
		t.Fatal(err)
	}

	if want := "physical_controls_namelist\noutput_namelist\n"; out != want {
		t.Errorf("ls = %q, want %q", out, want)
	}

	out, _, err = runCommand(t, nil, "group", "ls", "-e", path)
	if err != nil {
		t.Fatal(err)
	}

	want := "physical_controls_namelist\n  rotation\n  magnetism\noutput_namelist\n  shellslice_levels\n"
	if out != want {
		t.Errorf("ls -e = %q, want %q", out, want)
	}

	if _, _, err := runCommand(t, nil, "group", "rm", path, "physical_controls_namelist"); err != nil {
		t.Fatal(err)
	}

	if _, _, err := runCommand(t, nil, "group", "add", path, "temp_namelist"); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	want = "&output_namelist\n  shellslice_levels = 0.5,   0.9\n/\n&temp_namelist\n/\n"
	if string(data) != want {
		t.Errorf("file:\n%s\nwant:\n%s", data, want)
	}

	if _, _, err := runCommand(t, nil, "group", "add", path, "Temp_Namelist"); !errors.Is(err, namelist.ErrDuplicateName) {
		t.Errorf("duplicate add error = %v", err)
	}

	if _, _, err := runCommand(t, nil, "group", "rm", path, "nope"); !errors.Is(err, namelist.ErrNotFound) {
		t.Errorf("missing rm error = %v", err)
	}
}

func TestGroupAddCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new_input")

	if _, _, err := runCommand(t, nil, "group", "add", path, "problemsize_namelist"); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if want := "&problemsize_namelist\n/\n"; string(data) != want {
		t.Errorf("file = %q, want %q", data, want)
	}
}
