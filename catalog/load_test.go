package catalog

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const yamlCatalog = `
outputs:
  - label: Shell Slice
    prefix: shellslice
  - label: Az Average
    prefix: azavg
    groups: [Energies]
groups:
  - name: Velocity_Field
    quantities:
      - {code: 3, name: vt}
      - {code: 1, name: vr, tex: "$v_r$"}
  - name: Energies
    quantities:
      - {code: 401, name: ke, description: kinetic energy}
`

const jsonCatalog = `{
  "outputs": [
    {"label": "Shell Slice", "prefix": "shellslice"},
    {"label": "Az Average", "prefix": "azavg", "groups": ["Energies"]}
  ],
  "groups": [
    {"name": "Velocity_Field", "quantities": [
      {"code": 3, "name": "vt"},
      {"code": 1, "name": "vr", "tex": "$v_r$"}
    ]},
    {"name": "Energies", "quantities": [
      {"code": 401, "name": "ke", "description": "kinetic energy"}
    ]}
  ]
}`

const tomlCatalog = `
[[outputs]]
label = "Shell Slice"
prefix = "shellslice"

[[outputs]]
label = "Az Average"
prefix = "azavg"
groups = ["Energies"]

[[groups]]
name = "Velocity_Field"

  [[groups.quantities]]
  code = 3
  name = "vt"

  [[groups.quantities]]
  code = 1
  name = "vr"
  tex = "$v_r$"

[[groups]]
name = "Energies"

  [[groups.quantities]]
  code = 401
  name = "ke"
  description = "kinetic energy"
`

func checkSample(t *testing.T, c *Catalog) {
	t.Helper()

	if n := len(c.OutputTypes()); n != 2 {
		t.Errorf("expected 2 output types, got %d", n)
	}

	if diff := cmp.Diff([]string{"Velocity_Field", "Energies"}, c.Groups()); diff != "" {
		t.Errorf("groups (-want +got):\n%s", diff)
	}

	qs, err := c.Quantities("Shell Slice", "Velocity_Field")
	if err != nil {
		t.Fatalf("Quantities: %v", err)
	}

	want := []Quantity{
		{Code: "1", Name: "vr", TeX: "$v_r$"},
		{Code: "3", Name: "vt"},
	}
	if diff := cmp.Diff(want, qs); diff != "" {
		t.Errorf("quantities (-want +got):\n%s", diff)
	}

	if _, err := c.Quantities("azavg", "Velocity_Field"); !errors.Is(err, ErrUnknownGroup) {
		t.Errorf("expected ErrUnknownGroup, got %v", err)
	}

	q, ok := c.Lookup("401")
	if !ok || q.Label() != "kinetic energy" {
		t.Errorf("Lookup(401) = %+v, %v", q, ok)
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		format Format
		src    string
	}{
		{FormatYAML, yamlCatalog},
		{FormatJSON, jsonCatalog},
		{FormatTOML, tomlCatalog},
	}

	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			c, err := Decode(context.Background(), strings.NewReader(tt.src), tt.format)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}

			checkSample(t, c)
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		format Format
		want   error
	}{
		{"malformed yaml", "groups: {", FormatYAML, ErrDecode},
		{"unknown key", `{"unknown": 1}`, FormatJSON, ErrDecode},
		{"unknown format", `{}`, Format(9), ErrUnknownFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(context.Background(), strings.NewReader(tt.src), tt.format)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestDecode_DefaultOutputs(t *testing.T) {
	c, err := Decode(context.Background(), strings.NewReader(`{"groups": []}`), FormatJSON)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if got, want := len(c.OutputTypes()), len(Default().OutputTypes()); got != want {
		t.Errorf("expected %d default output types, got %d", want, got)
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	src, err := Decode(context.Background(), strings.NewReader(yamlCatalog), FormatYAML)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	for _, f := range []Format{FormatYAML, FormatJSON, FormatTOML} {
		t.Run(f.String(), func(t *testing.T) {
			var buf bytes.Buffer
			if err := src.Encode(context.Background(), &buf, f); err != nil {
				t.Fatalf("Encode: %v", err)
			}

			c, err := Decode(context.Background(), &buf, f)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}

			checkSample(t, c)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	files := map[string]string{
		"catalog.yaml": yamlCatalog,
		"catalog.yml":  yamlCatalog,
		"catalog.json": jsonCatalog,
		"catalog.toml": tomlCatalog,
		"catalog.cfg":  jsonCatalog,
	}

	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}

		t.Run(name, func(t *testing.T) {
			c, err := Load(context.Background(), path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}

			checkSample(t, c)
		})
	}

	if _, err := Load(context.Background(), filepath.Join(dir, "missing.yaml")); !errors.Is(err, ErrReadInput) {
		t.Errorf("expected ErrReadInput, got %v", err)
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{
		"yaml": FormatYAML, ".yml": FormatYAML, "JSON": FormatJSON, ".toml": FormatTOML,
	} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %v, %v; want %v", in, got, err, want)
		}
	}

	if _, err := ParseFormat("xml"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
}
