package catalog

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/nml/namelist"
)

func velocityGroups() []Group {
	return []Group{
		{Name: "Velocity_Field", Quantities: []Quantity{
			{Code: "7", Name: "vp"},
			{Code: "1", Name: "vr", TeX: "$v_r$"},
			{Code: "3", Name: "vt", Description: "theta velocity"},
		}},
		{Name: "Energies", Quantities: []Quantity{
			{Code: "401", Name: "kinetic_energy"},
		}},
	}
}

func TestDefault(t *testing.T) {
	c := Default()

	outputs := c.OutputTypes()
	if len(outputs) != 10 {
		t.Fatalf("expected 10 output types, got %d", len(outputs))
	}

	if outputs[0].Label != "Shell Slice" {
		t.Errorf("expected Shell Slice first, got %q", outputs[0].Label)
	}

	if g := c.Groups(); len(g) != 0 {
		t.Errorf("expected no groups, got %v", g)
	}

	tests := []struct {
		name   string
		prefix string
	}{
		{"Shell Slice", "shellslice"},
		{"shell slice", "shellslice"},
		{"AZAVG", "azavg"},
		{"Point Probes", "point_probe"},
		{"Spherical 3D", "full3d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, ok := c.OutputType(tt.name)
			if !ok {
				t.Fatalf("output type %q not found", tt.name)
			}

			if o.Prefix != tt.prefix {
				t.Errorf("expected prefix %q, got %q", tt.prefix, o.Prefix)
			}

			if got := o.ValuesEntry(); got != tt.prefix+"_values" {
				t.Errorf("unexpected values entry %q", got)
			}
		})
	}

	if _, ok := c.OutputType("Volume Render"); ok {
		t.Errorf("expected Volume Render to be unknown")
	}
}

func TestNew_SortsAndLooksUp(t *testing.T) {
	c, err := New(nil, velocityGroups())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if diff := cmp.Diff([]string{"Velocity_Field", "Energies"}, c.Groups()); diff != "" {
		t.Errorf("groups (-want +got):\n%s", diff)
	}

	qs, err := c.Quantities("Shell Slice", "velocity_field")
	if err != nil {
		t.Fatalf("Quantities: %v", err)
	}

	if diff := cmp.Diff([]string{"1", "3", "7"}, codes(qs)); diff != "" {
		t.Errorf("codes (-want +got):\n%s", diff)
	}

	q, ok := c.Lookup("401")
	if !ok || q.Label() != "kinetic_energy" {
		t.Errorf("Lookup(401) = %+v, %v", q, ok)
	}

	if _, ok := c.Lookup("999"); ok {
		t.Errorf("expected Lookup(999) to fail")
	}

	if _, err := c.Quantities("Nope", "Energies"); !errors.Is(err, ErrUnknownOutput) {
		t.Errorf("expected ErrUnknownOutput, got %v", err)
	}

	if _, err := c.Quantities("Shell Slice", "Nope"); !errors.Is(err, ErrUnknownGroup) {
		t.Errorf("expected ErrUnknownGroup, got %v", err)
	}
}

func TestOutputType_GroupRestriction(t *testing.T) {
	outputs := []OutputType{
		{Label: "Shell Slice", Prefix: "shellslice", Groups: []string{"velocity_field"}},
		{Label: "Global Average", Prefix: "globalavg"},
	}

	c, err := New(outputs, velocityGroups())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	names, err := c.GroupsFor("shellslice")
	if err != nil {
		t.Fatalf("GroupsFor: %v", err)
	}

	if diff := cmp.Diff([]string{"Velocity_Field"}, names); diff != "" {
		t.Errorf("groups (-want +got):\n%s", diff)
	}

	if _, err := c.Quantities("shellslice", "Energies"); !errors.Is(err, ErrUnknownGroup) {
		t.Errorf("expected ErrUnknownGroup, got %v", err)
	}

	names, err = c.GroupsFor("globalavg")
	if err != nil || len(names) != 2 {
		t.Errorf("GroupsFor(globalavg) = %v, %v", names, err)
	}

	if _, err := c.GroupsFor("missing"); !errors.Is(err, ErrUnknownOutput) {
		t.Errorf("expected ErrUnknownOutput, got %v", err)
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		outputs []OutputType
		groups  []Group
	}{
		{"output without prefix", []OutputType{{Label: "X"}}, nil},
		{"duplicate output", []OutputType{
			{Label: "X", Prefix: "x"},
			{Label: "Y", Prefix: "X"},
		}, nil},
		{"duplicate group", nil, []Group{{Name: "a"}, {Name: "A"}}},
		{"empty group name", nil, []Group{{}}},
		{"duplicate code", nil, []Group{{Name: "a", Quantities: []Quantity{
			{Code: "1", Name: "x"}, {Code: "1", Name: "y"},
		}}}},
		{"empty code", nil, []Group{{Name: "a", Quantities: []Quantity{{Name: "x"}}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.outputs, tt.groups); !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestQuantity_Scalar(t *testing.T) {
	if got := (Quantity{Code: "42"}).Scalar(); got != namelist.Int(42) {
		t.Errorf("expected number scalar, got %+v", got)
	}

	if got := (Quantity{Code: "b_r"}).Scalar(); got != namelist.String("b_r") {
		t.Errorf("expected string scalar, got %+v", got)
	}
}

func TestCompareCodes(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"2", "10", -1},
		{"10", "abc", -1},
		{"b", "a", 1},
		{"5", "5", 0},
	}

	for _, tt := range tests {
		if got := compareCodes(tt.a, tt.b); got != tt.want {
			t.Errorf("compareCodes(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestQuantity_Label(t *testing.T) {
	tests := []struct {
		q    Quantity
		want string
	}{
		{Quantity{Name: "n", Description: "desc", TeX: "$x$"}, "desc"},
		{Quantity{Name: "n", TeX: "$x$"}, "$x$"},
		{Quantity{Name: "n"}, "n"},
	}

	for _, tt := range tests {
		if got := tt.q.Label(); got != tt.want {
			t.Errorf("Label() = %q, want %q", got, tt.want)
		}
	}
}

func codes(qs []Quantity) []string {
	out := make([]string, len(qs))
	for i, q := range qs {
		out[i] = q.Code
	}

	return out
}
