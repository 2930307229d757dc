package namelist

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestScalar_Format(t *testing.T) {
	tests := []struct {
		name string
		s    Scalar
		want string
	}{
		{"string", String("hi"), "'hi'"},
		{"string with quote", String("it's"), "'it''s'"},
		{"empty string", String(""), "''"},
		{"true", Bool(true), ".true."},
		{"false", Bool(false), ".false."},
		{"int", Int(-42), "-42"},
		{"float", Float(2.5), "2.5"},
		{"whole float", Float(3), "3.0"},
		{"large float", Float(1e21), "1e+21"},
		{"literal", Scalar{KindNumber, "1.0d-3"}, "1.0d-3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.Format(); got != tt.want {
				t.Errorf("Format = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestScalar_Native(t *testing.T) {
	tests := []struct {
		s    Scalar
		want any
	}{
		{String("x"), "x"},
		{Bool(false), false},
		{Int(7), int64(7)},
		{Scalar{KindNumber, "+7"}, int64(7)},
		{Scalar{KindNumber, "1.5d2"}, 150.0},
		{Scalar{KindNumber, "2E-1"}, 0.2},
		{Scalar{KindNumber, "3."}, 3.0},
	}

	for _, tt := range tests {
		t.Run(tt.s.Text, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.s.Native()); diff != "" {
				t.Errorf("Native (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNumber(t *testing.T) {
	for _, lit := range []string{"0", "-12", "+1.", ".5", "6.02e23", "1d0", "1.0D-10"} {
		if _, err := Number(lit); err != nil {
			t.Errorf("Number(%q): %v", lit, err)
		}
	}

	for _, lit := range []string{"", ".", "1e", "e5", "1.2.3", "0x10", "1_dp", "--1"} {
		_, err := Number(lit)
		if !errors.Is(err, ErrFormat) {
			t.Errorf("Number(%q): expected ErrFormat, got %v", lit, err)
		}
	}
}

func TestValue_Kind(t *testing.T) {
	tests := []struct {
		v    Value
		want Kind
	}{
		{nil, KindNone},
		{Value{String("a")}, KindString},
		{Value{Int(1)}, KindNumber},
		{Value{Bool(true)}, KindBool},
		{Value{Int(1), String("a")}, KindArray},
	}

	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			if got := tt.v.Kind(); got != tt.want {
				t.Errorf("Kind = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValue_StringNative(t *testing.T) {
	v := Value{Int(1), String("b"), Bool(true)}

	if got, want := v.String(), "1, 'b', .true."; got != want {
		t.Errorf("String = %q, want %q", got, want)
	}

	if diff := cmp.Diff([]any{int64(1), "b", true}, v.Native()); diff != "" {
		t.Errorf("Native (-want +got):\n%s", diff)
	}

	if !v.Contains(String("b")) || v.Contains(String("1")) {
		t.Errorf("unexpected Contains result")
	}

	if Value(nil).Native() != nil {
		t.Errorf("expected nil native for empty value")
	}
}

func TestScalar_Equivalent(t *testing.T) {
	n := func(lit string) Scalar {
		t.Helper()

		s, err := Number(lit)
		if err != nil {
			t.Fatalf("Number(%q): %v", lit, err)
		}

		return s
	}

	tests := []struct {
		name string
		a, b Scalar
		want bool
	}{
		{"same int", Int(3), Int(3), true},
		{"leading zero", n("03"), Int(3), true},
		{"plus sign", n("+3"), Int(3), true},
		{"int and real", n("3.0"), Int(3), true},
		{"d exponent", n("1.5d0"), Float(1.5), true},
		{"different", Int(3), Int(4), false},
		{"number and string", Int(3), String("3"), false},
		{"strings compare text", String("03"), String("3"), false},
		{"bools", Bool(true), Bool(true), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equivalent(tt.b); got != tt.want {
				t.Errorf("Equivalent = %v, want %v", got, tt.want)
			}

			if got := tt.b.Equivalent(tt.a); got != tt.want {
				t.Errorf("reversed Equivalent = %v, want %v", got, tt.want)
			}
		})
	}

	if !(Value{n("03"), Int(7)}).Contains(Int(3)) {
		t.Errorf("expected Contains to match 03 against 3")
	}
}

func TestEntry_SetText(t *testing.T) {
	d := mustParse(t, "&g x = 1 /")
	e, _ := d.Entry("g", "x")

	if err := e.SetText("1,,"); err == nil {
		t.Fatalf("expected error")
	}

	if got := e.String(); got != "x = 1" {
		t.Errorf("entry changed after failed SetText: %q", got)
	}

	if err := e.SetText("'a', 'b'"); err != nil {
		t.Fatalf("SetText: %v", err)
	}

	if got := e.String(); got != "x = 'a', 'b'" {
		t.Errorf("unexpected entry %q", got)
	}

	if err := e.SetValue(nil); !errors.Is(err, ErrFormat) {
		t.Errorf("expected ErrFormat for empty value, got %v", err)
	}
}
