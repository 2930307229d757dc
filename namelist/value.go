package namelist

import (
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// Kind classifies a [Scalar] or a [Value].
type Kind int

const (
	KindNone Kind = iota // empty value
	KindString
	KindNumber
	KindBool
	KindArray // Value of more than one Scalar
)

var kindNames = [...]string{
	KindNone:   "none",
	KindString: "string",
	KindNumber: "number",
	KindBool:   "bool",
	KindArray:  "array",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}

	return kindNames[k]
}

// Scalar is one value token.
//
// Text holds the decoded token: string contents without the surrounding
// quotes, the numeric literal as written, or "true"/"false".
type Scalar struct {
	Kind Kind
	Text string
}

// String returns a string scalar.
func String(s string) Scalar { return Scalar{Kind: KindString, Text: s} }

// Bool returns a boolean scalar.
func Bool(b bool) Scalar { return Scalar{Kind: KindBool, Text: strconv.FormatBool(b)} }

// Int returns an integer scalar.
func Int(n int64) Scalar {
	return Scalar{Kind: KindNumber, Text: strconv.FormatInt(n, 10)}
}

// Float returns a real scalar. The literal always carries a decimal point or
// an exponent so that it reads back as a real. f must be finite.
func Float(f float64) Scalar {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !math.IsInf(f, 0) && !math.IsNaN(f) && !strings.ContainsAny(s, ".e") {
		s += ".0"
	}

	return Scalar{Kind: KindNumber, Text: s}
}

// Number returns a numeric scalar for a Fortran integer or real literal,
// such as "42", "-1.5", "3e8" or "1.0d-3".
func Number(literal string) (Scalar, error) {
	if !numberPattern.MatchString(literal) {
		return Scalar{}, &FormatError{Reason: "malformed number", Token: literal}
	}

	return Scalar{Kind: KindNumber, Text: literal}, nil
}

var numberPattern = regexp.MustCompile(
	`^[+-]?(?:[0-9]+\.?[0-9]*|\.[0-9]+)(?:[eEdD][+-]?[0-9]+)?$`,
)

// classify returns the scalar for an unquoted token.
func classify(tok string) (Scalar, bool) {
	switch strings.ToLower(tok) {
	case ".true.", ".t.", "t":
		return Bool(true), true
	case ".false.", ".f.", "f":
		return Bool(false), true
	}

	if numberPattern.MatchString(tok) {
		return Scalar{Kind: KindNumber, Text: tok}, true
	}

	return Scalar{}, false
}

// Format returns the namelist spelling of s.
func (s Scalar) Format() string {
	switch s.Kind {
	case KindString:
		return "'" + strings.ReplaceAll(s.Text, "'", "''") + "'"

	case KindBool:
		if s.Text == "true" {
			return ".true."
		}

		return ".false."

	default:
		return s.Text
	}
}

// Native returns s as a Go string, bool, int64 or float64.
// Numbers that fit in an int64 are returned as int64.
func (s Scalar) Native() any {
	switch s.Kind {
	case KindBool:
		return s.Text == "true"

	case KindNumber:
		if n, err := strconv.ParseInt(s.Text, 10, 64); err == nil {
			return n
		}

		lit := strings.Map(func(r rune) rune {
			if r == 'd' || r == 'D' {
				return 'e'
			}

			return r
		}, s.Text)

		if f, err := strconv.ParseFloat(lit, 64); err == nil {
			return f
		}

		return s.Text

	default:
		return s.Text
	}
}

// Equivalent reports whether s and t denote the same value: equal scalars,
// or numbers of equal magnitude such as "3", "03" and "3.0".
func (s Scalar) Equivalent(t Scalar) bool {
	if s == t {
		return true
	}

	if s.Kind != KindNumber || t.Kind != KindNumber {
		return false
	}

	a, b := s.Native(), t.Native()
	if x, ok := a.(int64); ok {
		if y, ok := b.(int64); ok {
			return x == y
		}
	}

	x, okX := toFloat(a)
	y, okY := toFloat(b)

	return okX && okY && x == y
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// Value is the ordered sequence of scalars assigned to an [Entry].
// A single Scalar is a scalar entry; more than one is an array.
type Value []Scalar

// Kind returns the kind of the single scalar in v, [KindArray] for a
// sequence, or [KindNone] for an empty value.
func (v Value) Kind() Kind {
	switch len(v) {
	case 0:
		return KindNone
	case 1:
		return v[0].Kind
	default:
		return KindArray
	}
}

// String returns the comma-separated namelist spelling of v.
func (v Value) String() string {
	parts := make([]string, len(v))
	for i, s := range v {
		parts[i] = s.Format()
	}

	return strings.Join(parts, ", ")
}

// Validate reports a [*FormatError] naming entry if v is empty or holds a
// scalar that would not read back as written: a string with a line break, a
// malformed number, or a scalar of unknown kind.
func (v Value) Validate(entry string) error {
	if len(v) == 0 {
		return &FormatError{Reason: "empty value", Token: entry}
	}

	for _, s := range v {
		switch s.Kind {
		case KindString:
			if strings.ContainsAny(s.Text, "\r\n") {
				return &FormatError{Reason: "line break in string", Token: entry}
			}

		case KindNumber:
			if !numberPattern.MatchString(s.Text) {
				return &FormatError{Reason: "malformed number", Token: s.Text}
			}

		case KindBool:
			if s.Text != "true" && s.Text != "false" {
				return &FormatError{Reason: "malformed logical", Token: s.Text}
			}

		default:
			return &FormatError{Reason: "invalid scalar kind " + s.Kind.String(), Token: entry}
		}
	}

	return nil
}

// Native returns the single native scalar of v, or a []any for arrays.
func (v Value) Native() any {
	switch len(v) {
	case 0:
		return nil
	case 1:
		return v[0].Native()
	}

	out := make([]any, len(v))
	for i, s := range v {
		out[i] = s.Native()
	}

	return out
}

// Contains reports whether v holds a scalar equivalent to s.
func (v Value) Contains(s Scalar) bool {
	return slices.ContainsFunc(v, s.Equivalent)
}

// Clone returns a copy of v.
func (v Value) Clone() Value {
	return slices.Clone(v)
}
