package namelist

import (
	"regexp"
	"slices"
	"strings"
)

// Entry is one name = value assignment within a [Group].
type Entry struct {
	name  string
	Value Value

	// raw is the value exactly as read from the source. It is emitted in place
	// of Value while Value still equals rawValue.
	raw      string
	rawValue Value
}

// Name returns the entry name as written, including any subscript.
func (e *Entry) Name() string { return e.name }

// SetValue replaces the entry value. v must not be empty, and every scalar
// must have a namelist spelling (see [Value.Validate]).
func (e *Entry) SetValue(v Value) error {
	if err := v.Validate(e.name); err != nil {
		return err
	}

	e.Value = v.Clone()
	e.raw, e.rawValue = "", nil

	return nil
}

// SetText parses text with [ParseValue] and assigns the result.
// The entry is unchanged if text is malformed.
func (e *Entry) SetText(text string) error {
	v, err := ParseValue(text)
	if err != nil {
		return err
	}

	return e.SetValue(v)
}

// Text returns the namelist spelling of the value: the original source text
// if the value has not been changed since it was parsed.
func (e *Entry) Text() string {
	if e.raw != "" && slices.Equal(e.Value, e.rawValue) {
		return e.raw
	}

	return e.Value.String()
}

// String returns the assignment "name = value".
func (e *Entry) String() string { return e.name + " = " + e.Text() }

func (e *Entry) clone() *Entry {
	return &Entry{
		name:     e.name,
		Value:    e.Value.Clone(),
		raw:      e.raw,
		rawValue: e.rawValue.Clone(),
	}
}

var (
	groupNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)
	entryNamePattern = regexp.MustCompile(
		`^[A-Za-z][A-Za-z0-9_]*(?:%[A-Za-z][A-Za-z0-9_]*)*(?:\([0-9:,+\- ]+\))?$`,
	)
)

func validateName(target Target, name string) error {
	pattern := entryNamePattern
	if target == TargetGroup {
		pattern = groupNamePattern
	}

	if !pattern.MatchString(name) {
		return &FormatError{Reason: "invalid " + string(target) + " name", Token: name}
	}

	// "&end" closes a group in the legacy syntax.
	if target == TargetGroup && strings.EqualFold(name, "end") {
		return &FormatError{Reason: "reserved group name", Token: name}
	}

	return nil
}
