package namelist

import (
	"iter"
	"strings"
)

// Group is one &name ... / block: a named, ordered list of entries with
// unique names.
type Group struct {
	name    string
	entries []*Entry
}

// Name returns the group name as written.
func (g *Group) Name() string { return g.name }

// Len returns the number of entries.
func (g *Group) Len() int { return len(g.entries) }

// Entry returns the entry with the given name, compared case-insensitively.
func (g *Group) Entry(name string) (*Entry, bool) {
	if i := g.index(name); i >= 0 {
		return g.entries[i], true
	}

	return nil, false
}

// Entries returns an iterator over the entries in order.
func (g *Group) Entries() iter.Seq[*Entry] {
	return func(yield func(*Entry) bool) {
		for _, e := range g.entries {
			if !yield(e) {
				return
			}
		}
	}
}

// EntryNames returns the entry names in order.
func (g *Group) EntryNames() []string {
	names := make([]string, len(g.entries))
	for i, e := range g.entries {
		names[i] = e.name
	}

	return names
}

// AddEntry appends a new entry. It fails with a [*DuplicateNameError] if an
// entry with the same name exists, or a [*FormatError] if name is not a valid
// identifier or v is not a valid value.
func (g *Group) AddEntry(name string, v Value) (*Entry, error) {
	if err := validateName(TargetEntry, name); err != nil {
		return nil, err
	}

	if g.index(name) >= 0 {
		return nil, &DuplicateNameError{Target: TargetEntry, Name: name, Group: g.name}
	}

	if err := v.Validate(name); err != nil {
		return nil, err
	}

	e := &Entry{name: name, Value: v.Clone()}
	g.entries = append(g.entries, e)

	return e, nil
}

// RemoveEntry removes the named entry. It fails with a [*NotFoundError] if
// there is none.
func (g *Group) RemoveEntry(name string) error {
	i := g.index(name)
	if i < 0 {
		return &NotFoundError{Target: TargetEntry, Name: name, Group: g.name}
	}

	g.entries = append(g.entries[:i], g.entries[i+1:]...)

	return nil
}

// SetEntryValue replaces the value of the named entry. The new value may have
// a different kind or length than the old one.
func (g *Group) SetEntryValue(name string, v Value) error {
	e, ok := g.Entry(name)
	if !ok {
		return &NotFoundError{Target: TargetEntry, Name: name, Group: g.name}
	}

	return e.SetValue(v)
}

func (g *Group) index(name string) int {
	name = normalizeName(name)
	for i, e := range g.entries {
		if strings.EqualFold(normalizeName(e.name), name) {
			return i
		}
	}

	return -1
}

func (g *Group) clone() *Group {
	c := &Group{name: g.name, entries: make([]*Entry, len(g.entries))}
	for i, e := range g.entries {
		c.entries[i] = e.clone()
	}

	return c
}

// normalizeName removes blanks so that "a(1, 2)" and "a(1,2)" name the same
// entry.
func normalizeName(name string) string {
	if !strings.ContainsRune(name, ' ') {
		return name
	}

	return strings.ReplaceAll(name, " ", "")
}
