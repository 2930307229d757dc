package namelist

import (
	"iter"
	"slices"
	"strings"

	"github.com/ardnew/nml/log"
)

// DefaultIndent is the number of spaces before each entry in serialized
// output.
const DefaultIndent = 2

// Document is an ordered collection of groups with unique names: one
// namelist file.
//
// A Document is not safe for concurrent use.
type Document struct {
	groups []*Group
	indent int
	logger log.Logger
}

// Option configures a Document.
type Option func(*Document)

// WithIndent sets the number of spaces before each entry in serialized
// output. Negative values are treated as zero.
func WithIndent(n int) Option {
	return func(d *Document) {
		d.indent = max(n, 0)
	}
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(d *Document) {
		d.logger = logger
	}
}

// New returns an empty Document.
func New(opts ...Option) *Document {
	d := &Document{indent: DefaultIndent}
	d.apply(opts...)

	return d
}

func (d *Document) apply(opts ...Option) {
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
}

// Indent returns the number of spaces before each serialized entry.
func (d *Document) Indent() int { return d.indent }

// Len returns the number of groups.
func (d *Document) Len() int { return len(d.groups) }

// Group returns the group with the given name, compared case-insensitively.
func (d *Document) Group(name string) (*Group, bool) {
	if i := d.index(name); i >= 0 {
		return d.groups[i], true
	}

	return nil, false
}

// Groups returns an iterator over the groups in order.
func (d *Document) Groups() iter.Seq[*Group] {
	return func(yield func(*Group) bool) {
		for _, g := range d.groups {
			if !yield(g) {
				return
			}
		}
	}
}

// GroupNames returns the group names in order.
func (d *Document) GroupNames() []string {
	names := make([]string, len(d.groups))
	for i, g := range d.groups {
		names[i] = g.name
	}

	return names
}

// AddGroup appends a new empty group and returns it. It fails with a
// [*DuplicateNameError] if a group with the same name exists, or a
// [*FormatError] if name is not a valid identifier.
func (d *Document) AddGroup(name string) (*Group, error) {
	if err := validateName(TargetGroup, name); err != nil {
		return nil, err
	}

	if d.index(name) >= 0 {
		return nil, &DuplicateNameError{Target: TargetGroup, Name: name}
	}

	g := &Group{name: name}
	d.groups = append(d.groups, g)

	return g, nil
}

// RemoveGroup removes the named group and all of its entries. It fails with a
// [*NotFoundError] if there is none.
func (d *Document) RemoveGroup(name string) error {
	i := d.index(name)
	if i < 0 {
		return &NotFoundError{Target: TargetGroup, Name: name}
	}

	d.groups = slices.Delete(d.groups, i, i+1)

	return nil
}

// Entry returns the named entry of the named group, or a [*NotFoundError]
// for whichever is missing.
func (d *Document) Entry(group, name string) (*Entry, error) {
	g, ok := d.Group(group)
	if !ok {
		return nil, &NotFoundError{Target: TargetGroup, Name: group}
	}

	e, ok := g.Entry(name)
	if !ok {
		return nil, &NotFoundError{Target: TargetEntry, Name: name, Group: g.name}
	}

	return e, nil
}

// Clone returns a deep copy of d with the same options.
func (d *Document) Clone() *Document {
	c := &Document{
		groups: make([]*Group, len(d.groups)),
		indent: d.indent,
		logger: d.logger,
	}

	for i, g := range d.groups {
		c.groups[i] = g.clone()
	}

	return c
}

// ToMap returns the document as group name -> entry name -> native value
// (see [Value.Native]). Ordering is lost; use [Document.FormatYAML] or
// [Document.FormatJSON] to keep it.
func (d *Document) ToMap() map[string]map[string]any {
	out := make(map[string]map[string]any, len(d.groups))

	for _, g := range d.groups {
		m := make(map[string]any, len(g.entries))
		for _, e := range g.entries {
			m[e.name] = e.Value.Native()
		}

		out[g.name] = m
	}

	return out
}

func (d *Document) index(name string) int {
	for i, g := range d.groups {
		if strings.EqualFold(g.name, name) {
			return i
		}
	}

	return -1
}

// Equal reports whether a and b hold the same groups and entries in the same
// order with equal values. Names are compared case-insensitively. Options and
// the original source text of values are ignored.
func Equal(a, b *Document) bool {
	if a == nil || b == nil {
		return a == b
	}

	return slices.EqualFunc(a.groups, b.groups, func(x, y *Group) bool {
		return strings.EqualFold(x.name, y.name) &&
			slices.EqualFunc(x.entries, y.entries, func(p, q *Entry) bool {
				return strings.EqualFold(normalizeName(p.name), normalizeName(q.name)) &&
					slices.Equal(p.Value, q.Value)
			})
	})
}
