package catalog

import (
	"cmp"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/ardnew/nml/log"
	"github.com/ardnew/nml/namelist"
)

// Quantity is one selectable diagnostic output quantity.
type Quantity struct {
	// Code is the value stored in an <output>_values entry, usually an
	// integer such as "401".
	Code        string `mapstructure:"code"`
	Name        string `mapstructure:"name"`
	Description string `mapstructure:"description"`
	TeX         string `mapstructure:"tex"`
}

// Label returns a human-readable label: the description, else the TeX
// formula, else the name.
func (q Quantity) Label() string {
	switch {
	case q.Description != "":
		return q.Description
	case q.TeX != "":
		return q.TeX
	default:
		return q.Name
	}
}

// Scalar returns the namelist scalar for q.Code: a number if the code is an
// integer, a string otherwise.
func (q Quantity) Scalar() namelist.Scalar {
	if n, err := strconv.ParseInt(q.Code, 10, 64); err == nil {
		return namelist.Int(n)
	}

	return namelist.String(q.Code)
}

// compareCodes orders integer codes numerically before other codes, which
// are ordered lexically.
func compareCodes(a, b string) int {
	x, errX := strconv.ParseInt(a, 10, 64)
	y, errY := strconv.ParseInt(b, 10, 64)

	switch {
	case errX == nil && errY == nil:
		return cmp.Compare(x, y)
	case errX == nil:
		return -1
	case errY == nil:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

// Group is a diagnostic group: an ordered list of quantities computed by one
// diagnostics module, e.g. "Velocity_Field".
type Group struct {
	Name       string     `mapstructure:"name"`
	Quantities []Quantity `mapstructure:"quantities"`
}

// OutputType is an output family whose selected quantity codes are stored
// in the entry <Prefix>_values.
type OutputType struct {
	Label  string `mapstructure:"label"`  // e.g. "Shell Slice"
	Prefix string `mapstructure:"prefix"` // e.g. "shellslice"

	// Groups restricts the diagnostic groups offered for this output type.
	// Empty means all groups.
	Groups []string `mapstructure:"groups"`
}

// ValuesEntry returns the name of the entry holding the selected codes.
func (o OutputType) ValuesEntry() string { return o.Prefix + "_values" }

func (o OutputType) allows(group string) bool {
	return len(o.Groups) == 0 || slices.ContainsFunc(o.Groups, func(g string) bool {
		return strings.EqualFold(g, group)
	})
}

// Catalog is a read-only table of output types and diagnostic groups.
type Catalog struct {
	outputs []OutputType
	groups  []Group
	logger  log.Logger
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithLogger sets the structured logger for trace-level debugging.
func WithLogger(logger log.Logger) Option {
	return func(c *Catalog) {
		c.logger = logger
	}
}

// New returns a catalog of the given output types and groups. With no output
// types, the output types of [Default] are used. Quantities are sorted by
// code.
func New(outputs []OutputType, groups []Group, opts ...Option) (*Catalog, error) {
	c := &Catalog{}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if len(outputs) == 0 {
		outputs = defaultOutputs()
	}

	c.outputs = slices.Clone(outputs)
	c.groups = make([]Group, len(groups))

	for i, g := range groups {
		q := slices.Clone(g.Quantities)
		slices.SortStableFunc(q, func(a, b Quantity) int { return compareCodes(a.Code, b.Code) })
		c.groups[i] = Group{Name: g.Name, Quantities: q}
	}

	if err := c.validate(); err != nil {
		return nil, err
	}

	c.logger.Trace("catalog ready",
		slog.Int("output_count", len(c.outputs)),
		slog.Int("group_count", len(c.groups)))

	return c, nil
}

func (c *Catalog) validate() error {
	seen := map[string]string{}

	for _, o := range c.outputs {
		if o.Label == "" || o.Prefix == "" {
			return ErrInvalid.With(slog.String("reason", "output type needs label and prefix"),
				slog.String("label", o.Label), slog.String("prefix", o.Prefix))
		}

		for _, key := range []string{o.Label, o.Prefix} {
			k := strings.ToLower(key)
			if prev, ok := seen[k]; ok && prev != o.Label {
				return ErrInvalid.With(slog.String("reason", "duplicate output type"),
					slog.String("name", key))
			}

			seen[k] = o.Label
		}
	}

	names := map[string]bool{}

	for _, g := range c.groups {
		k := strings.ToLower(g.Name)
		if g.Name == "" || names[k] {
			return ErrInvalid.With(slog.String("reason", "empty or duplicate group name"),
				slog.String("group", g.Name))
		}

		names[k] = true

		codes := map[string]bool{}

		for _, q := range g.Quantities {
			if q.Code == "" || codes[q.Code] {
				return ErrInvalid.With(slog.String("reason", "empty or duplicate code"),
					slog.String("group", g.Name), slog.String("code", q.Code))
			}

			codes[q.Code] = true
		}
	}

	return nil
}

// OutputTypes returns the output types in catalog order.
func (c *Catalog) OutputTypes() []OutputType { return slices.Clone(c.outputs) }

// OutputType returns the output type whose label or prefix matches name
// case-insensitively.
func (c *Catalog) OutputType(name string) (OutputType, bool) {
	for _, o := range c.outputs {
		if strings.EqualFold(o.Label, name) || strings.EqualFold(o.Prefix, name) {
			return o, true
		}
	}

	return OutputType{}, false
}

// Groups returns the diagnostic group names in catalog order.
func (c *Catalog) Groups() []string {
	names := make([]string, len(c.groups))
	for i, g := range c.groups {
		names[i] = g.Name
	}

	return names
}

// Group returns the diagnostic group with the given name, compared
// case-insensitively.
func (c *Catalog) Group(name string) (Group, bool) {
	for _, g := range c.groups {
		if strings.EqualFold(g.Name, name) {
			return g, true
		}
	}

	return Group{}, false
}

// GroupsFor returns the names of the groups offered for the output type.
func (c *Catalog) GroupsFor(output string) ([]string, error) {
	o, ok := c.OutputType(output)
	if !ok {
		return nil, ErrUnknownOutput.With(slog.String("output", output))
	}

	var names []string

	for _, g := range c.groups {
		if o.allows(g.Name) {
			names = append(names, g.Name)
		}
	}

	return names, nil
}

// Quantities returns the quantities of a diagnostic group for an output type.
func (c *Catalog) Quantities(output, group string) ([]Quantity, error) {
	o, ok := c.OutputType(output)
	if !ok {
		return nil, ErrUnknownOutput.With(slog.String("output", output))
	}

	g, ok := c.Group(group)
	if !ok || !o.allows(g.Name) {
		return nil, ErrUnknownGroup.With(
			slog.String("output", o.Label), slog.String("group", group))
	}

	return slices.Clone(g.Quantities), nil
}

// Lookup returns the first quantity with the given code in any group.
func (c *Catalog) Lookup(code string) (Quantity, bool) {
	for _, g := range c.groups {
		for _, q := range g.Quantities {
			if q.Code == code {
				return q, true
			}
		}
	}

	return Quantity{}, false
}
