// Package selection composes the <output>_values entry of an output
// namelist from quantities picked out of a [catalog.Catalog].
//
// A [Helper] starts Idle. Choosing an output type and a diagnostic group
// makes it Browsing; quantities may then be toggled, and the output type or
// group changed, any number of times. Selections accumulate across groups
// until [Helper.Commit] appends them to the target entry or [Helper.Return]
// discards them. Either returns the Helper to Idle. Nothing touches the
// document before Commit.
package selection

import (
	"log/slog"
	"slices"
	"strconv"

	"github.com/ardnew/nml/catalog"
	"github.com/ardnew/nml/log"
	"github.com/ardnew/nml/namelist"
)

// DefaultGroup is the namelist group that holds output selections.
const DefaultGroup = "output_namelist"

// State is the state of a Helper.
type State int

const (
	Idle State = iota
	Browsing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Browsing:
		return "browsing"
	default:
		return "State(" + strconv.Itoa(int(s)) + ")"
	}
}

// Row is one catalog quantity of the browsed group.
type Row struct {
	catalog.Quantity

	Selected bool // pending in this session
	Saved    bool // already present in the target entry
}

// Helper composes selections for one target group of one document.
type Helper struct {
	catalog *catalog.Catalog
	doc     *namelist.Document
	group   string
	logger  log.Logger

	output    catalog.OutputType
	hasOutput bool
	diag      string
	pending   []catalog.Quantity
}

// Option configures a Helper.
type Option func(*Helper)

// WithGroup sets the target namelist group. The default is [DefaultGroup].
func WithGroup(name string) Option {
	return func(h *Helper) {
		h.group = name
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger log.Logger) Option {
	return func(h *Helper) {
		h.logger = logger
	}
}

// New returns an Idle Helper that reads quantities from c and commits to doc.
func New(c *catalog.Catalog, doc *namelist.Document, opts ...Option) *Helper {
	h := &Helper{catalog: c, doc: doc, group: DefaultGroup}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}

	return h
}

// State returns Browsing once a diagnostic group has been chosen, else Idle.
func (h *Helper) State() State {
	if h.diag == "" {
		return Idle
	}

	return Browsing
}

// TargetGroup returns the name of the namelist group committed to.
func (h *Helper) TargetGroup() string { return h.group }

// Output returns the chosen output type.
func (h *Helper) Output() (catalog.OutputType, bool) { return h.output, h.hasOutput }

// Diagnostic returns the browsed diagnostic group, or "" when Idle.
func (h *Helper) Diagnostic() string { return h.diag }

// Groups returns the diagnostic groups offered for the chosen output type.
func (h *Helper) Groups() ([]string, error) {
	if !h.hasOutput {
		return nil, ErrNoOutputType
	}

	return h.catalog.GroupsFor(h.output.Label)
}

// SetOutput chooses the output type by label or prefix. Pending selections
// are kept and will be committed to the new type's entry.
func (h *Helper) SetOutput(name string) error {
	o, ok := h.catalog.OutputType(name)
	if !ok {
		return ErrUnknownOutput.With(slog.String("output", name))
	}

	if h.diag != "" {
		if _, err := h.catalog.Quantities(o.Label, h.diag); err != nil {
			h.diag = ""
		}
	}

	h.output, h.hasOutput = o, true

	return nil
}

// SetGroup chooses the diagnostic group to browse.
func (h *Helper) SetGroup(name string) error {
	if !h.hasOutput {
		return ErrNoOutputType
	}

	if _, err := h.catalog.Quantities(h.output.Label, name); err != nil {
		return ErrUnknownGroup.With(
			slog.String("output", h.output.Label), slog.String("group", name))
	}

	g, _ := h.catalog.Group(name)
	h.diag = g.Name

	return nil
}

// Browse chooses both the output type and the diagnostic group. Nothing
// changes if either is unknown.
func (h *Helper) Browse(output, group string) error {
	o, ok := h.catalog.OutputType(output)
	if !ok {
		return ErrUnknownOutput.With(slog.String("output", output))
	}

	if _, err := h.catalog.Quantities(o.Label, group); err != nil {
		return ErrUnknownGroup.With(
			slog.String("output", o.Label), slog.String("group", group))
	}

	if err := h.SetOutput(output); err != nil {
		return err
	}

	return h.SetGroup(group)
}

// Rows returns the quantities of the browsed group with their selection
// state.
func (h *Helper) Rows() ([]Row, error) {
	qs, err := h.quantities()
	if err != nil {
		return nil, err
	}

	saved := h.saved()
	rows := make([]Row, len(qs))

	for i, q := range qs {
		rows[i] = Row{
			Quantity: q,
			Selected: h.isPending(q.Code),
			Saved:    saved.Contains(q.Scalar()),
		}
	}

	return rows, nil
}

// Toggle flips the pending state of code in the browsed group and reports
// whether it is now selected.
func (h *Helper) Toggle(code string) (bool, error) {
	if h.isPending(code) {
		return false, h.Deselect(code)
	}

	return true, h.Select(code)
}

// Select adds code from the browsed group to the pending selections.
func (h *Helper) Select(code string) error {
	q, err := h.find(code)
	if err != nil {
		return err
	}

	if !h.isPending(q.Code) {
		h.pending = append(h.pending, q)
	}

	return nil
}

// Deselect removes code from the pending selections. A code selected in a
// previously browsed group may be removed while browsing another.
func (h *Helper) Deselect(code string) error {
	if !h.isPending(code) {
		_, err := h.find(code)

		return err
	}

	h.pending = slices.DeleteFunc(h.pending, func(q catalog.Quantity) bool {
		return q.Code == code
	})

	return nil
}

// Pending returns the pending quantities in order of selection.
func (h *Helper) Pending() []catalog.Quantity { return slices.Clone(h.pending) }

// Commit appends the pending codes that the target entry does not already
// hold, creating the target group and entry if needed, and returns to Idle.
// It returns the number of codes added. Existing codes are never removed or
// reordered.
func (h *Helper) Commit() (int, error) {
	if h.State() != Browsing {
		return 0, ErrNotBrowsing
	}

	name := h.output.ValuesEntry()
	saved := h.saved()

	var added namelist.Value

	for _, q := range h.pending {
		s := q.Scalar()
		if !saved.Contains(s) && !added.Contains(s) {
			added = append(added, s)
		}
	}

	if len(added) > 0 {
		if err := h.apply(name, saved, added); err != nil {
			return 0, err
		}
	}

	h.logger.Debug("commit selection",
		slog.String("group", h.group),
		slog.String("entry", name),
		slog.Int("added", len(added)))

	h.reset()

	return len(added), nil
}

// Return discards the pending selections and returns to Idle.
func (h *Helper) Return() {
	h.logger.Debug("discard selection", slog.Int("pending", len(h.pending)))
	h.reset()
}

func (h *Helper) apply(name string, saved, added namelist.Value) error {
	g, ok := h.doc.Group(h.group)
	if !ok {
		var err error
		if g, err = h.doc.AddGroup(h.group); err != nil {
			return err
		}
	}

	if _, ok := g.Entry(name); !ok {
		_, err := g.AddEntry(name, added)

		return err
	}

	return g.SetEntryValue(name, append(saved.Clone(), added...))
}

func (h *Helper) reset() {
	h.diag = ""
	h.pending = nil
}

// saved returns the value of the target entry, or nil.
func (h *Helper) saved() namelist.Value {
	if !h.hasOutput {
		return nil
	}

	e, err := h.doc.Entry(h.group, h.output.ValuesEntry())
	if err != nil {
		return nil
	}

	return e.Value
}

func (h *Helper) quantities() ([]catalog.Quantity, error) {
	if h.State() != Browsing {
		return nil, ErrNotBrowsing
	}

	return h.catalog.Quantities(h.output.Label, h.diag)
}

func (h *Helper) find(code string) (catalog.Quantity, error) {
	qs, err := h.quantities()
	if err != nil {
		return catalog.Quantity{}, err
	}

	i := slices.IndexFunc(qs, func(q catalog.Quantity) bool { return q.Code == code })
	if i < 0 {
		return catalog.Quantity{}, ErrUnknownCode.With(
			slog.String("group", h.diag), slog.String("code", code))
	}

	return qs[i], nil
}

func (h *Helper) isPending(code string) bool {
	return slices.ContainsFunc(h.pending, func(q catalog.Quantity) bool {
		return q.Code == code
	})
}
