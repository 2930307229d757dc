package repl

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ardnew/nml/catalog"
	"github.com/ardnew/nml/log"
	"github.com/ardnew/nml/namelist"
	"github.com/ardnew/nml/selection"
	"github.com/ardnew/nml/session"
)

// Mode is the input mode of the shell.
type Mode int

const (
	ModeEdit   Mode = iota // edit the document
	ModeSelect             // compose output selections
)

func (m Mode) String() string {
	switch m {
	case ModeEdit:
		return "edit"
	case ModeSelect:
		return "select"
	default:
		return "Mode(" + strconv.Itoa(int(m)) + ")"
	}
}

// result is the effect of one command.
type result struct {
	out   string
	quit  bool // leave the shell
	clear bool // clear the screen
	edit  bool // open the document in $EDITOR
}

// call is one parsed input line.
type call struct {
	name  string
	args  []string
	force bool // command name ended with "!"
	line  string
}

// rest returns the input text following the first n arguments, unsplit.
func (c call) rest(n int) string {
	s := strings.TrimSpace(c.line)

	for range n + 1 {
		i := strings.IndexFunc(s, isSpace)
		if i < 0 {
			return ""
		}

		s = strings.TrimSpace(s[i:])
	}

	return s
}

func isSpace(r rune) bool { return r == ' ' || r == '\t' }

// command is one shell command.
type command struct {
	name  string
	usage string
	help  string
	run   func(s *shell, c call) (result, error)

	// complete returns the candidates for the argument following args.
	complete func(s *shell, args []string) []string
}

// shell executes commands against a session and its selection helper.
type shell struct {
	ctxFunc func() context.Context
	session *session.Session
	catalog *catalog.Catalog
	helper  *selection.Helper
	group   string
	logger  log.Logger
}

func newShell(
	ctxFunc func() context.Context,
	sess *session.Session,
	cat *catalog.Catalog,
	group string,
	logger log.Logger,
) *shell {
	s := &shell{
		ctxFunc: ctxFunc,
		session: sess,
		catalog: cat,
		group:   group,
		logger:  logger,
	}

	s.reload()

	return s
}

// reload binds a new selection helper to the current document. Pending
// selections are discarded.
func (s *shell) reload() {
	s.helper = selection.New(s.catalog, s.session.Document(),
		selection.WithGroup(s.group),
		selection.WithLogger(s.logger),
	)
}

// setDocument replaces the edited document.
func (s *shell) setDocument(doc *namelist.Document) {
	s.session.SetDocument(doc)
	s.reload()
}

// exec runs one input line in mode m.
func (s *shell) exec(m Mode, line string) (result, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return result{}, nil
	}

	name, force := strings.CutSuffix(fields[0], "!")

	cmd, ok := lookup(m, name)
	if !ok {
		return result{}, fmt.Errorf("%w: %s", ErrUnknownCommand, fields[0])
	}

	s.logger.TraceContext(s.ctxFunc(), "shell exec",
		slog.String("mode", m.String()),
		slog.String("command", cmd.name),
		slog.Bool("force", force),
		slog.Int("arg_count", len(fields)-1))

	return cmd.run(s, call{name: name, args: fields[1:], force: force, line: line})
}

// status summarizes the shell state for the prompt area.
func (s *shell) status(m Mode) string {
	if m == ModeSelect {
		out := "no output type"
		if o, ok := s.helper.Output(); ok {
			out = o.Label + " → " + o.ValuesEntry()
		}

		diag := s.helper.Diagnostic()
		if diag == "" {
			diag = "-"
		}

		return fmt.Sprintf("%s | diag: %s | pending: %d", out, diag, len(s.helper.Pending()))
	}

	name := s.session.Path()
	if name == "" {
		name = "(new)"
	}

	if s.session.Dirty() {
		name += " [modified]"
	}

	return name
}

// lookup finds the command named name, or a unique command it abbreviates.
func lookup(m Mode, name string) (command, bool) {
	var found []command

	for _, c := range commands(m) {
		if c.name == name {
			return c, true
		}

		if strings.HasPrefix(c.name, name) {
			found = append(found, c)
		}
	}

	if len(found) == 1 {
		return found[0], true
	}

	return command{}, false
}

// commandNames returns the names of the commands of mode m.
func commandNames(m Mode) []string {
	cmds := commands(m)
	names := make([]string, len(cmds))

	for i, c := range cmds {
		names[i] = c.name
	}

	return names
}

func usage(c call, args string) error {
	return fmt.Errorf("%w: %s %s", ErrUsage, c.name, args)
}

// commands returns the commands of mode m.
func commands(m Mode) []command {
	common := []command{
		{name: "help", help: "Print this help", run: (*shell).help},
		{name: "clear", help: "Clear the screen", run: func(*shell, call) (result, error) {
			return result{clear: true}, nil
		}},
		{name: "quit", usage: "[!]", help: "Exit; quit! discards unsaved changes", run: (*shell).quit},
	}

	if m == ModeSelect {
		return append(common, []command{
			{name: "outputs", help: "List output types", run: (*shell).outputs},
			{
				name: "output", usage: "<type>", help: "Choose the output type",
				run: (*shell).output, complete: (*shell).outputNames,
			},
			{name: "groups", help: "List diagnostic groups of the output type", run: (*shell).groups},
			{
				name: "diag", usage: "<group>", help: "Browse a diagnostic group",
				run: (*shell).diag, complete: (*shell).groupNamesFor,
			},
			{name: "rows", help: "List quantities (* saved, + selected)", run: (*shell).rows},
			{
				name: "toggle", usage: "<code>...", help: "Select or deselect quantities",
				run: (*shell).toggle, complete: (*shell).codes,
			},
			{name: "pending", help: "List pending selections", run: (*shell).pending},
			{name: "commit", help: "Append pending codes to the output list", run: (*shell).commit},
			{name: "return", help: "Discard pending selections", run: (*shell).discard},
		}...)
	}

	return append(common, []command{
		{name: "new", usage: "[!]", help: "Start an empty document", run: (*shell).reset},
		{name: "open", usage: "[!] <file>", help: "Open a namelist file", run: (*shell).open},
		{name: "save", usage: "[!] [file]", help: "Save; save! overwrites another file", run: (*shell).save},
		{name: "show", help: "Print the document", run: (*shell).show},
		{
			name: "ls", usage: "[group]", help: "List groups, or the entries of a group",
			run: (*shell).list, complete: (*shell).names,
		},
		{
			name: "get", usage: "<group> <entry>", help: "Print an entry value",
			run: (*shell).get, complete: (*shell).names,
		},
		{
			name: "add", usage: "<group> [<entry> <value>]", help: "Add a group or an entry",
			run: (*shell).add, complete: (*shell).names,
		},
		{
			name: "set", usage: "<group> <entry> <value>", help: "Replace an entry value",
			run: (*shell).set, complete: (*shell).names,
		},
		{
			name: "rm", usage: "<group> [entry]", help: "Remove a group or an entry",
			run: (*shell).remove, complete: (*shell).names,
		},
		{name: "edit", help: "Edit the document in $EDITOR", run: func(*shell, call) (result, error) {
			return result{edit: true}, nil
		}},
	}...)
}

func (s *shell) help(c call) (result, error) {
	var b strings.Builder

	for _, m := range []Mode{ModeEdit, ModeSelect} {
		fmt.Fprintf(&b, "%s mode:\n", m)

		for _, cmd := range commands(m) {
			fmt.Fprintf(&b, "  %-8s %-26s %s\n", cmd.name, cmd.usage, cmd.help)
		}
	}

	b.WriteString("\nEsc switches mode. Tab completes. Commands may be abbreviated.")

	return result{out: b.String()}, nil
}

func (s *shell) quit(c call) (result, error) {
	if err := s.session.Quit(c.force); err != nil {
		return result{}, fmt.Errorf("%w (use quit! to discard)", err)
	}

	return result{quit: true}, nil
}

// Edit mode.

func (s *shell) reset(c call) (result, error) {
	if err := s.session.Reset(c.force); err != nil {
		return result{}, fmt.Errorf("%w (use new! to discard)", err)
	}

	s.reload()

	return result{out: "new document"}, nil
}

func (s *shell) open(c call) (result, error) {
	if len(c.args) != 1 {
		return result{}, usage(c, "<file>")
	}

	if err := s.session.Quit(c.force); err != nil {
		return result{}, fmt.Errorf("%w (use open! to discard)", err)
	}

	if err := s.session.Open(s.ctxFunc(), c.args[0]); err != nil {
		return result{}, err
	}

	s.reload()

	return result{out: fmt.Sprintf("opened %s (%d groups)", s.session.Path(), s.session.Document().Len())}, nil
}

func (s *shell) save(c call) (result, error) {
	if len(c.args) > 1 {
		return result{}, usage(c, "[file]")
	}

	var path string
	if len(c.args) == 1 {
		path = c.args[0]
	}

	if err := s.session.Save(s.ctxFunc(), path, c.force); err != nil {
		return result{}, err
	}

	return result{out: "saved " + s.session.Path()}, nil
}

func (s *shell) show(call) (result, error) {
	text := strings.TrimSuffix(s.session.Document().String(), "\n")
	if text == "" {
		text = "(empty document)"
	}

	return result{out: text}, nil
}

func (s *shell) list(c call) (result, error) {
	doc := s.session.Document()

	var lines []string

	switch len(c.args) {
	case 0:
		for g := range doc.Groups() {
			lines = append(lines, fmt.Sprintf("%s (%d)", g.Name(), g.Len()))
		}

	case 1:
		g, ok := doc.Group(c.args[0])
		if !ok {
			return result{}, &namelist.NotFoundError{Target: namelist.TargetGroup, Name: c.args[0]}
		}

		for e := range g.Entries() {
			lines = append(lines, e.String())
		}

	default:
		return result{}, usage(c, "[group]")
	}

	return result{out: strings.Join(lines, "\n")}, nil
}

func (s *shell) get(c call) (result, error) {
	if len(c.args) != 2 {
		return result{}, usage(c, "<group> <entry>")
	}

	e, err := s.session.Document().Entry(c.args[0], c.args[1])
	if err != nil {
		return result{}, err
	}

	return result{out: e.Text()}, nil
}

func (s *shell) add(c call) (result, error) {
	doc := s.session.Document()

	switch len(c.args) {
	case 0:
		return result{}, usage(c, "<group> [<entry> <value>]")

	case 1:
		if _, err := doc.AddGroup(c.args[0]); err != nil {
			return result{}, err
		}

		return result{out: "added group " + c.args[0]}, nil

	case 2:
		return result{}, usage(c, "<group> <entry> <value>")
	}

	v, err := namelist.ParseValue(c.rest(2))
	if err != nil {
		return result{}, err
	}

	g, ok := doc.Group(c.args[0])
	if !ok {
		return result{}, &namelist.NotFoundError{Target: namelist.TargetGroup, Name: c.args[0]}
	}

	e, err := g.AddEntry(c.args[1], v)
	if err != nil {
		return result{}, err
	}

	return result{out: e.String()}, nil
}

func (s *shell) set(c call) (result, error) {
	if len(c.args) < 3 {
		return result{}, usage(c, "<group> <entry> <value>")
	}

	v, err := namelist.ParseValue(c.rest(2))
	if err != nil {
		return result{}, err
	}

	e, err := s.session.Document().Entry(c.args[0], c.args[1])
	if err != nil {
		return result{}, err
	}

	if err := e.SetValue(v); err != nil {
		return result{}, err
	}

	return result{out: e.String()}, nil
}

func (s *shell) remove(c call) (result, error) {
	doc := s.session.Document()

	switch len(c.args) {
	case 1:
		if err := doc.RemoveGroup(c.args[0]); err != nil {
			return result{}, err
		}

		return result{out: "removed group " + c.args[0]}, nil

	case 2:
		g, ok := doc.Group(c.args[0])
		if !ok {
			return result{}, &namelist.NotFoundError{Target: namelist.TargetGroup, Name: c.args[0]}
		}

		if err := g.RemoveEntry(c.args[1]); err != nil {
			return result{}, err
		}

		return result{out: "removed " + c.args[1]}, nil
	}

	return result{}, usage(c, "<group> [entry]")
}

// names completes a group name, then an entry name of that group.
func (s *shell) names(args []string) []string {
	doc := s.session.Document()

	switch len(args) {
	case 0:
		return doc.GroupNames()
	case 1:
		if g, ok := doc.Group(args[0]); ok {
			return g.EntryNames()
		}
	}

	return nil
}

// Select mode.

func (s *shell) outputs(call) (result, error) {
	var lines []string

	for _, o := range s.catalog.OutputTypes() {
		lines = append(lines, fmt.Sprintf("%-12s %s", o.Prefix, o.Label))
	}

	return result{out: strings.Join(lines, "\n")}, nil
}

func (s *shell) output(c call) (result, error) {
	if len(c.args) == 0 {
		return result{}, usage(c, "<type>")
	}

	if err := s.helper.SetOutput(c.rest(0)); err != nil {
		return result{}, err
	}

	o, _ := s.helper.Output()

	return result{out: fmt.Sprintf("output: %s (%s)", o.Label, o.ValuesEntry())}, nil
}

func (s *shell) groups(call) (result, error) {
	groups, err := s.helper.Groups()
	if err != nil {
		return result{}, err
	}

	if len(groups) == 0 {
		return result{out: "(no diagnostic groups)"}, nil
	}

	return result{out: strings.Join(groups, "\n")}, nil
}

func (s *shell) diag(c call) (result, error) {
	if len(c.args) != 1 {
		return result{}, usage(c, "<group>")
	}

	if err := s.helper.SetGroup(c.args[0]); err != nil {
		return result{}, err
	}

	return s.rows(c)
}

func (s *shell) rows(call) (result, error) {
	rows, err := s.helper.Rows()
	if err != nil {
		return result{}, err
	}

	lines := make([]string, len(rows))

	for i, r := range rows {
		mark := " "

		switch {
		case r.Saved:
			mark = "*"
		case r.Selected:
			mark = "+"
		}

		lines[i] = fmt.Sprintf("%s %5s  %s", mark, r.Code, r.Label())
	}

	return result{out: strings.Join(lines, "\n")}, nil
}

func (s *shell) toggle(c call) (result, error) {
	if len(c.args) == 0 {
		return result{}, usage(c, "<code>...")
	}

	lines := make([]string, 0, len(c.args))

	for _, code := range c.args {
		on, err := s.helper.Toggle(code)
		if err != nil {
			return result{out: strings.Join(lines, "\n")}, err
		}

		mark := "-"
		if on {
			mark = "+"
		}

		lines = append(lines, mark+" "+code)
	}

	return result{out: strings.Join(lines, "\n")}, nil
}

func (s *shell) pending(call) (result, error) {
	qs := s.helper.Pending()
	if len(qs) == 0 {
		return result{out: "(nothing selected)"}, nil
	}

	lines := make([]string, len(qs))
	for i, q := range qs {
		lines[i] = fmt.Sprintf("%5s  %s", q.Code, q.Label())
	}

	return result{out: strings.Join(lines, "\n")}, nil
}

func (s *shell) commit(call) (result, error) {
	o, _ := s.helper.Output()

	n, err := s.helper.Commit()
	if err != nil {
		return result{}, err
	}

	return result{out: fmt.Sprintf("added %d to %s/%s", n, s.group, o.ValuesEntry())}, nil
}

func (s *shell) discard(call) (result, error) {
	s.helper.Return()

	return result{out: "selection discarded"}, nil
}

func (s *shell) outputNames([]string) []string {
	var names []string

	for _, o := range s.catalog.OutputTypes() {
		names = append(names, o.Prefix)
	}

	return names
}

func (s *shell) groupNamesFor([]string) []string {
	groups, _ := s.helper.Groups()

	return groups
}

func (s *shell) codes([]string) []string {
	rows, _ := s.helper.Rows()

	codes := make([]string, len(rows))
	for i, r := range rows {
		codes[i] = r.Code
	}

	return codes
}
