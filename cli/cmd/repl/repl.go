package repl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/nml/catalog"
	"github.com/ardnew/nml/log"
	"github.com/ardnew/nml/namelist"
	"github.com/ardnew/nml/selection"
	"github.com/ardnew/nml/session"
)

// editDoneMsg is sent when the document was edited and parsed.
type editDoneMsg struct{ doc *namelist.Document }

// editCancelledMsg is sent when the user emptied the editor content.
type editCancelledMsg struct{}

// editErrorMsg is sent when the edit failed or was abandoned.
type editErrorMsg struct{ err error }

const (
	editPrompt   = "➜ "
	selectPrompt = "◆ "
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	selectPromptStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("5")).
				Bold(true)
	inputStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	suggestionStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	matchStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true)
	selectedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("4"))
	selectedMatchStyle = selectedStyle.Bold(true)
)

// config holds the options of Run.
type config struct {
	history string
	group   string
	logger  log.Logger
}

// Option configures Run.
type Option func(*config)

// WithHistory sets the history file. Without it history is not persisted.
func WithHistory(path string) Option {
	return func(c *config) {
		c.history = path
	}
}

// WithGroup sets the namelist group that selections are committed to.
func WithGroup(name string) Option {
	return func(c *config) {
		c.group = name
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger log.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// model is the Bubble Tea model for the shell.
type model struct {
	ctxFunc      func() context.Context
	input        textinput.Model
	shell        *shell
	logger       log.Logger
	history      *History
	historyIdx   int
	matches      fuzzy.Matches // current fuzzy match results
	candidates   []string      // backing candidate list
	wordStart    int           // byte offset of current word start
	wordEnd      int           // byte offset of current word end
	suggIdx      int           // selected candidate index
	tabActive    bool          // whether user is tab-cycling
	preTabText   string        // input text before tab-cycling began
	preTabCursor int           // cursor position before tab-cycling began
	width        int           // terminal width for ellipsization
	quitting     bool
	mode         Mode
	drafts       [2]draft      // unsubmitted input, by Mode
}

// draft is the input line of a mode that is not shown.
type draft struct {
	text   string
	cursor int
}

// Run starts the interactive shell on the document of sess. Quantities for
// select mode come from cat.
func Run(
	ctx context.Context,
	sess *session.Session,
	cat *catalog.Catalog,
	opts ...Option,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	cfg := config{group: selection.DefaultGroup}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	cfg.logger.TraceContext(ctx, "shell start",
		slog.String("path", sess.Path()),
		slog.String("history", cfg.history))

	history := NewHistory(cfg.history)
	if err := history.Load(); err != nil {
		cfg.logger.WarnContext(ctx, "could not load history", slog.Any("error", err))
	}

	ctxFunc := func() context.Context { return ctx }
	m := newModel(ctxFunc, newShell(ctxFunc, sess, cat, cfg.group, cfg.logger), history, cfg.logger)

	_, err = tea.NewProgram(m, tea.WithContext(ctx)).Run()

	return err
}

const defaultWidth = 80

func newModel(
	ctxFunc func() context.Context,
	sh *shell,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(editPrompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	return model{
		ctxFunc:    ctxFunc,
		input:      ti,
		shell:      sh,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
		mode:       ModeEdit,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(editPrompt) - 2

		return m, nil

	case editDoneMsg:
		m.shell.setDocument(msg.doc)
		m.logger.TraceContext(m.ctxFunc(), "shell edit complete",
			slog.Int("group_count", msg.doc.Len()))

		return m, tea.Println(resultStyle.Render("document updated"))

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("edit cancelled"))

	case editErrorMsg:
		if errors.Is(msg.err, ErrEditDeclined) {
			return m, tea.Println(hintStyle.Render("edit discarded"))
		}

		return m, tea.Println(errorStyle.Render("error: " + msg.err.Error()))
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(statusStyle.Render(m.shell.status(m.mode)))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	switch {
	case m.historyIdx < m.history.Len():
		hint := fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len())
		b.WriteString(hintStyle.Render(hint))

	case strings.TrimSpace(m.input.Value()) == "":
		b.WriteString(hintStyle.Render(m.hint()))

	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width))
	}

	b.WriteString("\n")

	return b.String()
}

func (m model) hint() string {
	if m.mode == ModeSelect {
		return "output, diag, toggle, commit, return (Esc: edit mode, help)"
	}

	return "ls, get, add, set, rm, save, quit (Esc: select mode, help)"
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctxFunc(), "shell keypress",
		slog.String("key", msg.String()))

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			return m.execute("quit")
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		refreshMatches(&m, false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			return m.execute("quit")
		}

		return m, nil

	case tea.KeyEnter:
		if !m.tabActive || len(m.matches) == 0 {
			return m.submit()
		}

		// Lock in the current candidate without executing.
		m.tabActive = false
		refreshMatches(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.historyStep(-1, false), nil

	case tea.KeyDown:
		return m.historyStep(1, false), nil

	case tea.KeyShiftUp:
		return m.historyStep(-1, true), nil

	case tea.KeyShiftDown:
		return m.historyStep(1, true), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)

			return m, nil
		}

		return m.switchToMode(1 - m.mode), nil

	case tea.KeyRunes, tea.KeySpace:
		if m.tabActive && msg.Type == tea.KeySpace {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, cmd
	}

	// Other keys edit or move without auto-confirming a completion.
	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

// cycle moves the tab selection by step, completing the current word.
func (m model) cycle(step int) model {
	if len(m.matches) == 0 {
		return m
	}

	if len(m.matches) == 1 {
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m
	}

	if m.tabActive {
		m.suggIdx = (m.suggIdx + step + len(m.matches)) % len(m.matches)
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		m.suggIdx = 0
		if step < 0 {
			m.suggIdx = len(m.matches) - 1
		}
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m
}

// replaceCurrentWord replaces the current word with replacement and moves
// the cursor after it.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	cursor := m.wordStart + len(replacement)

	m.input.SetValue(input[:m.wordStart] + replacement + input[m.wordEnd:])
	m.input.SetCursor(cursor)

	m.wordEnd = cursor
}

// refreshMatches recomputes the matches for the current input. With
// autoConfirm, a word that already equals the only candidate is accepted.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.candidates, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	if m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

// submit records the input line in history and executes it.
func (m model) submit() (model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())
	if line == "" {
		return m, nil
	}

	m.drafts = [2]draft{}
	m.input.SetValue("")
	m.matches = nil

	if err := m.history.Add(line, m.mode); err != nil {
		m.logger.WarnContext(m.ctxFunc(), "could not save history", slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()

	return m.execute(line)
}

// execute runs line in the current mode and prints its output.
func (m model) execute(line string) (model, tea.Cmd) {
	echo := tea.Println(m.styledPrompt() + inputStyle.Render(line))

	res, err := m.shell.exec(m.mode, line)

	var out []tea.Cmd

	out = append(out, echo)
	if res.out != "" {
		out = append(out, tea.Println(resultStyle.Render(res.out)))
	}

	if err != nil {
		out = append(out, tea.Println(errorStyle.Render("error: "+err.Error())))

		var fe *namelist.FormatError
		if errors.As(err, &fe) && fe.Snippet() != "" {
			out = append(out, tea.Println(hintStyle.Render(strings.TrimSuffix(fe.Snippet(), "\n"))))
		}
	}

	switch {
	case res.quit:
		m.quitting = true

		out = append(out, tea.Quit)

	case res.clear:
		return m, tea.ClearScreen

	case res.edit:
		out = append(out, m.edit())
	}

	return m, tea.Sequence(out...)
}

// edit runs $EDITOR on the document.
func (m model) edit() tea.Cmd {
	cmd := &editCommand{
		doc:     m.shell.session.Document(),
		ctxFunc: m.ctxFunc,
		logger:  m.logger,
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		switch {
		case err != nil:
			return editErrorMsg{err: err}
		case cmd.newDoc == nil:
			return editCancelledMsg{}
		default:
			return editDoneMsg{doc: cmd.newDoc}
		}
	})
}

// historyStep moves through history by step. Entries from the other mode
// switch the mode, unless sameMode restricts the walk to the current mode.
func (m model) historyStep(step int, sameMode bool) model {
	for i := m.historyIdx + step; i >= 0 && i < m.history.Len(); i += step {
		entry, err := m.history.Entry(i)
		if err != nil {
			break
		}

		if sameMode && entry.Mode != m.mode {
			continue
		}

		if entry.Mode != m.mode {
			m = m.switchToMode(entry.Mode)
		}

		m.historyIdx = i
		m.input.SetValue(entry.Line)
		m.input.SetCursor(len(entry.Line))
		refreshMatches(&m, false)

		return m
	}

	if step > 0 && m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		refreshMatches(&m, false)
	}

	return m
}

// switchToMode switches to mode, keeping the input of each mode.
func (m model) switchToMode(mode Mode) model {
	m.drafts[m.mode] = draft{text: m.input.Value(), cursor: m.input.Position()}

	m.mode = mode
	m.tabActive = false
	m.input.Prompt = m.styledPrompt()
	m.input.SetValue(m.drafts[mode].text)
	m.input.SetCursor(m.drafts[mode].cursor)

	refreshMatches(&m, false)

	return m
}

func (m model) styledPrompt() string {
	if m.mode == ModeSelect {
		return selectPromptStyle.Render(selectPrompt)
	}

	return promptStyle.Render(editPrompt)
}
