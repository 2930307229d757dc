package namelist

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/klauspost/readahead"
)

// ParseReader reads all of r and parses it as a namelist file.
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*Document, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	return Parse(ctx, data, opts...)
}

// ParseString parses s as a namelist file.
func ParseString(ctx context.Context, s string, opts ...Option) (*Document, error) {
	return Parse(ctx, []byte(s), opts...)
}

// Parse parses data as a namelist file. Errors in the text are reported as a
// [*FormatError]; duplicate names are a *FormatError wrapping a
// [*DuplicateNameError].
//
// Comments are skipped and not retained.
func Parse(ctx context.Context, data []byte, opts ...Option) (*Document, error) {
	d := New(opts...)

	d.logger.TraceContext(ctx, "parse start", slog.Int("source_bytes", len(data)))

	p := &parser{input: data, line: 1, col: 1}
	if err := p.parseDocument(d); err != nil {
		d.logger.DebugContext(ctx, "parse failed", slog.Any("error", err))

		return nil, err
	}

	d.logger.TraceContext(ctx, "parse complete", slog.Int("group_count", d.Len()))

	return d, nil
}

// ParseValue parses user-supplied text such as "1, 2, 3" or "'a', 'b'" with
// the same rules as values read from a file.
func ParseValue(text string) (Value, error) {
	p := &parser{input: []byte(text), line: 1, col: 1}

	v, _, err := p.parseValues()
	if err != nil {
		return nil, err
	}

	if !p.eof() {
		return nil, p.errorAt(p.mark(), "malformed value token", p.word())
	}

	if len(v) == 0 {
		return nil, &FormatError{Reason: "empty value", Token: text}
	}

	return v, nil
}

// parser holds the parser state.
type parser struct {
	input []byte
	pos   int
	line  int
	col   int
}

type position struct {
	pos  int
	line int
	col  int
}

// parseDocument parses: Group* EOF.
func (p *parser) parseDocument(d *Document) error {
	for {
		p.skipSpace(true)

		if p.eof() {
			return nil
		}

		m := p.mark()

		switch {
		case p.atEnd():
			return p.errorAt(m, "terminator outside a group", p.word())

		case p.peek() == '&' || p.peek() == '$':
			if err := p.parseGroup(d); err != nil {
				return err
			}

		default:
			return p.errorAt(m, "content outside a group", p.word())
		}
	}
}

// parseGroup parses: ('&'|'$') Name Assignment* ('/'|'&end'|'$end').
func (p *parser) parseGroup(d *Document) error {
	start := p.mark()

	p.advance()

	nameAt := p.mark()

	name := p.scanName()
	if name == "" {
		return p.errorAt(nameAt, "missing group name", p.word())
	}

	g, err := d.AddGroup(name)
	if err != nil {
		return p.wrapAt(nameAt, err, "duplicate group name")
	}

	for {
		p.skipSpace(true)

		switch {
		case p.eof():
			return p.errorAt(start, "unterminated group", name)

		case p.peek() == '/':
			p.advance()

			return nil

		case p.atEnd():
			p.advanceN(len("&end"))

			return nil

		case p.peek() == '&' || p.peek() == '$':
			return p.errorAt(start, "unterminated group", name)
		}

		if err := p.parseAssignment(g); err != nil {
			return err
		}
	}
}

// parseAssignment parses: Name '=' Values.
func (p *parser) parseAssignment(g *Group) error {
	at := p.mark()

	name := p.scanEntryName()
	if name == "" {
		return p.errorAt(at, "malformed token", p.word())
	}

	p.skipSpace(false)

	if p.peek() != '=' {
		return p.errorAt(p.mark(), "missing '=' after", name)
	}

	p.advance()

	v, raw, err := p.parseValues()
	if err != nil {
		return err
	}

	if len(v) == 0 {
		return p.errorAt(at, "empty value", name)
	}

	e, err := g.AddEntry(name, v)
	if err != nil {
		return p.wrapAt(at, err, "duplicate entry name")
	}

	if raw != "" {
		e.raw, e.rawValue = raw, e.Value.Clone()
	}

	return nil
}

// parseValues parses: (Scalar (','? Scalar)* ','?)?, stopping at a group
// terminator, the next assignment, or EOF. raw is the source text from the
// first to the last token when they share one line.
func (p *parser) parseValues() (v Value, raw string, err error) {
	var first, last position

	for {
		p.skipSpace(true)

		if p.eof() || p.atValueEnd() {
			break
		}

		if p.peek() == ',' {
			return nil, "", p.errorAt(p.mark(), "empty value before", ",")
		}

		at := p.mark()

		n, err := p.scanRepeat()
		if err != nil {
			return nil, "", err
		}

		s, err := p.scanScalar()
		if err != nil {
			return nil, "", err
		}

		if len(v) == 0 {
			first = at
		}

		for range n {
			v = append(v, s)
		}

		last = p.mark()

		p.skipSpace(true)

		if p.peek() == ',' {
			p.advance()
		}
	}

	if len(v) > 0 && first.line == last.line {
		raw = string(p.input[first.pos:last.pos])
	}

	return v, raw, nil
}

// maxRepeat bounds the repeat count of an "r*c" value.
const maxRepeat = 1 << 16

// scanRepeat scans an optional repeat count "r*" and returns r, or 1 if
// there is none. A null value after the count ("3*" or "3*,") is an error.
func (p *parser) scanRepeat() (int, error) {
	end := p.pos
	for end < len(p.input) && p.input[end] >= '0' && p.input[end] <= '9' {
		end++
	}

	if end == p.pos || end >= len(p.input) || p.input[end] != '*' {
		return 1, nil
	}

	at := p.mark()
	tok := string(p.input[p.pos : end+1])

	n, err := strconv.Atoi(tok[:len(tok)-1])
	if err != nil || n < 1 || n > maxRepeat {
		return 0, p.errorAt(at, "invalid repeat count", tok)
	}

	p.advanceN(len(tok))

	if p.eof() || isDelimiter(p.peek()) {
		return 0, p.errorAt(at, "null value after repeat count", tok)
	}

	return n, nil
}

// scanScalar scans one quoted string or unquoted bool/number token.
func (p *parser) scanScalar() (Scalar, error) {
	if c := p.peek(); c == '\'' || c == '"' {
		return p.scanString(c)
	}

	at := p.mark()
	tok := p.word()

	s, ok := classify(tok)
	if !ok {
		return Scalar{}, p.errorAt(at, "malformed value token", tok)
	}

	p.advanceN(len(tok))

	return s, nil
}

// scanString scans a string delimited by q. A doubled q stands for one q.
func (p *parser) scanString(q byte) (Scalar, error) {
	at := p.mark()

	p.advance()

	var buf strings.Builder

	for {
		if p.eof() || p.peek() == '\n' {
			return Scalar{}, p.errorAt(at, "unterminated string",
				string(p.input[at.pos:p.pos]))
		}

		if p.peek() == q {
			p.advance()

			if p.peek() != q {
				return String(buf.String()), nil
			}
		}

		_, size := utf8.DecodeRune(p.input[p.pos:])
		buf.Write(p.input[p.pos : p.pos+size])
		p.advance()
	}
}

// scanName scans a group name.
func (p *parser) scanName() string {
	start := p.pos

	for !p.eof() && isIdentByte(p.peek()) {
		p.advance()
	}

	return string(p.input[start:p.pos])
}

// scanEntryName scans an entry name with optional derived-type components and
// subscript, e.g. "ra_constants(1)". Validity is checked by [Group.AddEntry].
func (p *parser) scanEntryName() string {
	start := p.pos

	if !isLetter(p.peek()) {
		return ""
	}

	for !p.eof() && (isIdentByte(p.peek()) || p.peek() == '%') {
		p.advance()
	}

	if p.peek() == '(' {
		for !p.eof() && p.peek() != ')' && p.peek() != '\n' {
			p.advance()
		}

		if p.peek() == ')' {
			p.advance()
		}
	}

	return string(p.input[start:p.pos])
}

// atValueEnd reports whether the input at the current position ends a value
// list: a group terminator, the start of another group, or the next
// assignment.
func (p *parser) atValueEnd() bool {
	switch p.peek() {
	case '/', '&', '$':
		return true
	}

	return p.atAssignment()
}

// atAssignment reports whether the input at the current position starts an
// assignment.
func (p *parser) atAssignment() bool {
	m := p.mark()
	defer p.reset(m)

	if p.scanEntryName() == "" {
		return false
	}

	p.skipSpace(false)

	return p.peek() == '='
}

// atEnd reports whether the input at the current position is "&end" or
// "$end".
func (p *parser) atEnd() bool {
	if c := p.peek(); c != '&' && c != '$' {
		return false
	}

	rest := p.input[p.pos+1:]
	if len(rest) < 3 || !strings.EqualFold(string(rest[:3]), "end") {
		return false
	}

	return len(rest) == 3 || !isIdentByte(rest[3])
}

// skipSpace skips blanks and "!" comments, and line breaks if newlines is set.
func (p *parser) skipSpace(newlines bool) {
	for !p.eof() {
		switch p.peek() {
		case ' ', '\t', '\r':
			p.advance()
		case '\n':
			if !newlines {
				return
			}

			p.advance()
		case '!':
			for !p.eof() && p.peek() != '\n' {
				p.advance()
			}
		default:
			return
		}
	}
}

// word returns the token at the current position without consuming it: the
// run of bytes up to the next delimiter, or the delimiter itself.
func (p *parser) word() string {
	end := p.pos
	for end < len(p.input) && !isDelimiter(p.input[end]) {
		end++
	}

	if end == p.pos && end < len(p.input) && !isSpace(p.input[end]) {
		end++
	}

	return string(p.input[p.pos:end])
}

func (p *parser) errorAt(m position, reason, token string) *FormatError {
	return &FormatError{
		Line:   m.line,
		Column: m.col,
		Token:  token,
		Reason: reason,
		source: p.lineText(m.pos),
	}
}

// wrapAt attaches the position m to an error returned by the model, turning
// a *DuplicateNameError into a *FormatError with the given reason.
func (p *parser) wrapAt(m position, err error, dupReason string) error {
	if dup := (*DuplicateNameError)(nil); errors.As(err, &dup) {
		fe := p.errorAt(m, dupReason, dup.Name)
		fe.Err = err

		return fe
	}

	if fe := (*FormatError)(nil); errors.As(err, &fe) && fe.Line == 0 {
		pe := p.errorAt(m, fe.Reason, fe.Token)
		pe.Err = fe.Err

		return pe
	}

	return err
}

func (p *parser) lineText(pos int) string {
	start := bytes.LastIndexByte(p.input[:pos], '\n') + 1

	end := bytes.IndexByte(p.input[pos:], '\n')
	if end < 0 {
		end = len(p.input)
	} else {
		end += pos
	}

	return strings.TrimRight(string(p.input[start:end]), "\r")
}

// Helper methods

func (p *parser) eof() bool { return p.pos >= len(p.input) }

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}

	return p.input[p.pos]
}

func (p *parser) mark() position { return position{pos: p.pos, line: p.line, col: p.col} }

func (p *parser) reset(m position) { p.pos, p.line, p.col = m.pos, m.line, m.col }

func (p *parser) advance() {
	if p.eof() {
		return
	}

	r, size := utf8.DecodeRune(p.input[p.pos:])

	p.pos += size
	if r == '\n' {
		p.line++
		p.col = 1
	} else {
		p.col++
	}
}

// advanceN advances over n bytes.
func (p *parser) advanceN(n int) {
	for end := p.pos + n; p.pos < end && !p.eof(); {
		p.advance()
	}
}

func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }

func isIdentByte(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\r' || c == '\n' }

func isDelimiter(c byte) bool {
	switch c {
	case ',', '/', '!', '=':
		return true
	}

	return isSpace(c)
}
