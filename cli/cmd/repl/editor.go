package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/nml/log"
	"github.com/ardnew/nml/namelist"
)

const defaultEditor = "vi"

// editCommand implements [tea.ExecCommand] for the edit-parse-retry loop.
// It writes the document to a temp file, opens the user's editor and parses
// the result. On a syntax error the user is asked whether to edit again;
// declining keeps the current document.
type editCommand struct {
	doc     *namelist.Document
	ctxFunc func() context.Context
	logger  log.Logger
	newDoc  *namelist.Document
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit loop. It leaves newDoc nil if the user emptied the
// file, and returns [ErrEditDeclined] if the user gave up on a file that
// does not parse.
func (c *editCommand) Run() error {
	ctx := c.ctxFunc()

	f, err := os.CreateTemp("", "nml-edit-*.nml")
	if err != nil {
		return err
	}

	path := f.Name()

	defer os.Remove(path)

	if err := f.Close(); err != nil {
		return err
	}

	content := c.doc.String()

	for {
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			return err
		}

		if err := runEditor(ctx, c.stdin, c.stdout, c.stderr, path); err != nil {
			return err
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		if strings.TrimSpace(string(data)) == "" {
			return nil
		}

		doc, parseErr := namelist.Parse(ctx, data,
			namelist.WithIndent(c.doc.Indent()),
			namelist.WithLogger(c.logger),
		)

		c.logger.TraceContext(ctx, "editor parse attempt",
			slog.Int("content_length", len(data)),
			slog.Bool("success", parseErr == nil))

		if parseErr == nil {
			c.newDoc = doc

			return nil
		}

		fmt.Fprintf(c.stderr, "\n%s\n", parseErr)

		var fe *namelist.FormatError
		if errors.As(parseErr, &fe) {
			fmt.Fprint(c.stderr, fe.Snippet())
		}

		fmt.Fprint(c.stdout, "Edit again? [Y/n] ")

		if !confirm(c.stdin) {
			return ErrEditDeclined
		}

		content = string(data)
	}
}

// confirm reads one answer line from r; anything but "n" or "no" is yes.
func confirm(r io.Reader) bool {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
	case "n", "no":
		return false
	default:
		return true
	}
}

// runEditor runs $EDITOR on path and waits for it to exit.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) error {
	args := strings.Fields(os.Getenv("EDITOR"))
	if len(args) == 0 {
		args = []string{defaultEditor}
	}

	cmd := exec.CommandContext(ctx, args[0], append(args[1:], path)...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return cmd.Run()
}
