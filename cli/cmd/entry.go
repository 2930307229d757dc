package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/ardnew/nml/namelist"
)

// Entry reads or edits the entries of a namelist group.
type Entry struct {
	Get EntryGet `cmd:"" help:"Print an entry value."`
	Add EntryAdd `cmd:"" help:"Add an entry to a group."`
	Set EntrySet `cmd:"" help:"Replace the value of an entry."`
	Rm  EntryRm  `cmd:"" help:"Remove an entry."`
}

// EntryGet prints the value text of an entry.
type EntryGet struct {
	File  string `arg:"" help:"Namelist file." type:"existingfile"`
	Group string `arg:"" help:"Group name."`
	Name  string `arg:"" help:"Entry name."`
}

// Run executes the entry get command.
func (c *EntryGet) Run(ctx context.Context) error {
	s, err := openSession(ctx, c.File, false)
	if err != nil {
		return err
	}

	e, err := s.Document().Entry(c.Group, c.Name)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(stdout(ctx), e.Text())

	return err
}

// EntryAdd adds an entry to an existing group.
type EntryAdd struct {
	File  string   `arg:"" help:"Namelist file."                                      type:"existingfile"`
	Group string   `arg:"" help:"Group name."`
	Name  string   `arg:"" help:"New entry name."`
	Value []string `arg:"" help:"Value; several arguments form a list, e.g. 1 2 3."`
}

// Run executes the entry add command.
func (c *EntryAdd) Run(ctx context.Context) error {
	v, err := parseValue(ctx, c.Value)
	if err != nil {
		return err
	}

	return update(ctx, c.File, false, func(doc *namelist.Document) error {
		g, ok := doc.Group(c.Group)
		if !ok {
			return &namelist.NotFoundError{Target: namelist.TargetGroup, Name: c.Group}
		}

		_, err := g.AddEntry(c.Name, v)

		return err
	})
}

// EntrySet replaces the value of an existing entry.
type EntrySet struct {
	File  string   `arg:"" help:"Namelist file."                                      type:"existingfile"`
	Group string   `arg:"" help:"Group name."`
	Name  string   `arg:"" help:"Entry name."`
	Value []string `arg:"" help:"Value; several arguments form a list, e.g. 1 2 3."`
}

// Run executes the entry set command.
func (c *EntrySet) Run(ctx context.Context) error {
	v, err := parseValue(ctx, c.Value)
	if err != nil {
		return err
	}

	return update(ctx, c.File, false, func(doc *namelist.Document) error {
		e, err := doc.Entry(c.Group, c.Name)
		if err != nil {
			return err
		}

		return e.SetValue(v)
	})
}

// EntryRm removes an entry.
type EntryRm struct {
	File  string `arg:"" help:"Namelist file."   type:"existingfile"`
	Group string `arg:"" help:"Group name."`
	Name  string `arg:"" help:"Entry to remove."`
}

// Run executes the entry rm command.
func (c *EntryRm) Run(ctx context.Context) error {
	return update(ctx, c.File, false, func(doc *namelist.Document) error {
		g, ok := doc.Group(c.Group)
		if !ok {
			return &namelist.NotFoundError{Target: namelist.TargetGroup, Name: c.Group}
		}

		return g.RemoveEntry(c.Name)
	})
}

// parseValue parses command arguments as one value list.
func parseValue(ctx context.Context, args []string) (namelist.Value, error) {
	v, err := namelist.ParseValue(strings.Join(args, " "))
	if err != nil {
		reportFormat(ctx, err)

		return nil, err
	}

	return v, nil
}
