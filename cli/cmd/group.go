package cmd

import (
	"context"
	"fmt"

	"github.com/ardnew/nml/namelist"
)

// Group lists or edits the groups of a namelist file.
type Group struct {
	Ls  GroupLs  `cmd:"" default:"withargs" help:"List groups."`
	Add GroupAdd `cmd:""                    help:"Add an empty group (creates the file if needed)."`
	Rm  GroupRm  `cmd:""                    help:"Remove a group and its entries."`
}

// GroupLs prints the group names of a file, one per line.
type GroupLs struct {
	Entries bool `help:"Also list entry names." short:"e"`

	File string `arg:"" help:"Namelist file." type:"existingfile"`
}

// Run executes the group ls command.
func (c *GroupLs) Run(ctx context.Context) error {
	s, err := openSession(ctx, c.File, false)
	if err != nil {
		return err
	}

	w := stdout(ctx)

	for g := range s.Document().Groups() {
		fmt.Fprintln(w, g.Name())

		if c.Entries {
			for _, name := range g.EntryNames() {
				fmt.Fprintln(w, "  "+name)
			}
		}
	}

	return nil
}

// GroupAdd adds an empty group.
type GroupAdd struct {
	File string `arg:"" help:"Namelist file."    type:"path"`
	Name string `arg:"" help:"New group name."`
}

// Run executes the group add command.
func (c *GroupAdd) Run(ctx context.Context) error {
	return update(ctx, c.File, true, func(doc *namelist.Document) error {
		_, err := doc.AddGroup(c.Name)

		return err
	})
}

// GroupRm removes a group.
type GroupRm struct {
	File string `arg:"" help:"Namelist file."       type:"existingfile"`
	Name string `arg:"" help:"Group to remove."`
}

// Run executes the group rm command.
func (c *GroupRm) Run(ctx context.Context) error {
	return update(ctx, c.File, false, func(doc *namelist.Document) error {
		return doc.RemoveGroup(c.Name)
	})
}
