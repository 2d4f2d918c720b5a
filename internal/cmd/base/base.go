// Package base carries the plumbing shared by all CLI commands.
package base

import (
	"bytes"
	"flag"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
)

// Command is embedded in every CLI command.
type Command struct {
	// UI is the command line UI for user-facing output.
	UI cli.Ui

	// Log is the logger for the command.
	Log hclog.Logger
}

// NewCommand returns the base command plumbing.
func NewCommand(log hclog.Logger, ui cli.Ui) *Command {
	return &Command{
		UI:  ui,
		Log: log,
	}
}

// FlagSet wraps flag.FlagSet to render help text consistently.
type FlagSet struct {
	*flag.FlagSet
}

// NewFlagSet creates a new FlagSet.
func NewFlagSet(f *flag.FlagSet) *FlagSet {
	return &FlagSet{FlagSet: f}
}

// Help returns the formatted flag defaults for appending to command help.
func (f *FlagSet) Help() string {
	var buf bytes.Buffer
	buf.WriteString("\n\nOptions:\n\n")
	f.SetOutput(&buf)
	f.PrintDefaults()
	return buf.String()
}
