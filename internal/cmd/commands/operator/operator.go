package operator

import (
	"github.com/mitchellh/cli"

	"github.com/apigovau/service-catalogue/internal/cmd/base"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Perform operator-specific tasks"
}

func (c *Command) Help() string {
	return `Usage: service-catalogue operator <subcommand> [options] [args]

  This command groups subcommands for operators of the service catalogue.`
}

func (c *Command) Run(args []string) int {
	return cli.RunResultHelp
}
