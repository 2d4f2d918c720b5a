package version

import (
	"github.com/apigovau/service-catalogue/internal/cmd/base"
	"github.com/apigovau/service-catalogue/internal/version"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Print the version"
}

func (c *Command) Help() string {
	return "Usage: service-catalogue version"
}

func (c *Command) Run(args []string) int {
	c.UI.Output(version.Version)
	return 0
}
