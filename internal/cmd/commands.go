package cmd

import (
	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/apigovau/service-catalogue/internal/cmd/base"
	"github.com/apigovau/service-catalogue/internal/cmd/commands/operator"
	"github.com/apigovau/service-catalogue/internal/cmd/commands/server"
	versioncmd "github.com/apigovau/service-catalogue/internal/cmd/commands/version"
)

// Commands is the mapping of all available CLI commands.
var Commands map[string]cli.CommandFactory

func initCommands(log hclog.Logger, ui cli.Ui) {
	baseCommand := base.NewCommand(log, ui)

	Commands = map[string]cli.CommandFactory{
		"server": func() (cli.Command, error) {
			return &server.Command{Command: baseCommand}, nil
		},
		"operator": func() (cli.Command, error) {
			return &operator.Command{Command: baseCommand}, nil
		},
		"operator export": func() (cli.Command, error) {
			return &operator.ExportCommand{Command: baseCommand}, nil
		},
		"version": func() (cli.Command, error) {
			return &versioncmd.Command{Command: baseCommand}, nil
		},
	}
}
