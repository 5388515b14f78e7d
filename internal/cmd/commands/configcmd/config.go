// Package configcmd implements the config command group. The package is not
// named config to keep it distinct from pkg/config, which it manipulates.
package configcmd

import (
	"github.com/mitchellh/cli"
)

type Command struct{}

func (c *Command) Synopsis() string {
	return "Inspect and edit the configuration"
}

func (c *Command) Help() string {
	return `Usage: canvasctl config <subcommand> [options] [args]

  This command groups subcommands over the profiles file
  (~/.canvasctl/config.hcl) and the resolved runtime configuration.`
}

func (c *Command) Run(args []string) int {
	return cli.RunResultHelp
}
