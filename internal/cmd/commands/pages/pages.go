package pages

import (
	"github.com/mitchellh/cli"
)

type Command struct{}

func (c *Command) Synopsis() string {
	return "Work with pages"
}

func (c *Command) Help() string {
	return `Usage: canvasctl pages <subcommand> [options] [args]

  This command groups subcommands for reading and mutating pages.`
}

func (c *Command) Run(args []string) int {
	return cli.RunResultHelp
}
