package databases

import (
	"github.com/mitchellh/cli"
)

type Command struct{}

func (c *Command) Synopsis() string {
	return "Work with databases"
}

func (c *Command) Help() string {
	return `Usage: canvasctl databases <subcommand> [options] [args]

  This command groups subcommands for reading, mutating and querying
  databases.`
}

func (c *Command) Run(args []string) int {
	return cli.RunResultHelp
}
