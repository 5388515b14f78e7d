package blocks

import (
	"github.com/mitchellh/cli"
)

type Command struct{}

func (c *Command) Synopsis() string {
	return "Work with content blocks"
}

func (c *Command) Help() string {
	return `Usage: canvasctl blocks <subcommand> [options] [args]

  This command groups subcommands for reading and mutating the block tree
  of a page.`
}

func (c *Command) Run(args []string) int {
	return cli.RunResultHelp
}
