package opscmd

import (
	"github.com/mitchellh/cli"
)

type Command struct{}

func (c *Command) Synopsis() string {
	return "Inspect asynchronous operations"
}

func (c *Command) Help() string {
	return `Usage: canvasctl ops <subcommand> [options] [args]

  This command groups subcommands over the local operation registry: the
  durable record of asynchronous operations started by earlier canvasctl
  invocations. Receipts are retained for 30 days after their last update.`
}

func (c *Command) Run(args []string) int {
	return cli.RunResultHelp
}
