package oauth

import (
	"github.com/mitchellh/cli"
)

type Command struct{}

func (c *Command) Synopsis() string {
	return "Authorize canvasctl with a workspace"
}

func (c *Command) Help() string {
	return `Usage: canvasctl oauth <subcommand> [options] [args]

  This command groups the OAuth authorization-code subcommands for public
  integrations. Internal integrations can skip OAuth entirely and use a
  static token via -token, CANVAS_TOKEN or a profile.`
}

func (c *Command) Run(args []string) int {
	return cli.RunResultHelp
}
