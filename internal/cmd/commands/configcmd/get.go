package configcmd

import (
	"github.com/canvas-tools/canvasctl/internal/cmd/base"
	"github.com/canvas-tools/canvasctl/pkg/errcode"
)

type GetCommand struct {
	*base.Command
}

func (c *GetCommand) Synopsis() string {
	return "Show the resolved configuration"
}

func (c *GetCommand) Help() string {
	return `Usage: canvasctl config get

  Shows the configuration this invocation resolved to, after applying
  flags, environment variables, the selected profile and the built-in
  defaults. The token itself is never printed.` +
		c.Flags().Help()
}

func (c *GetCommand) Flags() *base.FlagSet {
	return c.NewFlagSet("config get")
}

func (c *GetCommand) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		return c.Fail("config get", errcode.New(errcode.InvalidArgument, err.Error()))
	}

	return c.Execute("config get", f, false, func(rt *base.Runtime) (*base.Result, error) {
		return &base.Result{Data: map[string]any{
			"base_url":    rt.Config.BaseURL,
			"api_version": rt.Config.APIVersion,
			"timeout":     rt.Config.Timeout.String(),
			"retries":     rt.Config.MaxRetries,
			"pretty":      rt.Config.Pretty,
			"profile":     rt.Config.Profile,
			"token_set":   rt.Config.Token != "",
		}}, nil
	})
}
