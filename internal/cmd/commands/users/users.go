package users

import (
	"fmt"

	"github.com/mitchellh/cli"

	"github.com/canvas-tools/canvasctl/internal/cmd/base"
	"github.com/canvas-tools/canvasctl/pkg/apiclient"
	"github.com/canvas-tools/canvasctl/pkg/errcode"
)

type Command struct{}

func (c *Command) Synopsis() string {
	return "Work with workspace users"
}

func (c *Command) Help() string {
	return `Usage: canvasctl users <subcommand> [options] [args]

  This command groups subcommands for reading workspace users.`
}

func (c *Command) Run(args []string) int {
	return cli.RunResultHelp
}

type GetCommand struct {
	*base.Command
}

func (c *GetCommand) Synopsis() string {
	return "Retrieve a user"
}

func (c *GetCommand) Help() string {
	return `Usage: canvasctl users get <user-id>

  Retrieves a user object.` +
		c.Flags().Help()
}

func (c *GetCommand) Flags() *base.FlagSet {
	return c.NewFlagSet("users get")
}

func (c *GetCommand) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		return c.Fail("users get", errcode.New(errcode.InvalidArgument, err.Error()))
	}
	if len(f.Args()) != 1 {
		return c.Fail("users get",
			errcode.New(errcode.MissingArgument, "exactly one user ID is required"))
	}
	userID := f.Args()[0]

	return c.Execute("users get", f, false, func(rt *base.Runtime) (*base.Result, error) {
		return rt.Call(apiclient.Request{
			Method: "GET",
			Path:   fmt.Sprintf("/v1/users/%s", userID),
		})
	})
}

type ListCommand struct {
	*base.Command

	pageFlags base.PageFlags
}

func (c *ListCommand) Synopsis() string {
	return "List workspace users"
}

func (c *ListCommand) Help() string {
	return `Usage: canvasctl users list

  Lists every user in the workspace.` +
		c.Flags().Help()
}

func (c *ListCommand) Flags() *base.FlagSet {
	f := c.NewFlagSet("users list")
	c.pageFlags.Register(f)
	return f
}

func (c *ListCommand) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		return c.Fail("users list", errcode.New(errcode.InvalidArgument, err.Error()))
	}

	return c.Execute("users list", f, false, func(rt *base.Runtime) (*base.Result, error) {
		return rt.Paginate(base.PageRequest{
			Method: "GET",
			Path:   "/v1/users",
		}, c.pageFlags)
	})
}

type MeCommand struct {
	*base.Command
}

func (c *MeCommand) Synopsis() string {
	return "Retrieve the user behind the current token"
}

func (c *MeCommand) Help() string {
	return `Usage: canvasctl users me

  Retrieves the bot or person user the configured token belongs to. Useful
  as a cheap credential check.` +
		c.Flags().Help()
}

func (c *MeCommand) Flags() *base.FlagSet {
	return c.NewFlagSet("users me")
}

func (c *MeCommand) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		return c.Fail("users me", errcode.New(errcode.InvalidArgument, err.Error()))
	}

	return c.Execute("users me", f, false, func(rt *base.Runtime) (*base.Result, error) {
		return rt.Call(apiclient.Request{
			Method: "GET",
			Path:   "/v1/users/me",
		})
	})
}
