package comments

import (
	"net/url"

	"github.com/mitchellh/cli"

	"github.com/canvas-tools/canvasctl/internal/cmd/base"
	"github.com/canvas-tools/canvasctl/pkg/apiclient"
	"github.com/canvas-tools/canvasctl/pkg/canvasid"
	"github.com/canvas-tools/canvasctl/pkg/errcode"
)

type Command struct{}

func (c *Command) Synopsis() string {
	return "Work with comments"
}

func (c *Command) Help() string {
	return `Usage: canvasctl comments <subcommand> [options] [args]

  This command groups subcommands for listing and creating comments on
  pages and blocks.`
}

func (c *Command) Run(args []string) int {
	return cli.RunResultHelp
}

type ListCommand struct {
	*base.Command

	pageFlags base.PageFlags
}

func (c *ListCommand) Synopsis() string {
	return "List the comments on a block or page"
}

func (c *ListCommand) Help() string {
	return `Usage: canvasctl comments list <block-id>

  Lists the open comment threads on a block or page.` +
		c.Flags().Help()
}

func (c *ListCommand) Flags() *base.FlagSet {
	f := c.NewFlagSet("comments list")
	c.pageFlags.Register(f)
	return f
}

func (c *ListCommand) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		return c.Fail("comments list", errcode.New(errcode.InvalidArgument, err.Error()))
	}
	if len(f.Args()) != 1 {
		return c.Fail("comments list",
			errcode.New(errcode.MissingArgument, "exactly one block or page ID is required"))
	}
	blockID, err := canvasid.Normalize(f.Args()[0])
	if err != nil {
		return c.Fail("comments list", err)
	}

	return c.Execute("comments list", f, false, func(rt *base.Runtime) (*base.Result, error) {
		return rt.Paginate(base.PageRequest{
			Method: "GET",
			Path:   "/v1/comments",
			Query:  url.Values{"block_id": []string{blockID}},
		}, c.pageFlags)
	})
}

type CreateCommand struct {
	*base.Command

	flagBody   string
	flagDryRun bool
}

func (c *CreateCommand) Synopsis() string {
	return "Create a comment"
}

func (c *CreateCommand) Help() string {
	return `Usage: canvasctl comments create -body=<document>

  Creates a comment on a page or adds to an existing discussion thread.
  The body document carries either a parent reference or a discussion ID,
  plus the rich-text content.` +
		c.Flags().Help()
}

func (c *CreateCommand) Flags() *base.FlagSet {
	f := c.NewFlagSet("comments create")

	f.StringVar(&c.flagBody, "body", "",
		"(Required) Comment document: inline JSON, @file, or \"-\" for stdin.")
	f.BoolVar(&c.flagDryRun, "dry-run", false,
		"Validate and report the request without sending it.")

	return f
}

func (c *CreateCommand) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		return c.Fail("comments create", errcode.New(errcode.InvalidArgument, err.Error()))
	}
	if c.flagBody == "" {
		return c.Fail("comments create",
			errcode.New(errcode.MissingArgument, "the -body flag is required"))
	}

	usesStdin := base.UsesStdin(c.flagBody)
	return c.Execute("comments create", f, usesStdin, func(rt *base.Runtime) (*base.Result, error) {
		doc, err := rt.Document(c.flagBody)
		if err != nil {
			return nil, err
		}
		req := apiclient.Request{
			Method: "POST",
			Path:   "/v1/comments",
			JSON:   doc,
		}
		if c.flagDryRun {
			return base.DryRun(req)
		}
		return rt.Call(req)
	})
}
