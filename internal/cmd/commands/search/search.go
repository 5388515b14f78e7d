package search

import (
	"github.com/mitchellh/cli"

	"github.com/canvas-tools/canvasctl/internal/cmd/base"
	"github.com/canvas-tools/canvasctl/pkg/errcode"
)

type Command struct{}

func (c *Command) Synopsis() string {
	return "Search the workspace"
}

func (c *Command) Help() string {
	return `Usage: canvasctl search <subcommand> [options] [args]

  This command groups workspace search subcommands.`
}

func (c *Command) Run(args []string) int {
	return cli.RunResultHelp
}

type QueryCommand struct {
	*base.Command

	flagObject string
	flagSort   string
	pageFlags  base.PageFlags
}

func (c *QueryCommand) Synopsis() string {
	return "Search pages and databases by title"
}

func (c *QueryCommand) Help() string {
	return `Usage: canvasctl search query [<text>]

  Searches every page and database shared with the token by title. With no
  text argument, all accessible objects are returned.` +
		c.Flags().Help()
}

func (c *QueryCommand) Flags() *base.FlagSet {
	f := c.NewFlagSet("search query")

	f.StringVar(&c.flagObject, "object", "",
		"Restrict results to \"page\" or \"database\".")
	f.StringVar(&c.flagSort, "sort", "",
		"Sort by last edited time: \"ascending\" or \"descending\".")
	c.pageFlags.Register(f)

	return f
}

func (c *QueryCommand) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		return c.Fail("search query", errcode.New(errcode.InvalidArgument, err.Error()))
	}
	if len(f.Args()) > 1 {
		return c.Fail("search query",
			errcode.New(errcode.InvalidArgument, "at most one query text argument is allowed"))
	}
	if c.flagObject != "" && c.flagObject != "page" && c.flagObject != "database" {
		return c.Fail("search query",
			errcode.New(errcode.InvalidArgument, "object must be \"page\" or \"database\""))
	}
	if c.flagSort != "" && c.flagSort != "ascending" && c.flagSort != "descending" {
		return c.Fail("search query",
			errcode.New(errcode.InvalidArgument, "sort must be \"ascending\" or \"descending\""))
	}

	return c.Execute("search query", f, false, func(rt *base.Runtime) (*base.Result, error) {
		body := map[string]any{}
		if len(f.Args()) == 1 {
			body["query"] = f.Args()[0]
		}
		if c.flagObject != "" {
			body["filter"] = map[string]any{"property": "object", "value": c.flagObject}
		}
		if c.flagSort != "" {
			body["sort"] = map[string]any{
				"timestamp": "last_edited_time",
				"direction": c.flagSort,
			}
		}
		return rt.Paginate(base.PageRequest{
			Method: "POST",
			Path:   "/v1/search",
			Body:   body,
		}, c.pageFlags)
	})
}
