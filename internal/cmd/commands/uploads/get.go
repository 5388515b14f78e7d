package uploads

import (
	"fmt"
	"net/url"

	"github.com/canvas-tools/canvasctl/internal/cmd/base"
	"github.com/canvas-tools/canvasctl/pkg/apiclient"
	"github.com/canvas-tools/canvasctl/pkg/errcode"
)

type GetCommand struct {
	*base.Command
}

func (c *GetCommand) Synopsis() string {
	return "Retrieve a file upload"
}

func (c *GetCommand) Help() string {
	return `Usage: canvasctl uploads get <upload-id>

  Retrieves a file upload object with its current status.` +
		c.Flags().Help()
}

func (c *GetCommand) Flags() *base.FlagSet {
	return c.NewFlagSet("uploads get")
}

func (c *GetCommand) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		return c.Fail("uploads get", errcode.New(errcode.InvalidArgument, err.Error()))
	}
	if len(f.Args()) != 1 {
		return c.Fail("uploads get",
			errcode.New(errcode.MissingArgument, "exactly one upload ID is required"))
	}
	id := f.Args()[0]

	return c.Execute("uploads get", f, false, func(rt *base.Runtime) (*base.Result, error) {
		return rt.Call(apiclient.Request{
			Method: "GET",
			Path:   fmt.Sprintf("/v1/file_uploads/%s", id),
		})
	})
}

type ListCommand struct {
	*base.Command

	flagStatus string
	pageFlags  base.PageFlags
}

func (c *ListCommand) Synopsis() string {
	return "List file uploads"
}

func (c *ListCommand) Help() string {
	return `Usage: canvasctl uploads list

  Lists the file uploads created by the current token.` +
		c.Flags().Help()
}

func (c *ListCommand) Flags() *base.FlagSet {
	f := c.NewFlagSet("uploads list")
	f.StringVar(&c.flagStatus, "status", "",
		"Filter by upload status, e.g. pending or uploaded.")
	c.pageFlags.Register(f)
	return f
}

func (c *ListCommand) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		return c.Fail("uploads list", errcode.New(errcode.InvalidArgument, err.Error()))
	}

	return c.Execute("uploads list", f, false, func(rt *base.Runtime) (*base.Result, error) {
		q := url.Values{}
		if c.flagStatus != "" {
			q.Set("status", c.flagStatus)
		}
		return rt.Paginate(base.PageRequest{
			Method: "GET",
			Path:   "/v1/file_uploads",
			Query:  q,
		}, c.pageFlags)
	})
}
