package pages

import (
	"fmt"
	"net/url"

	"github.com/canvas-tools/canvasctl/internal/cmd/base"
	"github.com/canvas-tools/canvasctl/pkg/apiclient"
	"github.com/canvas-tools/canvasctl/pkg/canvasid"
	"github.com/canvas-tools/canvasctl/pkg/errcode"
)

type GetCommand struct {
	*base.Command

	flagFilterProperties string
}

func (c *GetCommand) Synopsis() string {
	return "Retrieve a page"
}

func (c *GetCommand) Help() string {
	return `Usage: canvasctl pages get <page-id>

  Retrieves a page object, including its property values.` +
		c.Flags().Help()
}

func (c *GetCommand) Flags() *base.FlagSet {
	f := c.NewFlagSet("pages get")

	f.StringVar(&c.flagFilterProperties, "filter-properties", "",
		"Comma-separated property IDs to limit the returned properties to.")

	return f
}

func (c *GetCommand) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		return c.Fail("pages get", errcode.New(errcode.InvalidArgument, err.Error()))
	}
	if len(f.Args()) != 1 {
		return c.Fail("pages get",
			errcode.New(errcode.MissingArgument, "exactly one page ID is required"))
	}
	pageID, err := canvasid.Normalize(f.Args()[0])
	if err != nil {
		return c.Fail("pages get", err)
	}

	return c.Execute("pages get", f, false, func(rt *base.Runtime) (*base.Result, error) {
		q := url.Values{}
		if c.flagFilterProperties != "" {
			q.Set("filter_properties", c.flagFilterProperties)
		}
		return rt.Call(apiclient.Request{
			Method: "GET",
			Path:   fmt.Sprintf("/v1/pages/%s", pageID),
			Query:  q,
		})
	})
}
