package pages

import (
	"fmt"

	"github.com/canvas-tools/canvasctl/internal/cmd/base"
	"github.com/canvas-tools/canvasctl/pkg/canvasid"
	"github.com/canvas-tools/canvasctl/pkg/errcode"
)

type PropertyCommand struct {
	*base.Command

	pageFlags base.PageFlags
}

func (c *PropertyCommand) Synopsis() string {
	return "Retrieve a page property item"
}

func (c *PropertyCommand) Help() string {
	return `Usage: canvasctl pages property <page-id> <property-id>

  Retrieves the items of a single page property. Multi-valued properties
  (relations, people, rich text) are paginated; use -stream to emit one
  NDJSON line per item.` +
		c.Flags().Help()
}

func (c *PropertyCommand) Flags() *base.FlagSet {
	f := c.NewFlagSet("pages property")
	c.pageFlags.Register(f)
	return f
}

func (c *PropertyCommand) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		return c.Fail("pages property", errcode.New(errcode.InvalidArgument, err.Error()))
	}
	if len(f.Args()) != 2 {
		return c.Fail("pages property",
			errcode.New(errcode.MissingArgument, "a page ID and a property ID are required"))
	}
	pageID, err := canvasid.Normalize(f.Args()[0])
	if err != nil {
		return c.Fail("pages property", err)
	}
	propertyID := f.Args()[1]

	return c.Execute("pages property", f, false, func(rt *base.Runtime) (*base.Result, error) {
		return rt.Paginate(base.PageRequest{
			Method: "GET",
			Path:   fmt.Sprintf("/v1/pages/%s/properties/%s", pageID, propertyID),
		}, c.pageFlags)
	})
}
