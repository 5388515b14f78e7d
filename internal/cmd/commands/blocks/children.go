package blocks

import (
	"fmt"

	"github.com/canvas-tools/canvasctl/internal/cmd/base"
	"github.com/canvas-tools/canvasctl/pkg/canvasid"
	"github.com/canvas-tools/canvasctl/pkg/errcode"
)

type ChildrenCommand struct {
	*base.Command

	pageFlags base.PageFlags
}

func (c *ChildrenCommand) Synopsis() string {
	return "List the children of a block"
}

func (c *ChildrenCommand) Help() string {
	return `Usage: canvasctl blocks children <block-id>

  Lists the direct children of a block in document order. Use -stream to
  emit one NDJSON line per child instead of a single envelope.` +
		c.Flags().Help()
}

func (c *ChildrenCommand) Flags() *base.FlagSet {
	f := c.NewFlagSet("blocks children")
	c.pageFlags.Register(f)
	return f
}

func (c *ChildrenCommand) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		return c.Fail("blocks children", errcode.New(errcode.InvalidArgument, err.Error()))
	}
	if len(f.Args()) != 1 {
		return c.Fail("blocks children",
			errcode.New(errcode.MissingArgument, "exactly one block ID is required"))
	}
	blockID, err := canvasid.Normalize(f.Args()[0])
	if err != nil {
		return c.Fail("blocks children", err)
	}

	return c.Execute("blocks children", f, false, func(rt *base.Runtime) (*base.Result, error) {
		return rt.Paginate(base.PageRequest{
			Method: "GET",
			Path:   fmt.Sprintf("/v1/blocks/%s/children", blockID),
		}, c.pageFlags)
	})
}
