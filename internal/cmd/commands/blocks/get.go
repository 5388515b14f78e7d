package blocks

import (
	"fmt"

	"github.com/canvas-tools/canvasctl/internal/cmd/base"
	"github.com/canvas-tools/canvasctl/pkg/apiclient"
	"github.com/canvas-tools/canvasctl/pkg/canvasid"
	"github.com/canvas-tools/canvasctl/pkg/errcode"
)

type GetCommand struct {
	*base.Command
}

func (c *GetCommand) Synopsis() string {
	return "Retrieve a block"
}

func (c *GetCommand) Help() string {
	return `Usage: canvasctl blocks get <block-id>

  Retrieves a single block object.` +
		c.Flags().Help()
}

func (c *GetCommand) Flags() *base.FlagSet {
	return c.NewFlagSet("blocks get")
}

func (c *GetCommand) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		return c.Fail("blocks get", errcode.New(errcode.InvalidArgument, err.Error()))
	}
	if len(f.Args()) != 1 {
		return c.Fail("blocks get",
			errcode.New(errcode.MissingArgument, "exactly one block ID is required"))
	}
	blockID, err := canvasid.Normalize(f.Args()[0])
	if err != nil {
		return c.Fail("blocks get", err)
	}

	return c.Execute("blocks get", f, false, func(rt *base.Runtime) (*base.Result, error) {
		return rt.Call(apiclient.Request{
			Method: "GET",
			Path:   fmt.Sprintf("/v1/blocks/%s", blockID),
		})
	})
}
