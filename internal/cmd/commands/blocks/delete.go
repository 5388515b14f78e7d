package blocks

import (
	"fmt"

	"github.com/canvas-tools/canvasctl/internal/cmd/base"
	"github.com/canvas-tools/canvasctl/pkg/apiclient"
	"github.com/canvas-tools/canvasctl/pkg/canvasid"
	"github.com/canvas-tools/canvasctl/pkg/errcode"
)

type DeleteCommand struct {
	*base.Command

	flagDryRun bool
}

func (c *DeleteCommand) Synopsis() string {
	return "Delete a block"
}

func (c *DeleteCommand) Help() string {
	return `Usage: canvasctl blocks delete <block-id>

  Moves a block to the trash. The block can be restored through the
  workspace UI within the retention window.` +
		c.Flags().Help()
}

func (c *DeleteCommand) Flags() *base.FlagSet {
	f := c.NewFlagSet("blocks delete")
	f.BoolVar(&c.flagDryRun, "dry-run", false,
		"Validate and report the request without sending it.")
	return f
}

func (c *DeleteCommand) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		return c.Fail("blocks delete", errcode.New(errcode.InvalidArgument, err.Error()))
	}
	if len(f.Args()) != 1 {
		return c.Fail("blocks delete",
			errcode.New(errcode.MissingArgument, "exactly one block ID is required"))
	}
	blockID, err := canvasid.Normalize(f.Args()[0])
	if err != nil {
		return c.Fail("blocks delete", err)
	}

	return c.Execute("blocks delete", f, false, func(rt *base.Runtime) (*base.Result, error) {
		req := apiclient.Request{
			Method: "DELETE",
			Path:   fmt.Sprintf("/v1/blocks/%s", blockID),
		}
		if c.flagDryRun {
			return base.DryRun(req)
		}
		return rt.Call(req)
	})
}
