package databases

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
	return "Retrieve a database"
}

func (c *GetCommand) Help() string {
	return `Usage: canvasctl databases get <database-id>

  Retrieves a database object, including its schema.` +
		c.Flags().Help()
}

func (c *GetCommand) Flags() *base.FlagSet {
	return c.NewFlagSet("databases get")
}

func (c *GetCommand) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		return c.Fail("databases get", errcode.New(errcode.InvalidArgument, err.Error()))
	}
	if len(f.Args()) != 1 {
		return c.Fail("databases get",
			errcode.New(errcode.MissingArgument, "exactly one database ID is required"))
	}
	databaseID, err := canvasid.Normalize(f.Args()[0])
	if err != nil {
		return c.Fail("databases get", err)
	}

	return c.Execute("databases get", f, false, func(rt *base.Runtime) (*base.Result, error) {
		return rt.Call(apiclient.Request{
			Method: "GET",
			Path:   fmt.Sprintf("/v1/databases/%s", databaseID),
		})
	})
}
