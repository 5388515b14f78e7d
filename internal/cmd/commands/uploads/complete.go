package uploads

import (
	"encoding/json"
	"fmt"

	"github.com/canvas-tools/canvasctl/internal/cmd/base"
	"github.com/canvas-tools/canvasctl/pkg/apiclient"
	"github.com/canvas-tools/canvasctl/pkg/errcode"
	"github.com/canvas-tools/canvasctl/pkg/ops"
)

type CompleteCommand struct {
	*base.Command
}

func (c *CompleteCommand) Synopsis() string {
	return "Complete a multi-part file upload"
}

func (c *CompleteCommand) Help() string {
	return `Usage: canvasctl uploads complete <upload-id>

  Marks a multi-part upload as fully sent. The upload's operation receipt
  moves to COMPLETED.` +
		c.Flags().Help()
}

func (c *CompleteCommand) Flags() *base.FlagSet {
	return c.NewFlagSet("uploads complete")
}

func (c *CompleteCommand) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		return c.Fail("uploads complete", errcode.New(errcode.InvalidArgument, err.Error()))
	}
	if len(f.Args()) != 1 {
		return c.Fail("uploads complete",
			errcode.New(errcode.MissingArgument, "exactly one upload ID is required"))
	}
	id := f.Args()[0]

	return c.Execute("uploads complete", f, false, func(rt *base.Runtime) (*base.Result, error) {
		resp, err := rt.Client.Do(rt.Ctx, apiclient.Request{
			Method: "POST",
			Path:   fmt.Sprintf("/v1/file_uploads/%s/complete", id),
		})
		if err != nil {
			return nil, err
		}
		var raw json.RawMessage
		if err := resp.Decode(&raw); err != nil {
			return nil, err
		}

		res := &base.Result{Data: raw}
		advanceReceipt(rt, res, id, ops.Update{Status: ops.StatusCompleted})
		return res, nil
	})
}
