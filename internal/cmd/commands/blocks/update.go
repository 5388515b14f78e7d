package blocks

import (
	"fmt"

	"github.com/canvas-tools/canvasctl/internal/cmd/base"
	"github.com/canvas-tools/canvasctl/pkg/apiclient"
	"github.com/canvas-tools/canvasctl/pkg/canvasid"
	"github.com/canvas-tools/canvasctl/pkg/errcode"
)

type UpdateCommand struct {
	*base.Command

	flagBody   string
	flagDryRun bool
}

func (c *UpdateCommand) Synopsis() string {
	return "Update a block"
}

func (c *UpdateCommand) Help() string {
	return `Usage: canvasctl blocks update <block-id> -body=<document>

  Updates the content of a block. The body document carries the block-type
  payload to replace.` +
		c.Flags().Help()
}

func (c *UpdateCommand) Flags() *base.FlagSet {
	f := c.NewFlagSet("blocks update")

	f.StringVar(&c.flagBody, "body", "",
		"(Required) Patch document: inline JSON, @file, or \"-\" for stdin.")
	f.BoolVar(&c.flagDryRun, "dry-run", false,
		"Validate and report the request without sending it.")

	return f
}

func (c *UpdateCommand) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		return c.Fail("blocks update", errcode.New(errcode.InvalidArgument, err.Error()))
	}
	if len(f.Args()) != 1 {
		return c.Fail("blocks update",
			errcode.New(errcode.MissingArgument, "exactly one block ID is required"))
	}
	if c.flagBody == "" {
		return c.Fail("blocks update",
			errcode.New(errcode.MissingArgument, "the -body flag is required"))
	}
	blockID, err := canvasid.Normalize(f.Args()[0])
	if err != nil {
		return c.Fail("blocks update", err)
	}

	usesStdin := base.UsesStdin(c.flagBody)
	return c.Execute("blocks update", f, usesStdin, func(rt *base.Runtime) (*base.Result, error) {
		doc, err := rt.Document(c.flagBody)
		if err != nil {
			return nil, err
		}
		req := apiclient.Request{
			Method: "PATCH",
			Path:   fmt.Sprintf("/v1/blocks/%s", blockID),
			JSON:   doc,
		}
		if c.flagDryRun {
			return base.DryRun(req)
		}
		return rt.Call(req)
	})
}
