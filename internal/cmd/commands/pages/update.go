package pages

import (
	"fmt"

	"github.com/canvas-tools/canvasctl/internal/cmd/base"
	"github.com/canvas-tools/canvasctl/pkg/apiclient"
	"github.com/canvas-tools/canvasctl/pkg/canvasid"
	"github.com/canvas-tools/canvasctl/pkg/errcode"
)

type UpdateCommand struct {
	*base.Command

	flagBody           string
	flagDryRun         bool
	flagIdempotencyKey string
}

func (c *UpdateCommand) Synopsis() string {
	return "Update page properties"
}

func (c *UpdateCommand) Help() string {
	return `Usage: canvasctl pages update <page-id> -body=<document>

  Updates the properties of an existing page. Only the properties named in
  the body document change.` +
		c.Flags().Help()
}

func (c *UpdateCommand) Flags() *base.FlagSet {
	f := c.NewFlagSet("pages update")

	f.StringVar(&c.flagBody, "body", "",
		"(Required) Patch document: inline JSON, @file, or \"-\" for stdin.")
	f.BoolVar(&c.flagDryRun, "dry-run", false,
		"Validate and report the request without sending it.")
	f.StringVar(&c.flagIdempotencyKey, "idempotency-key", "",
		"Idempotency-Key header value; \"auto\" generates a fresh UUID.")

	return f
}

func (c *UpdateCommand) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		return c.Fail("pages update", errcode.New(errcode.InvalidArgument, err.Error()))
	}
	if len(f.Args()) != 1 {
		return c.Fail("pages update",
			errcode.New(errcode.MissingArgument, "exactly one page ID is required"))
	}
	if c.flagBody == "" {
		return c.Fail("pages update",
			errcode.New(errcode.MissingArgument, "the -body flag is required"))
	}
	pageID, err := canvasid.Normalize(f.Args()[0])
	if err != nil {
		return c.Fail("pages update", err)
	}

	usesStdin := base.UsesStdin(c.flagBody)
	return c.Execute("pages update", f, usesStdin, func(rt *base.Runtime) (*base.Result, error) {
		doc, err := rt.Document(c.flagBody)
		if err != nil {
			return nil, err
		}
		req := apiclient.Request{
			Method:         "PATCH",
			Path:           fmt.Sprintf("/v1/pages/%s", pageID),
			JSON:           doc,
			IdempotencyKey: base.IdempotencyKey(c.flagIdempotencyKey),
		}
		if c.flagDryRun {
			return base.DryRun(req)
		}
		return rt.Call(req)
	})
}
