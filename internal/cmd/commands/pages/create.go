package pages

import (
	"github.com/canvas-tools/canvasctl/internal/cmd/base"
	"github.com/canvas-tools/canvasctl/pkg/apiclient"
	"github.com/canvas-tools/canvasctl/pkg/errcode"
)

type CreateCommand struct {
	*base.Command

	flagBody           string
	flagDryRun         bool
	flagIdempotencyKey string
}

func (c *CreateCommand) Synopsis() string {
	return "Create a page"
}

func (c *CreateCommand) Help() string {
	return `Usage: canvasctl pages create -body=<document>

  Creates a page. The body document carries the parent reference and the
  initial properties; pass inline JSON, @file (JSON or YAML), or "-" to
  read it from stdin.` +
		c.Flags().Help()
}

func (c *CreateCommand) Flags() *base.FlagSet {
	f := c.NewFlagSet("pages create")

	f.StringVar(&c.flagBody, "body", "",
		"(Required) Page document: inline JSON, @file, or \"-\" for stdin.")
	f.BoolVar(&c.flagDryRun, "dry-run", false,
		"Validate and report the request without sending it.")
	f.StringVar(&c.flagIdempotencyKey, "idempotency-key", "",
		"Idempotency-Key header value; \"auto\" generates a fresh UUID.")

	return f
}

func (c *CreateCommand) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		return c.Fail("pages create", errcode.New(errcode.InvalidArgument, err.Error()))
	}
	if c.flagBody == "" {
		return c.Fail("pages create",
			errcode.New(errcode.MissingArgument, "the -body flag is required"))
	}

	usesStdin := base.UsesStdin(c.flagBody)
	return c.Execute("pages create", f, usesStdin, func(rt *base.Runtime) (*base.Result, error) {
		doc, err := rt.Document(c.flagBody)
		if err != nil {
			return nil, err
		}
		req := apiclient.Request{
			Method:         "POST",
			Path:           "/v1/pages",
			JSON:           doc,
			IdempotencyKey: base.IdempotencyKey(c.flagIdempotencyKey),
		}
		if c.flagDryRun {
			return base.DryRun(req)
		}
		return rt.Call(req)
	})
}
