package databases

import (
	"fmt"

	"github.com/canvas-tools/canvasctl/internal/cmd/base"
	"github.com/canvas-tools/canvasctl/pkg/apiclient"
	"github.com/canvas-tools/canvasctl/pkg/canvasid"
	"github.com/canvas-tools/canvasctl/pkg/errcode"
)

type CreateCommand struct {
	*base.Command

	flagBody           string
	flagDryRun         bool
	flagIdempotencyKey string
}

func (c *CreateCommand) Synopsis() string {
	return "Create a database"
}

func (c *CreateCommand) Help() string {
	return `Usage: canvasctl databases create -body=<document>

  Creates a database under a parent page. The body document carries the
  parent reference, the title and the property schema.` +
		c.Flags().Help()
}

func (c *CreateCommand) Flags() *base.FlagSet {
	f := c.NewFlagSet("databases create")

	f.StringVar(&c.flagBody, "body", "",
		"(Required) Database document: inline JSON, @file, or \"-\" for stdin.")
	f.BoolVar(&c.flagDryRun, "dry-run", false,
		"Validate and report the request without sending it.")
	f.StringVar(&c.flagIdempotencyKey, "idempotency-key", "",
		"Idempotency-Key header value; \"auto\" generates a fresh UUID.")

	return f
}

func (c *CreateCommand) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		return c.Fail("databases create", errcode.New(errcode.InvalidArgument, err.Error()))
	}
	if c.flagBody == "" {
		return c.Fail("databases create",
			errcode.New(errcode.MissingArgument, "the -body flag is required"))
	}

	usesStdin := base.UsesStdin(c.flagBody)
	return c.Execute("databases create", f, usesStdin, func(rt *base.Runtime) (*base.Result, error) {
		doc, err := rt.Document(c.flagBody)
		if err != nil {
			return nil, err
		}
		req := apiclient.Request{
			Method:         "POST",
			Path:           "/v1/databases",
			JSON:           doc,
			IdempotencyKey: base.IdempotencyKey(c.flagIdempotencyKey),
		}
		if c.flagDryRun {
			return base.DryRun(req)
		}
		return rt.Call(req)
	})
}

type UpdateCommand struct {
	*base.Command

	flagBody   string
	flagDryRun bool
}

func (c *UpdateCommand) Synopsis() string {
	return "Update a database"
}

func (c *UpdateCommand) Help() string {
	return `Usage: canvasctl databases update <database-id> -body=<document>

  Updates the title, description or property schema of a database.` +
		c.Flags().Help()
}

func (c *UpdateCommand) Flags() *base.FlagSet {
	f := c.NewFlagSet("databases update")

	f.StringVar(&c.flagBody, "body", "",
		"(Required) Patch document: inline JSON, @file, or \"-\" for stdin.")
	f.BoolVar(&c.flagDryRun, "dry-run", false,
		"Validate and report the request without sending it.")

	return f
}

func (c *UpdateCommand) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		return c.Fail("databases update", errcode.New(errcode.InvalidArgument, err.Error()))
	}
	if len(f.Args()) != 1 {
		return c.Fail("databases update",
			errcode.New(errcode.MissingArgument, "exactly one database ID is required"))
	}
	if c.flagBody == "" {
		return c.Fail("databases update",
			errcode.New(errcode.MissingArgument, "the -body flag is required"))
	}
	databaseID, err := canvasid.Normalize(f.Args()[0])
	if err != nil {
		return c.Fail("databases update", err)
	}

	usesStdin := base.UsesStdin(c.flagBody)
	return c.Execute("databases update", f, usesStdin, func(rt *base.Runtime) (*base.Result, error) {
		doc, err := rt.Document(c.flagBody)
		if err != nil {
			return nil, err
		}
		req := apiclient.Request{
			Method: "PATCH",
			Path:   fmt.Sprintf("/v1/databases/%s", databaseID),
			JSON:   doc,
		}
		if c.flagDryRun {
			return base.DryRun(req)
		}
		return rt.Call(req)
	})
}
