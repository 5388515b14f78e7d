package pages

import (
	"fmt"

	"github.com/canvas-tools/canvasctl/internal/cmd/base"
	"github.com/canvas-tools/canvasctl/pkg/apiclient"
	"github.com/canvas-tools/canvasctl/pkg/canvasid"
	"github.com/canvas-tools/canvasctl/pkg/errcode"
)

// Archive and restore are the same PATCH with the archived bit flipped.

type ArchiveCommand struct {
	*base.Command

	flagDryRun bool
}

func (c *ArchiveCommand) Synopsis() string {
	return "Archive a page"
}

func (c *ArchiveCommand) Help() string {
	return `Usage: canvasctl pages archive <page-id>

  Moves a page to the archive. Archived pages stay retrievable and can be
  restored with "pages restore".` +
		c.Flags().Help()
}

func (c *ArchiveCommand) Flags() *base.FlagSet {
	f := c.NewFlagSet("pages archive")
	f.BoolVar(&c.flagDryRun, "dry-run", false,
		"Validate and report the request without sending it.")
	return f
}

func (c *ArchiveCommand) Run(args []string) int {
	return runArchived(c.Command, c.Flags(), "pages archive", args, true, &c.flagDryRun)
}

type RestoreCommand struct {
	*base.Command

	flagDryRun bool
}

func (c *RestoreCommand) Synopsis() string {
	return "Restore an archived page"
}

func (c *RestoreCommand) Help() string {
	return `Usage: canvasctl pages restore <page-id>

  Restores a previously archived page.` +
		c.Flags().Help()
}

func (c *RestoreCommand) Flags() *base.FlagSet {
	f := c.NewFlagSet("pages restore")
	f.BoolVar(&c.flagDryRun, "dry-run", false,
		"Validate and report the request without sending it.")
	return f
}

func (c *RestoreCommand) Run(args []string) int {
	return runArchived(c.Command, c.Flags(), "pages restore", args, false, &c.flagDryRun)
}

// dryRun is a pointer because its value only exists after Parse runs.
func runArchived(c *base.Command, f *base.FlagSet, name string, args []string, archived bool, dryRun *bool) int {
	if err := f.Parse(args); err != nil {
		return c.Fail(name, errcode.New(errcode.InvalidArgument, err.Error()))
	}
	if len(f.Args()) != 1 {
		return c.Fail(name,
			errcode.New(errcode.MissingArgument, "exactly one page ID is required"))
	}
	pageID, err := canvasid.Normalize(f.Args()[0])
	if err != nil {
		return c.Fail(name, err)
	}

	return c.Execute(name, f, false, func(rt *base.Runtime) (*base.Result, error) {
		req := apiclient.Request{
			Method: "PATCH",
			Path:   fmt.Sprintf("/v1/pages/%s", pageID),
			JSON:   map[string]any{"archived": archived},
		}
		if *dryRun {
			return base.DryRun(req)
		}
		return rt.Call(req)
	})
}
