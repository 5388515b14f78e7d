package opscmd

import (
	"github.com/canvas-tools/canvasctl/internal/cmd/base"
	"github.com/canvas-tools/canvasctl/pkg/errcode"
	"github.com/canvas-tools/canvasctl/pkg/ops"
)

type ListCommand struct {
	*base.Command

	flagType   string
	flagStatus string
}

func (c *ListCommand) Synopsis() string {
	return "List retained operation receipts"
}

func (c *ListCommand) Help() string {
	return `Usage: canvasctl ops list

  Lists the operation receipts retained in the local registry, oldest
  first.` +
		c.Flags().Help()
}

func (c *ListCommand) Flags() *base.FlagSet {
	f := c.NewFlagSet("ops list")

	f.StringVar(&c.flagType, "type", "", "Only receipts of this operation type.")
	f.StringVar(&c.flagStatus, "status", "",
		"Only receipts in this status: PENDING, IN_PROGRESS, COMPLETED or FAILED.")

	return f
}

func (c *ListCommand) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		return c.Fail("ops list", errcode.New(errcode.InvalidArgument, err.Error()))
	}

	return c.Execute("ops list", f, false, func(rt *base.Runtime) (*base.Result, error) {
		receipts, err := rt.Registry.List()
		if err != nil {
			return nil, err
		}

		filtered := make([]ops.Receipt, 0, len(receipts))
		for _, r := range receipts {
			if c.flagType != "" && r.Type != c.flagType {
				continue
			}
			if c.flagStatus != "" && string(r.Status) != c.flagStatus {
				continue
			}
			filtered = append(filtered, r)
		}

		return &base.Result{Data: base.ListData{Results: filtered, Count: len(filtered)}}, nil
	})
}

type StatusCommand struct {
	*base.Command
}

func (c *StatusCommand) Synopsis() string {
	return "Show one operation receipt"
}

func (c *StatusCommand) Help() string {
	return `Usage: canvasctl ops status <op-id>

  Shows the current receipt for one operation. This reads the local
  registry only; use "ops wait" to re-check remote status.` +
		c.Flags().Help()
}

func (c *StatusCommand) Flags() *base.FlagSet {
	return c.NewFlagSet("ops status")
}

func (c *StatusCommand) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		return c.Fail("ops status", errcode.New(errcode.InvalidArgument, err.Error()))
	}
	if len(f.Args()) != 1 {
		return c.Fail("ops status",
			errcode.New(errcode.MissingArgument, "exactly one operation ID is required"))
	}
	opID := f.Args()[0]

	return c.Execute("ops status", f, false, func(rt *base.Runtime) (*base.Result, error) {
		r, err := rt.Registry.Get(opID)
		if err != nil {
			return nil, err
		}
		return &base.Result{Data: r}, nil
	})
}
