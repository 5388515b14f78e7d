package opscmd

import (
	"context"
	"time"

	"github.com/canvas-tools/canvasctl/internal/cmd/base"
	"github.com/canvas-tools/canvasctl/pkg/apiclient"
	"github.com/canvas-tools/canvasctl/pkg/errcode"
	"github.com/canvas-tools/canvasctl/pkg/ops"
)

type WaitCommand struct {
	*base.Command

	flagDeadline time.Duration
	flagInterval time.Duration
	flagNoPoll   bool
}

func (c *WaitCommand) Synopsis() string {
	return "Wait for an operation to finish"
}

func (c *WaitCommand) Help() string {
	return `Usage: canvasctl ops wait <op-id>

  Blocks until the operation reaches COMPLETED or FAILED, or the deadline
  passes. Receipts that carry a poll descriptor are re-checked against the
  remote API on each iteration and the registry is updated with what the
  API reports.

  A FAILED terminal status still exits 0: the wait itself succeeded, and
  the receipt in the envelope carries the failure detail.` +
		c.Flags().Help()
}

func (c *WaitCommand) Flags() *base.FlagSet {
	f := c.NewFlagSet("ops wait")

	f.DurationVar(&c.flagDeadline, "deadline", 5*time.Minute,
		"Wall-clock budget across all poll iterations.")
	f.DurationVar(&c.flagInterval, "poll-interval", 500*time.Millisecond,
		"Initial interval between polls; grows exponentially up to 5s.")
	f.BoolVar(&c.flagNoPoll, "no-poll", false,
		"Watch the local registry only, never call the remote API.")

	return f
}

func (c *WaitCommand) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		return c.Fail("ops wait", errcode.New(errcode.InvalidArgument, err.Error()))
	}
	if len(f.Args()) != 1 {
		return c.Fail("ops wait",
			errcode.New(errcode.MissingArgument, "exactly one operation ID is required"))
	}
	opID := f.Args()[0]

	return c.Execute("ops wait", f, false, func(rt *base.Runtime) (*base.Result, error) {
		opts := ops.WaitOptions{
			Deadline:        c.flagDeadline,
			InitialInterval: c.flagInterval,
		}
		if !c.flagNoPoll {
			opts.Poll = remotePoller(rt.Client)
		}

		r, err := rt.Registry.Wait(rt.Ctx, opID, opts)
		if err != nil {
			return nil, err
		}
		return &base.Result{Data: r}, nil
	})
}

// remotePoller re-checks an operation through its poll descriptor and maps
// the resource's reported status onto the receipt lifecycle.
func remotePoller(client *apiclient.Client) ops.Poller {
	return func(ctx context.Context, poll *ops.PollDescriptor) (ops.Status, *ops.OpError, error) {
		resp, err := client.Do(ctx, apiclient.Request{
			Method: poll.Method,
			Path:   poll.Path,
		})
		if err != nil {
			return "", nil, err
		}

		var body struct {
			Status string       `json:"status"`
			Error  *ops.OpError `json:"error"`
		}
		if err := resp.Decode(&body); err != nil {
			return "", nil, err
		}
		return mapRemoteStatus(body.Status), body.Error, nil
	}
}

func mapRemoteStatus(remote string) ops.Status {
	switch remote {
	case "pending":
		return ops.StatusPending
	case "uploaded", "completed", "succeeded":
		return ops.StatusCompleted
	case "failed", "expired":
		return ops.StatusFailed
	default:
		return ops.StatusInProgress
	}
}
