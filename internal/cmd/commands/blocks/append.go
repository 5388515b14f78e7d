package blocks

import (
	"encoding/json"
	"fmt"

	"github.com/canvas-tools/canvasctl/internal/cmd/base"
	"github.com/canvas-tools/canvasctl/pkg/apiclient"
	"github.com/canvas-tools/canvasctl/pkg/canvasid"
	"github.com/canvas-tools/canvasctl/pkg/envelope"
	"github.com/canvas-tools/canvasctl/pkg/errcode"
)

// maxChildrenPerRequest is the API's per-request cap on appended children.
const maxChildrenPerRequest = 100

type AppendCommand struct {
	*base.Command

	flagChildren  string
	flagAfter     string
	flagBatchSize int
	flagDryRun    bool
}

func (c *AppendCommand) Synopsis() string {
	return "Append child blocks"
}

func (c *AppendCommand) Help() string {
	return `Usage: canvasctl blocks append <block-id> -children=<document>

  Appends child blocks to a block. The document must carry a "children"
  array; more than one batch worth of children is sent in sequential
  requests. When some batches land and a later one fails, the command
  reports a partial result and exits with the partial-failure code.` +
		c.Flags().Help()
}

func (c *AppendCommand) Flags() *base.FlagSet {
	f := c.NewFlagSet("blocks append")

	f.StringVar(&c.flagChildren, "children", "",
		"(Required) Document with a \"children\" array: inline JSON, @file, or \"-\" for stdin.")
	f.StringVar(&c.flagAfter, "after", "",
		"Append after this existing child block instead of at the end.")
	f.IntVar(&c.flagBatchSize, "batch-size", maxChildrenPerRequest,
		"Children per request.")
	f.BoolVar(&c.flagDryRun, "dry-run", false,
		"Validate and report the request without sending it.")

	return f
}

func (c *AppendCommand) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		return c.Fail("blocks append", errcode.New(errcode.InvalidArgument, err.Error()))
	}
	if len(f.Args()) != 1 {
		return c.Fail("blocks append",
			errcode.New(errcode.MissingArgument, "exactly one block ID is required"))
	}
	if c.flagChildren == "" {
		return c.Fail("blocks append",
			errcode.New(errcode.MissingArgument, "the -children flag is required"))
	}
	if c.flagBatchSize < 1 || c.flagBatchSize > maxChildrenPerRequest {
		return c.Fail("blocks append", errcode.Newf(errcode.InvalidArgument,
			"batch-size must be between 1 and %d", maxChildrenPerRequest))
	}
	blockID, err := canvasid.Normalize(f.Args()[0])
	if err != nil {
		return c.Fail("blocks append", err)
	}

	usesStdin := base.UsesStdin(c.flagChildren)
	return c.Execute("blocks append", f, usesStdin, func(rt *base.Runtime) (*base.Result, error) {
		doc, err := rt.Document(c.flagChildren)
		if err != nil {
			return nil, err
		}
		children, ok := doc["children"].([]any)
		if !ok || len(children) == 0 {
			return nil, errcode.New(errcode.InvalidArgument,
				"the document must contain a non-empty \"children\" array")
		}

		path := fmt.Sprintf("/v1/blocks/%s/children", blockID)
		if c.flagDryRun {
			body := map[string]any{"children": children}
			if c.flagAfter != "" {
				body["after"] = c.flagAfter
			}
			return base.DryRun(apiclient.Request{Method: "PATCH", Path: path, JSON: body})
		}

		var succeeded, failed []any
		var firstErr error
		for start := 0; start < len(children); start += c.flagBatchSize {
			end := start + c.flagBatchSize
			if end > len(children) {
				end = len(children)
			}
			body := map[string]any{"children": children[start:end]}
			// The -after anchor only applies to the first batch; later
			// batches continue after what the previous one appended.
			if c.flagAfter != "" && start == 0 {
				body["after"] = c.flagAfter
			}

			resp, err := rt.Client.Do(rt.Ctx, apiclient.Request{
				Method: "PATCH",
				Path:   path,
				JSON:   body,
			})
			if err != nil {
				taxErr := errcode.From(err)
				failed = append(failed, map[string]any{
					"batch_start": start,
					"batch_end":   end,
					"code":        taxErr.Code,
					"message":     taxErr.Message,
				})
				firstErr = taxErr
				break
			}
			var data json.RawMessage
			if err := resp.Decode(&data); err != nil {
				return nil, err
			}
			succeeded = append(succeeded, data)
		}

		if firstErr != nil {
			if len(succeeded) == 0 {
				return nil, firstErr
			}
			return &base.Result{
				Partial: &envelope.PartialData{Succeeded: succeeded, Failed: failed},
			}, nil
		}
		if len(succeeded) == 1 {
			return &base.Result{Data: succeeded[0]}, nil
		}
		return &base.Result{Data: map[string]any{"results": succeeded}}, nil
	})
}
