package uploads

import (
	"encoding/json"

	"github.com/canvas-tools/canvasctl/internal/cmd/base"
	"github.com/canvas-tools/canvasctl/pkg/apiclient"
	"github.com/canvas-tools/canvasctl/pkg/errcode"
	"github.com/canvas-tools/canvasctl/pkg/ops"
)

type CreateCommand struct {
	*base.Command

	flagFilename       string
	flagContentType    string
	flagMode           string
	flagParts          int
	flagDryRun         bool
	flagIdempotencyKey string
}

func (c *CreateCommand) Synopsis() string {
	return "Create a file upload"
}

func (c *CreateCommand) Help() string {
	return `Usage: canvasctl uploads create -filename=<name>

  Creates a file upload and records an operation receipt for it. Send the
  bytes with "uploads send" and finish with "uploads complete" when the
  upload is multi-part.` +
		c.Flags().Help()
}

func (c *CreateCommand) Flags() *base.FlagSet {
	f := c.NewFlagSet("uploads create")

	f.StringVar(&c.flagFilename, "filename", "",
		"(Required) Name of the file being uploaded.")
	f.StringVar(&c.flagContentType, "content-type", "",
		"MIME type of the file.")
	f.StringVar(&c.flagMode, "mode", "single_part",
		"Upload mode: single_part or multi_part.")
	f.IntVar(&c.flagParts, "parts", 0,
		"Number of parts for a multi_part upload.")
	f.BoolVar(&c.flagDryRun, "dry-run", false,
		"Validate and report the request without sending it.")
	f.StringVar(&c.flagIdempotencyKey, "idempotency-key", "",
		"Idempotency-Key header value; \"auto\" generates a fresh UUID.")

	return f
}

func (c *CreateCommand) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		return c.Fail("uploads create", errcode.New(errcode.InvalidArgument, err.Error()))
	}
	if c.flagFilename == "" {
		return c.Fail("uploads create",
			errcode.New(errcode.MissingArgument, "the -filename flag is required"))
	}
	if c.flagMode != "single_part" && c.flagMode != "multi_part" {
		return c.Fail("uploads create",
			errcode.New(errcode.InvalidArgument, "mode must be single_part or multi_part"))
	}
	if c.flagMode == "multi_part" && c.flagParts < 1 {
		return c.Fail("uploads create",
			errcode.New(errcode.MissingArgument, "multi_part uploads need -parts"))
	}

	return c.Execute("uploads create", f, false, func(rt *base.Runtime) (*base.Result, error) {
		body := map[string]any{
			"filename": c.flagFilename,
			"mode":     c.flagMode,
		}
		if c.flagContentType != "" {
			body["content_type"] = c.flagContentType
		}
		if c.flagParts > 0 {
			body["number_of_parts"] = c.flagParts
		}

		req := apiclient.Request{
			Method:         "POST",
			Path:           "/v1/file_uploads",
			JSON:           body,
			IdempotencyKey: base.IdempotencyKey(c.flagIdempotencyKey),
		}
		if c.flagDryRun {
			return base.DryRun(req)
		}

		resp, err := rt.Client.Do(rt.Ctx, req)
		if err != nil {
			return nil, err
		}
		var raw json.RawMessage
		if err := resp.Decode(&raw); err != nil {
			return nil, err
		}

		res := &base.Result{Data: raw}
		if id := uploadID(raw); id != "" {
			recordReceipt(rt, res, id, ops.StatusPending, map[string]any{
				"filename": c.flagFilename,
				"mode":     c.flagMode,
			})
		}
		return res, nil
	})
}
