package uploads

import (
	"encoding/json"
	"fmt"

	"github.com/mitchellh/cli"

	"github.com/canvas-tools/canvasctl/internal/cmd/base"
	"github.com/canvas-tools/canvasctl/pkg/ops"
)

type Command struct{}

func (c *Command) Synopsis() string {
	return "Work with file uploads"
}

func (c *Command) Help() string {
	return `Usage: canvasctl uploads <subcommand> [options] [args]

  This command groups subcommands for the file-upload lifecycle: create an
  upload, send its bytes, complete it, and attach the resulting file ID to
  a block or page property.

  Every lifecycle step records an operation receipt; "canvasctl ops wait"
  can block until an upload reaches a terminal state.`
}

func (c *Command) Run(args []string) int {
	return cli.RunResultHelp
}

// uploadID pulls the upload object's ID out of a raw API response.
func uploadID(raw json.RawMessage) string {
	var obj struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return ""
	}
	return obj.ID
}

// recordReceipt appends a fresh receipt for an upload. Registry trouble
// downgrades to a warning: the upload itself already happened.
func recordReceipt(rt *base.Runtime, res *base.Result, id string, status ops.Status, meta map[string]any) {
	r := ops.NewReceipt("file_upload")
	r.Status = status
	r.ResourceID = id
	r.ResourceType = "file_upload"
	r.Metadata = meta
	r.Poll = &ops.PollDescriptor{
		Method: "GET",
		Path:   fmt.Sprintf("/v1/file_uploads/%s", id),
	}
	if err := rt.Registry.Append(r); err != nil {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("upload succeeded but recording operation %s failed: %v", r.OpID, err))
		return
	}
	if res.Data != nil {
		res.Data = map[string]any{"op_id": r.OpID, "result": res.Data}
	}
}

// advanceReceipt moves the newest non-terminal receipt for the upload to
// the given status. Missing receipts are not an error: the upload may have
// been created on another machine.
func advanceReceipt(rt *base.Runtime, res *base.Result, id string, u ops.Update) {
	receipts, err := rt.Registry.List()
	if err != nil {
		res.Warnings = append(res.Warnings, fmt.Sprintf("reading operation registry failed: %v", err))
		return
	}
	for i := len(receipts) - 1; i >= 0; i-- {
		r := receipts[i]
		if r.ResourceID != id || r.Status.Terminal() {
			continue
		}
		if err := rt.Registry.Update(r.Touch(u)); err != nil {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("updating operation %s failed: %v", r.OpID, err))
		}
		return
	}
}
