package base

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/canvas-tools/canvasctl/pkg/apiclient"
	"github.com/canvas-tools/canvasctl/pkg/errcode"
)

// Call issues the request and wraps the raw JSON response as a handler
// result. Most single-request commands are exactly this.
func (rt *Runtime) Call(req apiclient.Request) (*Result, error) {
	resp, err := rt.Client.Do(rt.Ctx, req)
	if err != nil {
		return nil, err
	}
	var data json.RawMessage
	if err := resp.Decode(&data); err != nil {
		return nil, err
	}
	return &Result{Data: data}, nil
}

// DryRunData describes the request a mutation would have made.
type DryRunData struct {
	DryRun bool   `json:"dry_run"`
	Method string `json:"method"`
	Path   string `json:"path"`
	Body   any    `json:"body,omitempty"`
}

// DryRun skips the network call and reports the intended request with the
// dry-run exit code.
func DryRun(req apiclient.Request) (*Result, error) {
	if err := apiclient.ValidatePath(req.Path); err != nil {
		return nil, err
	}
	return &Result{
		Data: DryRunData{
			DryRun: true,
			Method: req.Method,
			Path:   req.Path,
			Body:   req.JSON,
		},
		ExitCode: errcode.ExitDryRun,
	}, nil
}

// IdempotencyKey resolves the -idempotency-key flag value: empty means no
// key, "auto" generates a fresh UUID, anything else is used verbatim.
func IdempotencyKey(flagValue string) string {
	if flagValue == "auto" {
		return uuid.NewString()
	}
	return flagValue
}
