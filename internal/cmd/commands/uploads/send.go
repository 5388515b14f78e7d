package uploads

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/canvas-tools/canvasctl/internal/cmd/base"
	"github.com/canvas-tools/canvasctl/pkg/apiclient"
	"github.com/canvas-tools/canvasctl/pkg/errcode"
	"github.com/canvas-tools/canvasctl/pkg/ops"
)

type SendCommand struct {
	*base.Command

	flagFile string
	flagPart int
}

func (c *SendCommand) Synopsis() string {
	return "Send the bytes of a file upload"
}

func (c *SendCommand) Help() string {
	return `Usage: canvasctl uploads send <upload-id> -file=<path>

  Sends file content to an upload as a multipart request. Multi-part
  uploads call this once per part with -part; single-part uploads omit it.
  Pass -file=- to read the bytes from stdin.` +
		c.Flags().Help()
}

func (c *SendCommand) Flags() *base.FlagSet {
	f := c.NewFlagSet("uploads send")

	f.StringVar(&c.flagFile, "file", "",
		"(Required) Path of the file to send, or \"-\" for stdin.")
	f.IntVar(&c.flagPart, "part", 0,
		"Part number for a multi_part upload, starting at 1.")

	return f
}

func (c *SendCommand) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		return c.Fail("uploads send", errcode.New(errcode.InvalidArgument, err.Error()))
	}
	if len(f.Args()) != 1 {
		return c.Fail("uploads send",
			errcode.New(errcode.MissingArgument, "exactly one upload ID is required"))
	}
	if c.flagFile == "" {
		return c.Fail("uploads send",
			errcode.New(errcode.MissingArgument, "the -file flag is required"))
	}
	if c.flagPart < 0 {
		return c.Fail("uploads send",
			errcode.New(errcode.InvalidArgument, "part must be positive"))
	}
	id := f.Args()[0]

	usesStdin := base.UsesStdin(c.flagFile)
	return c.Execute("uploads send", f, usesStdin, func(rt *base.Runtime) (*base.Result, error) {
		form := &apiclient.MultipartForm{
			FileField: "file",
			FileName:  filepath.Base(c.flagFile),
		}
		if c.flagFile == "-" {
			form.File = rt.Stdin
			form.FileName = "stdin"
		} else {
			file, err := rt.FS.Open(c.flagFile)
			if err != nil {
				return nil, errcode.Newf(errcode.InvalidArgument,
					"cannot open file %s", c.flagFile).WithCause(err)
			}
			defer file.Close()
			form.File = file
		}
		if c.flagPart > 0 {
			form.Fields = map[string]string{"part_number": strconv.Itoa(c.flagPart)}
		}

		resp, err := rt.Client.Do(rt.Ctx, apiclient.Request{
			Method: "POST",
			Path:   fmt.Sprintf("/v1/file_uploads/%s/send", id),
			Form:   form,
		})
		if err != nil {
			return nil, err
		}
		var raw json.RawMessage
		if err := resp.Decode(&raw); err != nil {
			return nil, err
		}

		res := &base.Result{Data: raw}
		update := ops.Update{Status: ops.StatusInProgress}
		if c.flagPart > 0 {
			update.Metadata = map[string]any{"last_part_sent": c.flagPart}
		}
		advanceReceipt(rt, res, id, update)
		return res, nil
	})
}
