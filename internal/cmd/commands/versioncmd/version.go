// Package versioncmd implements the version command.
package versioncmd

import (
	"fmt"
	"runtime"

	"github.com/canvas-tools/canvasctl/internal/cmd/base"
	"github.com/canvas-tools/canvasctl/internal/version"
	"github.com/canvas-tools/canvasctl/pkg/envelope"
	"github.com/canvas-tools/canvasctl/pkg/errcode"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Print the canvasctl version"
}

func (c *Command) Help() string {
	return `Usage: canvasctl version

  Prints the canvasctl version as an envelope, like every other command.`
}

func (c *Command) Flags() *base.FlagSet {
	return c.NewFlagSet("version")
}

// Run emits the version envelope directly: the command must work even when
// the config file is broken, so it skips configuration resolution.
func (c *Command) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		return c.Fail("version", errcode.New(errcode.InvalidArgument, err.Error()))
	}

	writer := &envelope.Writer{Out: c.Stdout, FS: c.FS}
	env := envelope.Success(map[string]any{
		"version":    version.Version,
		"go_version": runtime.Version(),
		"os":         runtime.GOOS,
		"arch":       runtime.GOARCH,
	}, nil, envelope.Metadata{
		Command:       "version",
		Version:       version.Version,
		SchemaVersion: envelope.SchemaVersion,
	})
	if err := writer.Write(env); err != nil {
		c.UI.Error(fmt.Sprintf("failed to write envelope: %v", err))
		return errcode.ExitInternal
	}
	return errcode.ExitSuccess
}
