package configcmd

import (
	"github.com/iancoleman/strcase"

	"github.com/canvas-tools/canvasctl/internal/cmd/base"
	"github.com/canvas-tools/canvasctl/pkg/config"
	"github.com/canvas-tools/canvasctl/pkg/errcode"
)

type SetCommand struct {
	*base.Command

	flagTargetProfile string
}

func (c *SetCommand) Synopsis() string {
	return "Set one configuration value"
}

func (c *SetCommand) Help() string {
	return `Usage: canvasctl config set <key> <value>

  Writes one attribute into a profile of the config file, creating the
  profile when it does not exist. Keys are normalized, so "base-url",
  "baseUrl" and "base_url" all address the same attribute. The rest of
  the file, comments included, is preserved byte-for-byte.` +
		c.Flags().Help()
}

func (c *SetCommand) Flags() *base.FlagSet {
	f := c.NewFlagSet("config set")
	f.StringVar(&c.flagTargetProfile, "target-profile", "default",
		"Profile block to write the value into.")
	return f
}

func (c *SetCommand) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		return c.Fail("config set", errcode.New(errcode.InvalidArgument, err.Error()))
	}
	if len(f.Args()) != 2 {
		return c.Fail("config set",
			errcode.New(errcode.MissingArgument, "a key and a value are required"))
	}
	key := strcase.ToSnake(f.Args()[0])
	value := f.Args()[1]

	return c.Execute("config set", f, false, func(rt *base.Runtime) (*base.Result, error) {
		path := c.ConfigPath
		if path == "" {
			p, err := config.DefaultPath()
			if err != nil {
				return nil, errcode.New(errcode.ConfigError, "cannot locate config file").WithCause(err)
			}
			path = p
		}
		if err := config.SetValue(rt.FS, path, c.flagTargetProfile, key, value); err != nil {
			return nil, err
		}
		return &base.Result{Data: map[string]any{
			"profile": c.flagTargetProfile,
			"key":     key,
			"updated": true,
		}}, nil
	})
}
