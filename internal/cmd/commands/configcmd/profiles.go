package configcmd

import (
	"github.com/canvas-tools/canvasctl/internal/cmd/base"
	"github.com/canvas-tools/canvasctl/pkg/config"
	"github.com/canvas-tools/canvasctl/pkg/errcode"
)

type ProfilesCommand struct {
	*base.Command
}

func (c *ProfilesCommand) Synopsis() string {
	return "List configuration profiles"
}

func (c *ProfilesCommand) Help() string {
	return `Usage: canvasctl config profiles

  Lists the profiles defined in the config file. Tokens are reported as
  set or unset, never printed.` +
		c.Flags().Help()
}

func (c *ProfilesCommand) Flags() *base.FlagSet {
	return c.NewFlagSet("config profiles")
}

func (c *ProfilesCommand) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		return c.Fail("config profiles", errcode.New(errcode.InvalidArgument, err.Error()))
	}

	return c.Execute("config profiles", f, false, func(rt *base.Runtime) (*base.Result, error) {
		path := c.ConfigPath
		if path == "" {
			p, err := config.DefaultPath()
			if err != nil {
				return nil, errcode.New(errcode.ConfigError, "cannot locate config file").WithCause(err)
			}
			path = p
		}
		file, err := config.Load(rt.FS, path)
		if err != nil {
			return nil, err
		}

		profiles := make([]map[string]any, 0, len(file.Profiles))
		for _, p := range file.Profiles {
			profiles = append(profiles, map[string]any{
				"name":        p.Name,
				"base_url":    p.BaseURL,
				"api_version": p.APIVersion,
				"token_set":   p.Token != "",
			})
		}
		return &base.Result{Data: map[string]any{
			"default_profile": file.DefaultProfile,
			"profiles":        profiles,
		}}, nil
	})
}
