package cmd

import (
	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/canvas-tools/canvasctl/internal/cmd/base"
	"github.com/canvas-tools/canvasctl/internal/cmd/commands/blocks"
	"github.com/canvas-tools/canvasctl/internal/cmd/commands/comments"
	"github.com/canvas-tools/canvasctl/internal/cmd/commands/configcmd"
	"github.com/canvas-tools/canvasctl/internal/cmd/commands/databases"
	"github.com/canvas-tools/canvasctl/internal/cmd/commands/oauth"
	"github.com/canvas-tools/canvasctl/internal/cmd/commands/opscmd"
	"github.com/canvas-tools/canvasctl/internal/cmd/commands/pages"
	"github.com/canvas-tools/canvasctl/internal/cmd/commands/search"
	"github.com/canvas-tools/canvasctl/internal/cmd/commands/uploads"
	"github.com/canvas-tools/canvasctl/internal/cmd/commands/users"
	"github.com/canvas-tools/canvasctl/internal/cmd/commands/versioncmd"
)

// Commands is the command registry keyed by the full nested command name.
var Commands map[string]cli.CommandFactory

func initCommands(log hclog.Logger, ui cli.Ui) {
	newBase := func() *base.Command {
		return base.NewCommand(ui, log)
	}

	Commands = map[string]cli.CommandFactory{
		"pages": func() (cli.Command, error) {
			return &pages.Command{}, nil
		},
		"pages get": func() (cli.Command, error) {
			return &pages.GetCommand{Command: newBase()}, nil
		},
		"pages create": func() (cli.Command, error) {
			return &pages.CreateCommand{Command: newBase()}, nil
		},
		"pages update": func() (cli.Command, error) {
			return &pages.UpdateCommand{Command: newBase()}, nil
		},
		"pages archive": func() (cli.Command, error) {
			return &pages.ArchiveCommand{Command: newBase()}, nil
		},
		"pages restore": func() (cli.Command, error) {
			return &pages.RestoreCommand{Command: newBase()}, nil
		},
		"pages property": func() (cli.Command, error) {
			return &pages.PropertyCommand{Command: newBase()}, nil
		},

		"blocks": func() (cli.Command, error) {
			return &blocks.Command{}, nil
		},
		"blocks get": func() (cli.Command, error) {
			return &blocks.GetCommand{Command: newBase()}, nil
		},
		"blocks children": func() (cli.Command, error) {
			return &blocks.ChildrenCommand{Command: newBase()}, nil
		},
		"blocks append": func() (cli.Command, error) {
			return &blocks.AppendCommand{Command: newBase()}, nil
		},
		"blocks update": func() (cli.Command, error) {
			return &blocks.UpdateCommand{Command: newBase()}, nil
		},
		"blocks delete": func() (cli.Command, error) {
			return &blocks.DeleteCommand{Command: newBase()}, nil
		},

		"databases": func() (cli.Command, error) {
			return &databases.Command{}, nil
		},
		"databases get": func() (cli.Command, error) {
			return &databases.GetCommand{Command: newBase()}, nil
		},
		"databases create": func() (cli.Command, error) {
			return &databases.CreateCommand{Command: newBase()}, nil
		},
		"databases update": func() (cli.Command, error) {
			return &databases.UpdateCommand{Command: newBase()}, nil
		},
		"databases query": func() (cli.Command, error) {
			return &databases.QueryCommand{Command: newBase()}, nil
		},

		"comments": func() (cli.Command, error) {
			return &comments.Command{}, nil
		},
		"comments list": func() (cli.Command, error) {
			return &comments.ListCommand{Command: newBase()}, nil
		},
		"comments create": func() (cli.Command, error) {
			return &comments.CreateCommand{Command: newBase()}, nil
		},

		"users": func() (cli.Command, error) {
			return &users.Command{}, nil
		},
		"users get": func() (cli.Command, error) {
			return &users.GetCommand{Command: newBase()}, nil
		},
		"users list": func() (cli.Command, error) {
			return &users.ListCommand{Command: newBase()}, nil
		},
		"users me": func() (cli.Command, error) {
			return &users.MeCommand{Command: newBase()}, nil
		},

		"search": func() (cli.Command, error) {
			return &search.Command{}, nil
		},
		"search query": func() (cli.Command, error) {
			return &search.QueryCommand{Command: newBase()}, nil
		},

		"uploads": func() (cli.Command, error) {
			return &uploads.Command{}, nil
		},
		"uploads create": func() (cli.Command, error) {
			return &uploads.CreateCommand{Command: newBase()}, nil
		},
		"uploads send": func() (cli.Command, error) {
			return &uploads.SendCommand{Command: newBase()}, nil
		},
		"uploads complete": func() (cli.Command, error) {
			return &uploads.CompleteCommand{Command: newBase()}, nil
		},
		"uploads get": func() (cli.Command, error) {
			return &uploads.GetCommand{Command: newBase()}, nil
		},
		"uploads list": func() (cli.Command, error) {
			return &uploads.ListCommand{Command: newBase()}, nil
		},

		"oauth": func() (cli.Command, error) {
			return &oauth.Command{}, nil
		},
		"oauth login": func() (cli.Command, error) {
			return &oauth.LoginCommand{Command: newBase()}, nil
		},
		"oauth token": func() (cli.Command, error) {
			return &oauth.TokenCommand{Command: newBase()}, nil
		},
		"oauth revoke": func() (cli.Command, error) {
			return &oauth.RevokeCommand{Command: newBase()}, nil
		},

		"ops": func() (cli.Command, error) {
			return &opscmd.Command{}, nil
		},
		"ops list": func() (cli.Command, error) {
			return &opscmd.ListCommand{Command: newBase()}, nil
		},
		"ops status": func() (cli.Command, error) {
			return &opscmd.StatusCommand{Command: newBase()}, nil
		},
		"ops wait": func() (cli.Command, error) {
			return &opscmd.WaitCommand{Command: newBase()}, nil
		},

		"config": func() (cli.Command, error) {
			return &configcmd.Command{}, nil
		},
		"config get": func() (cli.Command, error) {
			return &configcmd.GetCommand{Command: newBase()}, nil
		},
		"config set": func() (cli.Command, error) {
			return &configcmd.SetCommand{Command: newBase()}, nil
		},
		"config profiles": func() (cli.Command, error) {
			return &configcmd.ProfilesCommand{Command: newBase()}, nil
		},

		"version": func() (cli.Command, error) {
			return &versioncmd.Command{Command: newBase()}, nil
		},
	}
}
