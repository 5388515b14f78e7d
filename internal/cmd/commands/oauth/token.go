package oauth

import (
	"golang.org/x/oauth2"

	"github.com/canvas-tools/canvasctl/internal/cmd/base"
	"github.com/canvas-tools/canvasctl/pkg/apiclient"
	"github.com/canvas-tools/canvasctl/pkg/errcode"
)

type TokenCommand struct {
	*base.Command

	flagClientID     string
	flagClientSecret string
	flagCode         string
	flagRedirectURI  string
	flagTokenURL     string
}

func (c *TokenCommand) Synopsis() string {
	return "Exchange an authorization code for a token"
}

func (c *TokenCommand) Help() string {
	return `Usage: canvasctl oauth token -code=<code>

  Exchanges an authorization code for an access token. Use this when the
  redirect was captured out of band; "oauth login" runs the whole flow in
  one step.` +
		c.Flags().Help()
}

func (c *TokenCommand) Flags() *base.FlagSet {
	f := c.NewFlagSet("oauth token")

	f.StringVar(&c.flagClientID, "client-id", "",
		"(Required) OAuth client ID of the integration.")
	f.StringVar(&c.flagClientSecret, "client-secret", "",
		"(Required) OAuth client secret of the integration.")
	f.StringVar(&c.flagCode, "code", "",
		"(Required) Authorization code from the redirect.")
	f.StringVar(&c.flagRedirectURI, "redirect-uri", "",
		"Redirect URI the code was issued for.")
	f.StringVar(&c.flagTokenURL, "token-url", "",
		"Token endpoint. Defaults to <base-url>/v1/oauth/token.")

	return f
}

func (c *TokenCommand) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		return c.Fail("oauth token", errcode.New(errcode.InvalidArgument, err.Error()))
	}
	if c.flagClientID == "" || c.flagClientSecret == "" || c.flagCode == "" {
		return c.Fail("oauth token",
			errcode.New(errcode.MissingArgument, "-client-id, -client-secret and -code are required"))
	}

	return c.Execute("oauth token", f, false, func(rt *base.Runtime) (*base.Result, error) {
		tokenURL := c.flagTokenURL
		if tokenURL == "" {
			tokenURL = rt.Config.BaseURL + "/v1/oauth/token"
		}
		conf := &oauth2.Config{
			ClientID:     c.flagClientID,
			ClientSecret: c.flagClientSecret,
			Endpoint: oauth2.Endpoint{
				TokenURL:  tokenURL,
				AuthStyle: oauth2.AuthStyleInHeader,
			},
			RedirectURL: c.flagRedirectURI,
		}

		token, err := conf.Exchange(rt.Ctx, c.flagCode)
		if err != nil {
			return nil, errcode.New(errcode.AuthFailed, "code exchange failed").WithCause(err)
		}
		return &base.Result{Data: tokenData(token)}, nil
	})
}

type RevokeCommand struct {
	*base.Command

	flagToken string
}

func (c *RevokeCommand) Synopsis() string {
	return "Revoke a token"
}

func (c *RevokeCommand) Help() string {
	return `Usage: canvasctl oauth revoke -revoke-token=<token>

  Revokes an access token. Without -revoke-token, the currently resolved
  token revokes itself.` +
		c.Flags().Help()
}

func (c *RevokeCommand) Flags() *base.FlagSet {
	f := c.NewFlagSet("oauth revoke")
	f.StringVar(&c.flagToken, "revoke-token", "",
		"Token to revoke. Defaults to the resolved token.")
	return f
}

func (c *RevokeCommand) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		return c.Fail("oauth revoke", errcode.New(errcode.InvalidArgument, err.Error()))
	}

	return c.Execute("oauth revoke", f, false, func(rt *base.Runtime) (*base.Result, error) {
		token := c.flagToken
		if token == "" {
			token = rt.Config.Token
		}
		if token == "" {
			return nil, errcode.New(errcode.MissingArgument, "no token to revoke")
		}
		return rt.Call(apiclient.Request{
			Method: "POST",
			Path:   "/v1/oauth/revoke",
			JSON:   map[string]any{"token": token},
		})
	})
}
