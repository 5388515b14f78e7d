package oauth

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/browser"
	"golang.org/x/oauth2"

	"github.com/canvas-tools/canvasctl/internal/cmd/base"
	"github.com/canvas-tools/canvasctl/pkg/config"
	"github.com/canvas-tools/canvasctl/pkg/errcode"
)

type LoginCommand struct {
	*base.Command

	flagClientID     string
	flagClientSecret string
	flagAuthURL      string
	flagTokenURL     string
	flagListen       string
	flagNoBrowser    bool
	flagLoginTimeout time.Duration
	flagSaveProfile  string
}

func (c *LoginCommand) Synopsis() string {
	return "Authorize via the browser"
}

func (c *LoginCommand) Help() string {
	return `Usage: canvasctl oauth login -client-id=<id> -client-secret=<secret>

  Runs the authorization-code flow: opens the authorize URL in the
  browser, receives the redirect on a local loopback listener, and
  exchanges the code for an access token. With -save-profile the token is
  written into that profile of the config file.` +
		c.Flags().Help()
}

func (c *LoginCommand) Flags() *base.FlagSet {
	f := c.NewFlagSet("oauth login")

	f.StringVar(&c.flagClientID, "client-id", "",
		"(Required) OAuth client ID of the integration.")
	f.StringVar(&c.flagClientSecret, "client-secret", "",
		"(Required) OAuth client secret of the integration.")
	f.StringVar(&c.flagAuthURL, "auth-url", "",
		"Authorization endpoint. Defaults to <base-url>/v1/oauth/authorize.")
	f.StringVar(&c.flagTokenURL, "token-url", "",
		"Token endpoint. Defaults to <base-url>/v1/oauth/token.")
	f.StringVar(&c.flagListen, "listen", "127.0.0.1:8585",
		"Loopback address for the redirect listener.")
	f.BoolVar(&c.flagNoBrowser, "no-browser", false,
		"Print the authorize URL instead of opening a browser.")
	f.DurationVar(&c.flagLoginTimeout, "login-timeout", 2*time.Minute,
		"How long to wait for the browser redirect.")
	f.StringVar(&c.flagSaveProfile, "save-profile", "",
		"Write the access token into this config profile.")

	return f
}

func (c *LoginCommand) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		return c.Fail("oauth login", errcode.New(errcode.InvalidArgument, err.Error()))
	}
	if c.flagClientID == "" || c.flagClientSecret == "" {
		return c.Fail("oauth login",
			errcode.New(errcode.MissingArgument, "-client-id and -client-secret are required"))
	}

	return c.Execute("oauth login", f, false, func(rt *base.Runtime) (*base.Result, error) {
		listener, err := net.Listen("tcp", c.flagListen)
		if err != nil {
			return nil, errcode.Newf(errcode.DependencyMissing,
				"cannot listen on %s for the OAuth redirect", c.flagListen).WithCause(err)
		}
		defer listener.Close()

		conf := c.oauthConfig(rt, listener.Addr().String())
		state := uuid.NewString()
		authURL := conf.AuthCodeURL(state, oauth2.SetAuthURLParam("owner", "user"))

		type callback struct {
			code string
			err  error
		}
		done := make(chan callback, 1)
		server := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			switch {
			case q.Get("error") != "":
				fmt.Fprintln(w, "Authorization failed. You can close this tab.")
				done <- callback{err: errcode.Newf(errcode.AuthFailed,
					"authorization denied: %s", q.Get("error"))}
			case q.Get("state") != state:
				fmt.Fprintln(w, "Authorization failed. You can close this tab.")
				done <- callback{err: errcode.New(errcode.AuthFailed,
					"redirect carried an unexpected state value")}
			default:
				fmt.Fprintln(w, "Authorized. You can close this tab.")
				done <- callback{code: q.Get("code")}
			}
		})}
		go server.Serve(listener)
		defer server.Close()

		if c.flagNoBrowser {
			rt.Log.Info("open this URL to authorize", "url", authURL)
		} else if err := browser.OpenURL(authURL); err != nil {
			rt.Log.Warn("could not open a browser; open the URL manually", "url", authURL)
		}

		ctx, cancel := context.WithTimeout(rt.Ctx, c.flagLoginTimeout)
		defer cancel()

		var cb callback
		select {
		case cb = <-done:
		case <-ctx.Done():
			return nil, errcode.Newf(errcode.Timeout,
				"no authorization redirect within %s", c.flagLoginTimeout).
				WithSuggestion("re-run with -no-browser and open the printed URL manually")
		}
		if cb.err != nil {
			return nil, cb.err
		}

		token, err := conf.Exchange(ctx, cb.code)
		if err != nil {
			return nil, errcode.New(errcode.AuthFailed, "code exchange failed").WithCause(err)
		}

		res := &base.Result{Data: tokenData(token)}
		if c.flagSaveProfile != "" {
			if err := c.saveToken(token.AccessToken); err != nil {
				res.Warnings = append(res.Warnings,
					fmt.Sprintf("token obtained but saving to profile %q failed: %v", c.flagSaveProfile, err))
			}
		}
		return res, nil
	})
}

func (c *LoginCommand) oauthConfig(rt *base.Runtime, addr string) *oauth2.Config {
	authURL := c.flagAuthURL
	if authURL == "" {
		authURL = rt.Config.BaseURL + "/v1/oauth/authorize"
	}
	tokenURL := c.flagTokenURL
	if tokenURL == "" {
		tokenURL = rt.Config.BaseURL + "/v1/oauth/token"
	}
	return &oauth2.Config{
		ClientID:     c.flagClientID,
		ClientSecret: c.flagClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:   authURL,
			TokenURL:  tokenURL,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
		RedirectURL: fmt.Sprintf("http://%s/callback", addr),
	}
}

func (c *LoginCommand) saveToken(token string) error {
	path := c.ConfigPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	return config.SetValue(c.FS, path, c.flagSaveProfile, "token", token)
}

// tokenData strips the oauth2 token down to the fields worth emitting. The
// raw *oauth2.Token marshals internals nobody should parse.
func tokenData(t *oauth2.Token) map[string]any {
	data := map[string]any{
		"access_token": t.AccessToken,
		"token_type":   t.TokenType,
	}
	if t.RefreshToken != "" {
		data["refresh_token"] = t.RefreshToken
	}
	if !t.Expiry.IsZero() {
		data["expires_at"] = t.Expiry.UTC().Format(time.RFC3339)
	}
	if v := t.Extra("workspace_id"); v != nil {
		data["workspace_id"] = v
	}
	if v := t.Extra("bot_id"); v != nil {
		data["bot_id"] = v
	}
	return data
}
