package config

import (
	"strconv"
	"time"

	"github.com/canvas-tools/canvasctl/pkg/apiclient"
	"github.com/canvas-tools/canvasctl/pkg/errcode"
)

// Environment variable names recognized during resolution.
const (
	EnvToken      = "CANVAS_TOKEN"
	EnvBaseURL    = "CANVAS_BASE_URL"
	EnvAPIVersion = "CANVAS_API_VERSION"
	EnvTimeoutMS  = "CANVAS_TIMEOUT_MS"
	EnvRetries    = "CANVAS_RETRIES"
	EnvProfile    = "CANVAS_PROFILE"
)

// Resolved is the effective configuration for one invocation. It is built
// once, passed into every component, and never persisted.
type Resolved struct {
	BaseURL    string
	Token      string
	APIVersion string
	Timeout    time.Duration
	MaxRetries int
	Pretty     bool
	Quiet      bool
	Profile    string
	OutputPath string
}

// ClientConfig converts the resolved bundle into a request-engine config.
func (r Resolved) ClientConfig() apiclient.Config {
	return apiclient.Config{
		BaseURL:    r.BaseURL,
		Token:      r.Token,
		APIVersion: r.APIVersion,
		Timeout:    r.Timeout,
		MaxRetries: r.MaxRetries,
	}
}

// Overrides carries the explicit flag values plus the piped secret, already
// read from stdin by the harness. Zero values mean "not set".
type Overrides struct {
	Profile    string
	Token      string
	StdinToken string
	BaseURL    string
	APIVersion string
	Timeout    time.Duration
	Retries    *int
	Pretty     *bool
	Quiet      bool
	OutputPath string
}

// Resolve merges the precedence chain for every field: flag > piped secret
// > environment > profile > default. env is injected so tests don't touch
// the process environment.
func Resolve(o Overrides, env func(string) string, file *File) (Resolved, error) {
	defaults := apiclient.DefaultConfig()
	r := Resolved{
		BaseURL:    defaults.BaseURL,
		APIVersion: defaults.APIVersion,
		Timeout:    defaults.Timeout,
		MaxRetries: defaults.MaxRetries,
		Quiet:      o.Quiet,
		OutputPath: o.OutputPath,
	}

	r.Profile = firstNonEmpty(o.Profile, env(EnvProfile), file.DefaultProfile)
	var profile *Profile
	if r.Profile != "" {
		profile = file.Profile(r.Profile)
		if profile == nil && o.Profile != "" {
			return Resolved{}, errcode.Newf(errcode.ConfigError, "profile %q not found in config file", o.Profile)
		}
	}
	if profile == nil {
		profile = &Profile{}
	}

	r.Token = firstNonEmpty(o.Token, o.StdinToken, env(EnvToken), profile.Token)
	r.BaseURL = firstNonEmpty(o.BaseURL, env(EnvBaseURL), profile.BaseURL, r.BaseURL)
	r.APIVersion = firstNonEmpty(o.APIVersion, env(EnvAPIVersion), profile.APIVersion, r.APIVersion)

	switch {
	case o.Timeout > 0:
		r.Timeout = o.Timeout
	case env(EnvTimeoutMS) != "":
		ms, err := strconv.Atoi(env(EnvTimeoutMS))
		if err != nil || ms <= 0 {
			return Resolved{}, errcode.Newf(errcode.ConfigError, "%s must be a positive integer", EnvTimeoutMS)
		}
		r.Timeout = time.Duration(ms) * time.Millisecond
	case profile.Timeout != "":
		d, err := time.ParseDuration(profile.Timeout)
		if err != nil || d <= 0 {
			return Resolved{}, errcode.Newf(errcode.ConfigError, "profile %q has invalid timeout %q", r.Profile, profile.Timeout)
		}
		r.Timeout = d
	}

	switch {
	case o.Retries != nil:
		if *o.Retries < 0 {
			return Resolved{}, errcode.New(errcode.InvalidArgument, "retries must not be negative")
		}
		r.MaxRetries = *o.Retries
	case env(EnvRetries) != "":
		n, err := strconv.Atoi(env(EnvRetries))
		if err != nil || n < 0 {
			return Resolved{}, errcode.Newf(errcode.ConfigError, "%s must be a non-negative integer", EnvRetries)
		}
		r.MaxRetries = n
	case profile.Retries != nil:
		r.MaxRetries = *profile.Retries
	}

	switch {
	case o.Pretty != nil:
		r.Pretty = *o.Pretty
	case profile.Pretty != nil:
		r.Pretty = *profile.Pretty
	}

	return r, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
