package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canvas-tools/canvasctl/pkg/apiclient"
	"github.com/canvas-tools/canvasctl/pkg/errcode"
)

func noEnv(string) string { return "" }

func envMap(m map[string]string) func(string) string {
	return func(key string) string { return m[key] }
}

func intp(n int) *int    { return &n }
func boolp(b bool) *bool { return &b }

func TestResolveDefaults(t *testing.T) {
	r, err := Resolve(Overrides{}, noEnv, &File{})
	require.NoError(t, err)

	defaults := apiclient.DefaultConfig()
	assert.Equal(t, defaults.BaseURL, r.BaseURL)
	assert.Equal(t, defaults.APIVersion, r.APIVersion)
	assert.Equal(t, defaults.Timeout, r.Timeout)
	assert.Equal(t, defaults.MaxRetries, r.MaxRetries)
	assert.Empty(t, r.Token)
	assert.False(t, r.Pretty)
}

func TestResolvePrecedence(t *testing.T) {
	file := &File{
		DefaultProfile: "work",
		Profiles: []Profile{{
			Name:       "work",
			Token:      "profile-token",
			BaseURL:    "https://profile.example",
			APIVersion: "2024-01-01",
			Timeout:    "45s",
			Retries:    intp(7),
		}},
	}
	env := envMap(map[string]string{
		EnvToken:   "env-token",
		EnvBaseURL: "https://env.example",
	})

	t.Run("flag beats everything", func(t *testing.T) {
		r, err := Resolve(Overrides{Token: "flag-token", BaseURL: "https://flag.example"}, env, file)
		require.NoError(t, err)
		assert.Equal(t, "flag-token", r.Token)
		assert.Equal(t, "https://flag.example", r.BaseURL)
	})

	t.Run("stdin token beats env", func(t *testing.T) {
		r, err := Resolve(Overrides{StdinToken: "piped-token"}, env, file)
		require.NoError(t, err)
		assert.Equal(t, "piped-token", r.Token)
	})

	t.Run("env beats profile", func(t *testing.T) {
		r, err := Resolve(Overrides{}, env, file)
		require.NoError(t, err)
		assert.Equal(t, "env-token", r.Token)
		assert.Equal(t, "https://env.example", r.BaseURL)
	})

	t.Run("profile beats defaults", func(t *testing.T) {
		r, err := Resolve(Overrides{}, noEnv, file)
		require.NoError(t, err)
		assert.Equal(t, "profile-token", r.Token)
		assert.Equal(t, "2024-01-01", r.APIVersion)
		assert.Equal(t, 45*time.Second, r.Timeout)
		assert.Equal(t, 7, r.MaxRetries)
	})

	t.Run("precedence is per field, not per source", func(t *testing.T) {
		r, err := Resolve(Overrides{Token: "flag-token"}, env, file)
		require.NoError(t, err)
		assert.Equal(t, "flag-token", r.Token)
		// base_url still falls through to env, timeout to profile
		assert.Equal(t, "https://env.example", r.BaseURL)
		assert.Equal(t, 45*time.Second, r.Timeout)
	})
}

func TestResolveProfileSelection(t *testing.T) {
	file := &File{
		DefaultProfile: "work",
		Profiles: []Profile{
			{Name: "work", Token: "work-token"},
			{Name: "play", Token: "play-token"},
		},
	}

	t.Run("explicit profile flag", func(t *testing.T) {
		r, err := Resolve(Overrides{Profile: "play"}, noEnv, file)
		require.NoError(t, err)
		assert.Equal(t, "play-token", r.Token)
	})

	t.Run("profile from environment", func(t *testing.T) {
		r, err := Resolve(Overrides{}, envMap(map[string]string{EnvProfile: "play"}), file)
		require.NoError(t, err)
		assert.Equal(t, "play-token", r.Token)
	})

	t.Run("explicit unknown profile is CONFIG_ERROR", func(t *testing.T) {
		_, err := Resolve(Overrides{Profile: "ghost"}, noEnv, file)
		require.Error(t, err)
		assert.True(t, errcode.Is(err, errcode.ConfigError))
	})

	t.Run("unknown default profile falls back silently", func(t *testing.T) {
		r, err := Resolve(Overrides{}, noEnv, &File{DefaultProfile: "gone"})
		require.NoError(t, err)
		assert.Empty(t, r.Token)
	})
}

func TestResolveParsing(t *testing.T) {
	t.Run("timeout from env in milliseconds", func(t *testing.T) {
		r, err := Resolve(Overrides{}, envMap(map[string]string{EnvTimeoutMS: "2500"}), &File{})
		require.NoError(t, err)
		assert.Equal(t, 2500*time.Millisecond, r.Timeout)
	})

	t.Run("bad env timeout is CONFIG_ERROR", func(t *testing.T) {
		_, err := Resolve(Overrides{}, envMap(map[string]string{EnvTimeoutMS: "soon"}), &File{})
		require.Error(t, err)
		assert.True(t, errcode.Is(err, errcode.ConfigError))
	})

	t.Run("retries from env", func(t *testing.T) {
		r, err := Resolve(Overrides{}, envMap(map[string]string{EnvRetries: "0"}), &File{})
		require.NoError(t, err)
		assert.Zero(t, r.MaxRetries)
	})

	t.Run("negative flag retries rejected", func(t *testing.T) {
		_, err := Resolve(Overrides{Retries: intp(-1)}, noEnv, &File{})
		require.Error(t, err)
		assert.True(t, errcode.Is(err, errcode.InvalidArgument))
	})

	t.Run("explicit zero retries beats profile", func(t *testing.T) {
		file := &File{
			DefaultProfile: "work",
			Profiles:       []Profile{{Name: "work", Retries: intp(9)}},
		}
		r, err := Resolve(Overrides{Retries: intp(0)}, noEnv, file)
		require.NoError(t, err)
		assert.Zero(t, r.MaxRetries)
	})

	t.Run("pretty flag false beats profile true", func(t *testing.T) {
		file := &File{
			DefaultProfile: "work",
			Profiles:       []Profile{{Name: "work", Pretty: boolp(true)}},
		}
		r, err := Resolve(Overrides{Pretty: boolp(false)}, noEnv, file)
		require.NoError(t, err)
		assert.False(t, r.Pretty)
	})

	t.Run("invalid profile timeout is CONFIG_ERROR", func(t *testing.T) {
		file := &File{
			DefaultProfile: "work",
			Profiles:       []Profile{{Name: "work", Timeout: "whenever"}},
		}
		_, err := Resolve(Overrides{}, noEnv, file)
		require.Error(t, err)
		assert.True(t, errcode.Is(err, errcode.ConfigError))
	})
}
