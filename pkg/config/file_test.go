package config

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canvas-tools/canvasctl/pkg/errcode"
)

const configPath = "/home/test/.canvasctl/config.hcl"

func TestLoad(t *testing.T) {
	t.Run("missing file yields an empty config", func(t *testing.T) {
		f, err := Load(afero.NewMemMapFs(), configPath)
		require.NoError(t, err)
		assert.Empty(t, f.Profiles)
		assert.Empty(t, f.DefaultProfile)
	})

	t.Run("parses profiles", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		src := `
default_profile = "work"

profile "work" {
  token       = "secret"
  base_url    = "https://api.example"
  api_version = "2025-09-03"
  timeout     = "45s"
  retries     = 5
  pretty      = true
}

profile "play" {
  token = "other"
}
`
		require.NoError(t, afero.WriteFile(fs, configPath, []byte(src), 0o600))

		f, err := Load(fs, configPath)
		require.NoError(t, err)
		assert.Equal(t, "work", f.DefaultProfile)
		require.Len(t, f.Profiles, 2)

		work := f.Profile("work")
		require.NotNil(t, work)
		assert.Equal(t, "secret", work.Token)
		assert.Equal(t, "45s", work.Timeout)
		require.NotNil(t, work.Retries)
		assert.Equal(t, 5, *work.Retries)
		require.NotNil(t, work.Pretty)
		assert.True(t, *work.Pretty)

		assert.Nil(t, f.Profile("ghost"))
	})

	t.Run("malformed HCL is CONFIG_ERROR", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, configPath, []byte(`profile "x" {`), 0o600))
		_, err := Load(fs, configPath)
		require.Error(t, err)
		assert.True(t, errcode.Is(err, errcode.ConfigError))
	})
}

func TestSetValue(t *testing.T) {
	t.Run("creates file and profile from nothing", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, SetValue(fs, configPath, "work", "token", "secret"))

		f, err := Load(fs, configPath)
		require.NoError(t, err)
		work := f.Profile("work")
		require.NotNil(t, work)
		assert.Equal(t, "secret", work.Token)
	})

	t.Run("updates in place and preserves comments", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		src := `# keep me
profile "work" {
  token = "old"
}
`
		require.NoError(t, afero.WriteFile(fs, configPath, []byte(src), 0o600))
		require.NoError(t, SetValue(fs, configPath, "work", "token", "new"))

		out, err := afero.ReadFile(fs, configPath)
		require.NoError(t, err)
		assert.Contains(t, string(out), "# keep me")
		assert.Contains(t, string(out), `"new"`)
		assert.NotContains(t, string(out), `"old"`)
	})

	t.Run("types retries and pretty", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, SetValue(fs, configPath, "work", "retries", "4"))
		require.NoError(t, SetValue(fs, configPath, "work", "pretty", "true"))

		f, err := Load(fs, configPath)
		require.NoError(t, err)
		work := f.Profile("work")
		require.NotNil(t, work)
		require.NotNil(t, work.Retries)
		assert.Equal(t, 4, *work.Retries)
		require.NotNil(t, work.Pretty)
		assert.True(t, *work.Pretty)
	})

	t.Run("rejects unknown keys and bad values", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		err := SetValue(fs, configPath, "work", "colour", "red")
		require.Error(t, err)
		assert.True(t, errcode.Is(err, errcode.InvalidArgument))

		err = SetValue(fs, configPath, "work", "retries", "many")
		require.Error(t, err)
		assert.True(t, errcode.Is(err, errcode.InvalidArgument))

		err = SetValue(fs, configPath, "work", "pretty", "yes")
		require.Error(t, err)
		assert.True(t, errcode.Is(err, errcode.InvalidArgument))
	})
}
