// Package config resolves the effective runtime configuration for one
// invocation: explicit flag > piped secret > environment variable > named
// profile > built-in default. The resolved bundle is immutable and is the
// only place canvasctl reads ambient process state.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/spf13/afero"
	"github.com/zclconf/go-cty/cty"

	"github.com/canvas-tools/canvasctl/pkg/errcode"
)

// File is the on-disk profiles configuration.
//
// Example (~/.canvasctl/config.hcl):
//
//	default_profile = "work"
//
//	profile "work" {
//	  token       = "secret_..."
//	  base_url    = "https://api.canvas.dev"
//	  api_version = "2025-09-03"
//	  timeout     = "45s"
//	  retries     = 5
//	}
type File struct {
	DefaultProfile string    `hcl:"default_profile,optional"`
	Profiles       []Profile `hcl:"profile,block"`
}

// Profile is one named configuration bundle.
type Profile struct {
	Name       string `hcl:"name,label"`
	Token      string `hcl:"token,optional"`
	BaseURL    string `hcl:"base_url,optional"`
	APIVersion string `hcl:"api_version,optional"`
	Timeout    string `hcl:"timeout,optional"`
	Retries    *int   `hcl:"retries,optional"`
	Pretty     *bool  `hcl:"pretty,optional"`
}

// Profile returns the named profile, or nil.
func (f *File) Profile(name string) *Profile {
	for i := range f.Profiles {
		if f.Profiles[i].Name == name {
			return &f.Profiles[i]
		}
	}
	return nil
}

// DefaultPath returns the config file location under the user's home
// directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".canvasctl", "config.hcl"), nil
}

// Load parses the profiles file. A missing file yields an empty File so a
// fresh install works without any setup.
func Load(fs afero.Fs, path string) (*File, error) {
	src, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return &File{}, nil
		}
		return nil, errcode.Newf(errcode.ConfigError, "failed to read config file %s", path).WithCause(err)
	}

	var f File
	if err := hclsimple.Decode(path, src, nil, &f); err != nil {
		return nil, errcode.Newf(errcode.ConfigError, "failed to parse config file %s", path).WithCause(err)
	}
	return &f, nil
}

// SetValue updates (or creates) one attribute of one profile, preserving
// the rest of the file byte-for-byte, including comments.
func SetValue(fs afero.Fs, path, profileName, key, value string) error {
	src, err := afero.ReadFile(fs, path)
	if err != nil && !os.IsNotExist(err) {
		return errcode.Newf(errcode.ConfigError, "failed to read config file %s", path).WithCause(err)
	}

	wf, diags := hclwrite.ParseConfig(src, path, hcl.InitialPos)
	if diags.HasErrors() {
		return errcode.Newf(errcode.ConfigError, "failed to parse config file %s", path).WithCause(diags)
	}

	block := findProfileBlock(wf.Body(), profileName)
	if block == nil {
		wf.Body().AppendNewline()
		block = wf.Body().AppendNewBlock("profile", []string{profileName})
	}

	ctyVal, err := attributeValue(key, value)
	if err != nil {
		return err
	}
	block.Body().SetAttributeValue(key, ctyVal)

	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errcode.New(errcode.ConfigError, "failed to create config directory").WithCause(err)
	}
	if err := afero.WriteFile(fs, path, wf.Bytes(), 0o600); err != nil {
		return errcode.Newf(errcode.ConfigError, "failed to write config file %s", path).WithCause(err)
	}
	return nil
}

func findProfileBlock(body *hclwrite.Body, name string) *hclwrite.Block {
	for _, block := range body.Blocks() {
		if block.Type() != "profile" {
			continue
		}
		labels := block.Labels()
		if len(labels) == 1 && labels[0] == name {
			return block
		}
	}
	return nil
}

// attributeValue types the raw string for the given key. Unknown keys are
// rejected so typos never silently land in the file.
func attributeValue(key, value string) (cty.Value, error) {
	switch key {
	case "token", "base_url", "api_version", "timeout":
		return cty.StringVal(value), nil
	case "retries":
		var n int
		if _, err := fmt.Sscanf(value, "%d", &n); err != nil || n < 0 {
			return cty.NilVal, errcode.Newf(errcode.InvalidArgument, "retries must be a non-negative integer, got %q", value)
		}
		return cty.NumberIntVal(int64(n)), nil
	case "pretty":
		switch value {
		case "true":
			return cty.BoolVal(true), nil
		case "false":
			return cty.BoolVal(false), nil
		default:
			return cty.NilVal, errcode.Newf(errcode.InvalidArgument, "pretty must be true or false, got %q", value)
		}
	default:
		return cty.NilVal, errcode.Newf(errcode.InvalidArgument, "unknown config key %q", key)
	}
}
