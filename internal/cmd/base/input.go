package base

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/canvas-tools/canvasctl/pkg/errcode"
)

// UsesStdin reports whether any flag value is the literal "-" stdin marker.
// The harness needs this to reject the combination with -token-stdin.
func UsesStdin(values ...string) bool {
	for _, v := range values {
		if v == "-" {
			return true
		}
	}
	return false
}

// Document reads a structured document from a flag value: "-" reads stdin,
// "@path" reads a file (JSON, or YAML for .yaml/.yml), anything else is
// parsed as inline JSON.
func (rt *Runtime) Document(value string) (map[string]any, error) {
	var (
		raw    []byte
		err    error
		isYAML bool
	)

	switch {
	case value == "-":
		raw, err = io.ReadAll(rt.Stdin)
		if err != nil {
			return nil, errcode.New(errcode.InvalidArgument, "failed to read document from stdin").WithCause(err)
		}
	case strings.HasPrefix(value, "@"):
		path := strings.TrimPrefix(value, "@")
		raw, err = afero.ReadFile(rt.FS, path)
		if err != nil {
			return nil, errcode.Newf(errcode.InvalidArgument, "failed to read document file %s", path).WithCause(err)
		}
		lower := strings.ToLower(path)
		isYAML = strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml")
	default:
		raw = []byte(value)
	}

	doc := make(map[string]any)
	if isYAML {
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, errcode.New(errcode.InvalidArgument, "invalid YAML document").WithCause(err)
		}
		return doc, nil
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errcode.New(errcode.InvalidArgument, "invalid JSON document").WithCause(err)
	}
	return doc, nil
}
