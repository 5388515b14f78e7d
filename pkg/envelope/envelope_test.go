package envelope

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canvas-tools/canvasctl/pkg/errcode"
)

func testMeta() Metadata {
	return Metadata{Command: "pages get", DurationMS: 12, Version: "0.1.0", SchemaVersion: SchemaVersion}
}

func TestSuccess(t *testing.T) {
	t.Run("warnings serialize as an empty array, never null", func(t *testing.T) {
		env := Success(map[string]any{"id": "abc"}, nil, testMeta())
		b, err := json.Marshal(env)
		require.NoError(t, err)
		assert.Contains(t, string(b), `"warnings":[]`)
		assert.NotContains(t, string(b), `"warnings":null`)
	})

	t.Run("carries the status and metadata", func(t *testing.T) {
		env := Success(nil, []string{"heads up"}, testMeta())
		assert.Equal(t, StatusSuccess, env.Status)
		assert.Equal(t, []string{"heads up"}, env.Warnings)
		assert.Equal(t, "pages get", env.Metadata.Command)
	})
}

func TestPartial(t *testing.T) {
	env := Partial(PartialData{}, testMeta())
	b, err := json.Marshal(env)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"succeeded":[]`)
	assert.Contains(t, string(b), `"failed":[]`)
	assert.Equal(t, StatusPartial, env.Status)
}

func TestFromError(t *testing.T) {
	err := errcode.New(errcode.RateLimited, "slow down").
		WithSuggestion("retry later").
		WithContext("http_status", 429)
	env := FromError(err, testMeta())

	require.NotNil(t, env.Error)
	assert.Equal(t, StatusError, env.Status)
	assert.Equal(t, "RATE_LIMITED", env.Error.Code)
	assert.Equal(t, "slow down", env.Error.Message)
	assert.True(t, env.Error.Recoverable)
	assert.Equal(t, "retry later", env.Error.SuggestedAction)
	assert.Equal(t, 429, env.Error.Context["http_status"])
	assert.Nil(t, env.Data)
}

func TestWriter(t *testing.T) {
	t.Run("writes exactly one line of JSON", func(t *testing.T) {
		var out bytes.Buffer
		w := &Writer{Out: &out}
		require.NoError(t, w.Write(Success("ok", nil, testMeta())))

		lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
		require.Len(t, lines, 1)

		var env Envelope
		require.NoError(t, json.Unmarshal([]byte(lines[0]), &env))
		assert.Equal(t, StatusSuccess, env.Status)
	})

	t.Run("pretty mode emits indented JSON", func(t *testing.T) {
		var out bytes.Buffer
		w := &Writer{Out: &out, Pretty: true}
		require.NoError(t, w.Write(Success("ok", nil, testMeta())))
		assert.Contains(t, out.String(), "\n  \"status\"")
	})

	t.Run("copy file is byte-identical to stdout", func(t *testing.T) {
		var out bytes.Buffer
		fs := afero.NewMemMapFs()
		w := &Writer{Out: &out, CopyPath: "/tmp/copy.json", FS: fs}
		require.NoError(t, w.Write(Success(map[string]any{"k": "v"}, nil, testMeta())))

		copied, err := afero.ReadFile(fs, "/tmp/copy.json")
		require.NoError(t, err)
		assert.Equal(t, out.Bytes(), copied)
	})

	t.Run("failed copy surfaces as CopyError with stdout intact", func(t *testing.T) {
		var out bytes.Buffer
		fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
		w := &Writer{Out: &out, CopyPath: "/tmp/copy.json", FS: fs}

		err := w.Write(Success(map[string]any{"k": "v"}, nil, testMeta()))
		require.Error(t, err)
		var copyErr *CopyError
		require.True(t, errors.As(err, &copyErr))
		assert.Equal(t, "/tmp/copy.json", copyErr.Path)

		var env Envelope
		require.NoError(t, json.Unmarshal(out.Bytes(), &env))
		assert.Equal(t, StatusSuccess, env.Status)
	})
}

func TestStreamWriter(t *testing.T) {
	t.Run("items then exactly one summary", func(t *testing.T) {
		var out bytes.Buffer
		s := NewStreamWriter(&out)
		require.NoError(t, s.Item(map[string]any{"n": 1}))
		require.NoError(t, s.Item(map[string]any{"n": 2}))
		require.NoError(t, s.Close())
		require.NoError(t, s.Close()) // idempotent

		lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
		require.Len(t, lines, 3)

		var first, last Line
		require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
		require.NoError(t, json.Unmarshal([]byte(lines[2]), &last))
		assert.Equal(t, LineItem, first.Type)
		assert.Equal(t, LineSummary, last.Type)

		summary, err := json.Marshal(last.Data)
		require.NoError(t, err)
		assert.JSONEq(t, `{"count":2}`, string(summary))
	})

	t.Run("empty stream is just the summary", func(t *testing.T) {
		var out bytes.Buffer
		s := NewStreamWriter(&out)
		require.NoError(t, s.Close())

		lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
		require.Len(t, lines, 1)
		assert.Contains(t, lines[0], `"count":0`)
	})

	t.Run("item after close is rejected", func(t *testing.T) {
		s := NewStreamWriter(&bytes.Buffer{})
		require.NoError(t, s.Close())
		assert.Error(t, s.Item("late"))
	})
}
