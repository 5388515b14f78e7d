package base

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canvas-tools/canvasctl/pkg/errcode"
)

func TestUsesStdin(t *testing.T) {
	assert.True(t, UsesStdin("-"))
	assert.True(t, UsesStdin("", "x", "-"))
	assert.False(t, UsesStdin("", "x", "@file.json"))
	assert.False(t, UsesStdin())
}

func TestDocument(t *testing.T) {
	newRuntime := func(stdin string) *Runtime {
		return &Runtime{
			FS:    afero.NewMemMapFs(),
			Stdin: strings.NewReader(stdin),
		}
	}

	t.Run("inline JSON", func(t *testing.T) {
		rt := newRuntime("")
		doc, err := rt.Document(`{"parent":{"page_id":"abc"}}`)
		require.NoError(t, err)
		assert.Contains(t, doc, "parent")
	})

	t.Run("stdin marker", func(t *testing.T) {
		rt := newRuntime(`{"title":"from stdin"}`)
		doc, err := rt.Document("-")
		require.NoError(t, err)
		assert.Equal(t, "from stdin", doc["title"])
	})

	t.Run("JSON file reference", func(t *testing.T) {
		rt := newRuntime("")
		require.NoError(t, afero.WriteFile(rt.FS, "/docs/body.json", []byte(`{"k":"v"}`), 0o644))
		doc, err := rt.Document("@/docs/body.json")
		require.NoError(t, err)
		assert.Equal(t, "v", doc["k"])
	})

	t.Run("YAML file reference", func(t *testing.T) {
		rt := newRuntime("")
		src := "filter:\n  property: Status\n  select:\n    equals: Done\n"
		require.NoError(t, afero.WriteFile(rt.FS, "/docs/query.yaml", []byte(src), 0o644))
		doc, err := rt.Document("@/docs/query.yaml")
		require.NoError(t, err)
		filter, ok := doc["filter"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "Status", filter["property"])
	})

	t.Run("missing file is INVALID_ARGUMENT", func(t *testing.T) {
		rt := newRuntime("")
		_, err := rt.Document("@/docs/missing.json")
		require.Error(t, err)
		assert.True(t, errcode.Is(err, errcode.InvalidArgument))
	})

	t.Run("malformed inline JSON is INVALID_ARGUMENT", func(t *testing.T) {
		rt := newRuntime("")
		_, err := rt.Document(`{broken`)
		require.Error(t, err)
		assert.True(t, errcode.Is(err, errcode.InvalidArgument))
	})
}
