package databases

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canvas-tools/canvasctl/pkg/errcode"
)

func doc(t *testing.T, src string) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(src), &m))
	return m
}

func TestValidateFilter(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr bool
	}{
		{
			name: "property leaf with one condition",
			src:  `{"property":"Status","select":{"equals":"Done"}}`,
		},
		{
			name: "timestamp leaf",
			src:  `{"timestamp":"created_time","created_time":{"past_week":{}}}`,
		},
		{
			name: "compound and",
			src: `{"and":[
				{"property":"Status","select":{"equals":"Done"}},
				{"property":"Due","date":{"is_empty":true}}
			]}`,
		},
		{
			name: "nested compound within the depth limit",
			src: `{"and":[
				{"or":[
					{"property":"A","checkbox":{"equals":true}},
					{"property":"B","checkbox":{"equals":false}}
				]},
				{"property":"Status","select":{"equals":"Done"}}
			]}`,
		},
		{
			name:    "leaf with no condition",
			src:     `{"property":"Status"}`,
			wantErr: true,
		},
		{
			name:    "leaf with two conditions",
			src:     `{"property":"Status","select":{"equals":"Done"},"checkbox":{"equals":true}}`,
			wantErr: true,
		},
		{
			name:    "and mixed with property",
			src:     `{"property":"Status","and":[{"property":"A","checkbox":{"equals":true}}]}`,
			wantErr: true,
		},
		{
			name:    "and mixed with or",
			src:     `{"and":[{"property":"A","checkbox":{"equals":true}}],"or":[{"property":"B","checkbox":{"equals":true}}]}`,
			wantErr: true,
		},
		{
			name:    "empty clause",
			src:     `{}`,
			wantErr: true,
		},
		{
			name: "nesting past the limit",
			src: `{"and":[{"or":[{"and":[
				{"property":"A","checkbox":{"equals":true}}
			]}]}]}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateFilter(doc(t, tt.src))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errcode.Is(err, errcode.InvalidArgument))
				taxErr := errcode.From(err)
				assert.NotEmpty(t, taxErr.Context["violations"])
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseDateFilter(t *testing.T) {
	t.Run("iso date", func(t *testing.T) {
		clause, err := parseDateFilter("Due=2026-09-01")
		require.NoError(t, err)
		assert.Equal(t, "Due", clause["property"])
		date, ok := clause["date"].(map[string]any)
		require.True(t, ok)
		assert.Contains(t, date["on_or_after"], "2026-09-01")
	})

	t.Run("loose date literal", func(t *testing.T) {
		clause, err := parseDateFilter("Due=Sep 1, 2026")
		require.NoError(t, err)
		date := clause["date"].(map[string]any)
		assert.Contains(t, date["on_or_after"], "2026-09-01")
	})

	t.Run("missing separator", func(t *testing.T) {
		_, err := parseDateFilter("Due")
		assert.True(t, errcode.Is(err, errcode.InvalidArgument))
	})

	t.Run("unparseable literal", func(t *testing.T) {
		_, err := parseDateFilter("Due=whenever")
		assert.True(t, errcode.Is(err, errcode.InvalidArgument))
	})
}

func TestParseSort(t *testing.T) {
	t.Run("explicit direction", func(t *testing.T) {
		s, err := parseSort("Due:descending")
		require.NoError(t, err)
		assert.Equal(t, "Due", s["property"])
		assert.Equal(t, "descending", s["direction"])
	})

	t.Run("defaults to ascending", func(t *testing.T) {
		s, err := parseSort("Due")
		require.NoError(t, err)
		assert.Equal(t, "ascending", s["direction"])
	})

	t.Run("bad direction", func(t *testing.T) {
		_, err := parseSort("Due:sideways")
		assert.True(t, errcode.Is(err, errcode.InvalidArgument))
	})
}
