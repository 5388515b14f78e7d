package paginate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canvas-tools/canvasctl/pkg/envelope"
	"github.com/canvas-tools/canvasctl/pkg/errcode"
)

// pagedFetch serves the given pages in order, keyed by the cursor chain
// "" -> "c1" -> "c2" -> ...
func pagedFetch(t *testing.T, pages [][]string) (FetchFunc, *[]string) {
	t.Helper()
	var cursorsSeen []string
	fetch := func(ctx context.Context, cursor string) (Page, error) {
		cursorsSeen = append(cursorsSeen, cursor)
		idx := 0
		if cursor != "" {
			_, err := fmt.Sscanf(cursor, "c%d", &idx)
			require.NoError(t, err)
		}
		require.Less(t, idx, len(pages), "fetched past the last page")

		page := Page{}
		for _, item := range pages[idx] {
			page.Results = append(page.Results, json.RawMessage(fmt.Sprintf("{%q:%q}", "id", item)))
		}
		if idx < len(pages)-1 {
			page.HasMore = true
			page.NextCursor = fmt.Sprintf("c%d", idx+1)
		}
		return page, nil
	}
	return fetch, &cursorsSeen
}

func itemIDs(items []json.RawMessage) []string {
	var ids []string
	for _, raw := range items {
		var obj struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(raw, &obj); err == nil {
			ids = append(ids, obj.ID)
		}
	}
	return ids
}

func TestCollect(t *testing.T) {
	t.Run("walks all pages in order", func(t *testing.T) {
		fetch, cursors := pagedFetch(t, [][]string{{"a", "b"}, {"c"}, {"d", "e"}})
		res, err := Collect(context.Background(), fetch, Options{})
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c", "d", "e"}, itemIDs(res.Items))
		assert.Equal(t, 5, res.Count)
		assert.Equal(t, []string{"", "c1", "c2"}, *cursors)
	})

	t.Run("single page with has_more false", func(t *testing.T) {
		fetch, cursors := pagedFetch(t, [][]string{{"a"}})
		res, err := Collect(context.Background(), fetch, Options{})
		require.NoError(t, err)
		assert.Equal(t, 1, res.Count)
		assert.Len(t, *cursors, 1)
	})

	t.Run("empty listing yields an empty array, not nil", func(t *testing.T) {
		fetch, _ := pagedFetch(t, [][]string{{}})
		res, err := Collect(context.Background(), fetch, Options{})
		require.NoError(t, err)
		require.NotNil(t, res.Items)
		assert.Empty(t, res.Items)
	})

	t.Run("max items cuts mid-page", func(t *testing.T) {
		fetch, cursors := pagedFetch(t, [][]string{{"a", "b", "c"}, {"d"}})
		res, err := Collect(context.Background(), fetch, Options{MaxItems: 2})
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, itemIDs(res.Items))
		assert.Len(t, *cursors, 1, "must not fetch past the cut")
	})

	t.Run("dishonest has_more with empty cursor terminates", func(t *testing.T) {
		calls := 0
		fetch := func(ctx context.Context, cursor string) (Page, error) {
			calls++
			return Page{
				Results: []json.RawMessage{json.RawMessage(`{"id":"x"}`)},
				HasMore: true,
				// no next_cursor
			}, nil
		}
		res, err := Collect(context.Background(), fetch, Options{})
		require.NoError(t, err)
		assert.Equal(t, 1, res.Count)
		assert.Equal(t, 1, calls)
	})

	t.Run("fetch error aborts the walk", func(t *testing.T) {
		boom := errcode.New(errcode.RateLimited, "slow down")
		fetch := func(ctx context.Context, cursor string) (Page, error) {
			return Page{}, boom
		}
		_, err := Collect(context.Background(), fetch, Options{})
		assert.True(t, errcode.Is(err, errcode.RateLimited))
	})

	t.Run("canceled context surfaces TIMEOUT", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		fetch, _ := pagedFetch(t, [][]string{{"a"}})
		_, err := Collect(ctx, fetch, Options{})
		assert.True(t, errcode.Is(err, errcode.Timeout))
	})
}

func TestStream(t *testing.T) {
	t.Run("emits the same items collect would", func(t *testing.T) {
		pages := [][]string{{"a", "b"}, {"c"}}

		fetch, _ := pagedFetch(t, pages)
		collected, err := Collect(context.Background(), fetch, Options{})
		require.NoError(t, err)

		var out bytes.Buffer
		fetch2, _ := pagedFetch(t, pages)
		streamed, err := Stream(context.Background(), fetch2, envelope.NewStreamWriter(&out), Options{})
		require.NoError(t, err)

		assert.True(t, streamed.Streamed)
		assert.Nil(t, streamed.Items)
		assert.Equal(t, collected.Count, streamed.Count)

		lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
		require.Len(t, lines, collected.Count+1)

		var ids []string
		for _, l := range lines[:len(lines)-1] {
			var line envelope.Line
			require.NoError(t, json.Unmarshal([]byte(l), &line))
			require.Equal(t, envelope.LineItem, line.Type)
			inner, err := json.Marshal(line.Data)
			require.NoError(t, err)
			var obj struct {
				ID string `json:"id"`
			}
			require.NoError(t, json.Unmarshal(inner, &obj))
			ids = append(ids, obj.ID)
		}
		assert.Equal(t, itemIDs(collected.Items), ids)

		var last envelope.Line
		require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &last))
		assert.Equal(t, envelope.LineSummary, last.Type)
	})

	t.Run("summary count honors max items", func(t *testing.T) {
		var out bytes.Buffer
		fetch, _ := pagedFetch(t, [][]string{{"a", "b", "c"}})
		res, err := Stream(context.Background(), fetch, envelope.NewStreamWriter(&out), Options{MaxItems: 2})
		require.NoError(t, err)
		assert.Equal(t, 2, res.Count)
		assert.Contains(t, out.String(), `"count":2`)
	})
}
