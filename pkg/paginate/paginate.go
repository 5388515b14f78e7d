// Package paginate drives a cursor-based listing endpoint to completion,
// either accumulating every item in memory or streaming each one as an
// NDJSON line. Retry behavior belongs to the fetch function (the request
// engine), not to this loop.
package paginate

import (
	"context"
	"encoding/json"

	"github.com/canvas-tools/canvasctl/pkg/envelope"
	"github.com/canvas-tools/canvasctl/pkg/errcode"
)

// Page is one page of results from a listing endpoint.
type Page struct {
	Results    []json.RawMessage `json:"results"`
	HasMore    bool              `json:"has_more"`
	NextCursor string            `json:"next_cursor"`
}

// FetchFunc fetches the page starting at cursor. An empty cursor requests
// the first page.
type FetchFunc func(ctx context.Context, cursor string) (Page, error)

// Result is the outcome of a completed pagination run.
type Result struct {
	// Items holds every item in page order. Nil when Streamed.
	Items []json.RawMessage `json:"results"`

	// Count is the total number of items seen.
	Count int `json:"count"`

	// Streamed reports that output was already fully emitted and the caller
	// must not wrap Items in an envelope.
	Streamed bool `json:"-"`
}

// Options bounds a pagination run.
type Options struct {
	// MaxItems stops the walk after this many items when positive.
	MaxItems int
}

// Collect walks every page and returns the accumulated items in page order.
func Collect(ctx context.Context, fetch FetchFunc, opts Options) (*Result, error) {
	return run(ctx, fetch, nil, opts)
}

// Stream walks every page, emitting each item immediately through sw, then
// writes the terminal summary line. The returned result carries only the
// count.
func Stream(ctx context.Context, fetch FetchFunc, sw *envelope.StreamWriter, opts Options) (*Result, error) {
	return run(ctx, fetch, sw, opts)
}

func run(ctx context.Context, fetch FetchFunc, sw *envelope.StreamWriter, opts Options) (*Result, error) {
	var items []json.RawMessage
	count := 0
	cursor := ""

	for {
		if err := ctx.Err(); err != nil {
			return nil, errcode.New(errcode.Timeout, "pagination canceled").WithCause(err)
		}

		page, err := fetch(ctx, cursor)
		if err != nil {
			return nil, err
		}

		for _, item := range page.Results {
			if sw != nil {
				if err := sw.Item(item); err != nil {
					return nil, errcode.From(err)
				}
			} else {
				items = append(items, item)
			}
			count++
			if opts.MaxItems > 0 && count >= opts.MaxItems {
				return finish(items, count, sw)
			}
		}

		// A dishonest has_more with no cursor ends the walk rather than
		// looping forever.
		if !page.HasMore || page.NextCursor == "" {
			return finish(items, count, sw)
		}
		cursor = page.NextCursor
	}
}

func finish(items []json.RawMessage, count int, sw *envelope.StreamWriter) (*Result, error) {
	if sw != nil {
		if err := sw.Close(); err != nil {
			return nil, errcode.From(err)
		}
		return &Result{Count: count, Streamed: true}, nil
	}
	if items == nil {
		items = []json.RawMessage{}
	}
	return &Result{Items: items, Count: count}, nil
}
