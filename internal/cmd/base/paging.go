package base

import (
	"context"
	"net/url"
	"strconv"

	"github.com/canvas-tools/canvasctl/pkg/apiclient"
	"github.com/canvas-tools/canvasctl/pkg/paginate"
)

// PageRequest describes a paginated endpoint. GET endpoints carry the
// cursor in query parameters; POST endpoints (database query, search)
// carry it in the body.
type PageRequest struct {
	Method string
	Path   string
	Query  url.Values
	Body   map[string]any
}

// PageFlags are the pagination flags shared by every listing command.
type PageFlags struct {
	Stream   bool
	PageSize int
	MaxItems int
}

// Register adds the pagination flags to a command's flag set.
func (p *PageFlags) Register(f *FlagSet) {
	f.BoolVar(&p.Stream, "stream", false,
		"Emit results as NDJSON lines instead of one envelope.")
	f.IntVar(&p.PageSize, "page-size", 0, "Items per page requested from the API.")
	f.IntVar(&p.MaxItems, "max-items", 0, "Stop after this many items.")
}

// ListData is the payload of a non-streamed listing command.
type ListData struct {
	Results any `json:"results"`
	Count   int `json:"count"`
}

// Paginate drives the page request to completion in the mode selected by
// the flags and wraps the outcome as a handler result.
func (rt *Runtime) Paginate(pr PageRequest, flags PageFlags) (*Result, error) {
	fetch := rt.fetchFunc(pr, flags.PageSize)
	opts := paginate.Options{MaxItems: flags.MaxItems}

	if flags.Stream {
		res, err := paginate.Stream(rt.Ctx, fetch, rt.Stream(), opts)
		if err != nil {
			return nil, err
		}
		return &Result{Streamed: res.Streamed}, nil
	}

	res, err := paginate.Collect(rt.Ctx, fetch, opts)
	if err != nil {
		return nil, err
	}
	return &Result{Data: ListData{Results: res.Items, Count: res.Count}}, nil
}

// fetchFunc builds the page-fetch closure handed to the pagination engine.
// Retry behavior comes from the request engine inside it.
func (rt *Runtime) fetchFunc(pr PageRequest, pageSize int) paginate.FetchFunc {
	return func(ctx context.Context, cursor string) (paginate.Page, error) {
		req := apiclient.Request{Method: pr.Method, Path: pr.Path}

		if pr.Body != nil || pr.Method == "POST" {
			body := make(map[string]any, len(pr.Body)+2)
			for k, v := range pr.Body {
				body[k] = v
			}
			if cursor != "" {
				body["start_cursor"] = cursor
			}
			if pageSize > 0 {
				body["page_size"] = pageSize
			}
			req.JSON = body
		} else {
			q := url.Values{}
			for k, vs := range pr.Query {
				q[k] = vs
			}
			if cursor != "" {
				q.Set("start_cursor", cursor)
			}
			if pageSize > 0 {
				q.Set("page_size", strconv.Itoa(pageSize))
			}
			req.Query = q
		}

		resp, err := rt.Client.Do(ctx, req)
		if err != nil {
			return paginate.Page{}, err
		}
		var page paginate.Page
		if err := resp.Decode(&page); err != nil {
			return paginate.Page{}, err
		}
		return page, nil
	}
}
