package apiclient

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"strings"

	"github.com/canvas-tools/canvasctl/pkg/errcode"
)

// Request describes one logical API call. A command handler constructs it,
// the client consumes it exactly once. The body is a discriminated variant:
// JSON or multipart form, never an untyped payload.
type Request struct {
	Method string
	Path   string
	Query  url.Values

	// JSON is the request body when non-nil. Mutually exclusive with Form.
	JSON any

	// Form is a multipart form body when non-nil. Content-Type is left to
	// the transport so it can set the boundary.
	Form *MultipartForm

	// IdempotencyKey, when set, is sent in the Idempotency-Key header.
	IdempotencyKey string

	// ContentType overrides the default JSON content type.
	ContentType string

	// Headers are merged in last and win over everything the client sets.
	Headers map[string]string
}

// MultipartForm is the payload of a file-upload request.
type MultipartForm struct {
	Fields    map[string]string
	FileField string
	FileName  string
	File      io.Reader
}

// encode renders the form into a multipart body and returns it with the
// generated content type.
func (f *MultipartForm) encode() ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range f.Fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", fmt.Errorf("writing form field %s: %w", k, err)
		}
	}
	if f.File != nil {
		part, err := w.CreateFormFile(f.FileField, f.FileName)
		if err != nil {
			return nil, "", fmt.Errorf("creating form file: %w", err)
		}
		if _, err := io.Copy(part, f.File); err != nil {
			return nil, "", fmt.Errorf("copying form file: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("closing multipart writer: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

// ValidatePath rejects request paths that could escape the API namespace.
// The path is percent-decoded and lowercased before inspection so encoded
// and mixed-case traversal sequences ("..%2f", "%2E%2E/") are caught too.
func ValidatePath(path string) error {
	lowered := strings.ToLower(path)
	decoded, err := url.PathUnescape(lowered)
	if err != nil {
		return errcode.Newf(errcode.InvalidArgument, "invalid request path %q", path).WithCause(err)
	}
	for _, candidate := range []string{lowered, decoded} {
		for _, segment := range strings.Split(candidate, "/") {
			if segment == ".." {
				return errcode.Newf(errcode.InvalidArgument, "request path %q contains a parent-directory segment", path)
			}
		}
		if strings.Contains(candidate, "..") {
			return errcode.Newf(errcode.InvalidArgument, "request path %q contains a traversal sequence", path)
		}
	}
	return nil
}
