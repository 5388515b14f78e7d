// Package canvasid canonicalizes resource identifiers. The API itself only
// accepts the dashed lowercase UUID form, but callers paste IDs from many
// places: the web app's URLs carry a compact 32-hex form at the end of a
// title slug, and scripts often strip the dashes.
package canvasid

import (
	"strings"

	"github.com/google/uuid"

	"github.com/canvas-tools/canvasctl/pkg/errcode"
)

// Normalize converts any accepted identifier spelling into the canonical
// dashed lowercase UUID:
//
//   - "550e8400-e29b-41d4-a716-446655440000" (canonical, passes through)
//   - "550e8400e29b41d4a716446655440000" (compact)
//   - "https://canvas.dev/My-Page-550e8400e29b41d4a716446655440000" (URL)
func Normalize(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}
	if i := strings.LastIndex(s, "/"); i >= 0 {
		s = s[i+1:]
	}

	if u, err := uuid.Parse(s); err == nil {
		return u.String(), nil
	}

	// Title slugs end in the compact ID: "My-Page-<32 hex>".
	if len(s) > 32 {
		if u, err := uuid.Parse(s[len(s)-32:]); err == nil {
			return u.String(), nil
		}
	}

	return "", errcode.Newf(errcode.InvalidArgument, "unrecognized resource ID %q", raw).
		WithSuggestion("pass the resource UUID, with or without dashes, or the resource URL")
}
