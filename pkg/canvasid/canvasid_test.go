package canvasid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canvas-tools/canvasctl/pkg/errcode"
)

func TestNormalize(t *testing.T) {
	const canonical = "550e8400-e29b-41d4-a716-446655440000"

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "canonical form passes through",
			input: canonical,
			want:  canonical,
		},
		{
			name:  "compact form gains dashes",
			input: "550e8400e29b41d4a716446655440000",
			want:  canonical,
		},
		{
			name:  "uppercase is lowered",
			input: "550E8400E29B41D4A716446655440000",
			want:  canonical,
		},
		{
			name:  "url with slug",
			input: "https://canvas.dev/ws/Road-Map-550e8400e29b41d4a716446655440000",
			want:  canonical,
		},
		{
			name:  "url with query string",
			input: "https://canvas.dev/Road-Map-550e8400e29b41d4a716446655440000?v=abc",
			want:  canonical,
		},
		{
			name:  "surrounding whitespace",
			input: "  " + canonical + "\n",
			want:  canonical,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
		{
			name:    "garbage",
			input:   "not-an-id",
			wantErr: true,
		},
		{
			name:    "too short hex",
			input:   "550e8400e29b",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errcode.Is(err, errcode.InvalidArgument))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
