package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canvas-tools/canvasctl/pkg/errcode"
)

func testClient(t *testing.T, handler http.HandlerFunc, mutate func(*Config)) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := DefaultConfig()
	cfg.BaseURL = srv.URL
	cfg.Token = "secret-token"
	cfg.MaxRetries = 2
	if mutate != nil {
		mutate(&cfg)
	}
	return New(cfg, hclog.NewNullLogger())
}

func TestDoHeaders(t *testing.T) {
	var got http.Header
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		fmt.Fprint(w, `{"ok":true}`)
	}, nil)

	_, err := client.Do(context.Background(), Request{
		Method:         "POST",
		Path:           "/v1/pages",
		JSON:           map[string]any{"a": 1},
		IdempotencyKey: "key-123",
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret-token", got.Get("Authorization"))
	assert.Equal(t, DefaultConfig().APIVersion, got.Get("Canvas-Version"))
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, "key-123", got.Get("Idempotency-Key"))
}

func TestDoStatusMapping(t *testing.T) {
	tests := []struct {
		status int
		code   errcode.Code
	}{
		{http.StatusBadRequest, errcode.InvalidArgument},
		{http.StatusUnauthorized, errcode.AuthFailed},
		{http.StatusForbidden, errcode.PermissionDenied},
		{http.StatusNotFound, errcode.ResourceNotFound},
		{http.StatusConflict, errcode.Conflict},
		{http.StatusPreconditionFailed, errcode.PreconditionFailed},
		{http.StatusInternalServerError, errcode.InternalError},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d", tt.status), func(t *testing.T) {
			client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, `{"code":"upstream_detail","message":"nope"}`)
			}, nil)

			_, err := client.Do(context.Background(), Request{Method: "GET", Path: "/v1/pages/x"})
			require.Error(t, err)
			assert.True(t, errcode.Is(err, tt.code), "want %s, got %v", tt.code, err)

			taxErr := errcode.From(err)
			assert.Equal(t, tt.status, taxErr.Context["http_status"])
			assert.Equal(t, "upstream_detail", taxErr.Context["upstream_code"])
			assert.Equal(t, "nope", taxErr.Message)
		})
	}

	t.Run("5xx is marked recoverable", func(t *testing.T) {
		client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}, nil)
		_, err := client.Do(context.Background(), Request{Method: "GET", Path: "/v1/users/me"})
		require.Error(t, err)
		assert.True(t, errcode.From(err).Recoverable())
	})

	t.Run("4xx fails immediately without retries", func(t *testing.T) {
		calls := 0
		client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusNotFound)
		}, nil)
		_, err := client.Do(context.Background(), Request{Method: "GET", Path: "/v1/pages/x"})
		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})
}

func TestDoRateLimitRetry(t *testing.T) {
	t.Run("retries after 429 and honors Retry-After seconds", func(t *testing.T) {
		calls := 0
		client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			calls++
			if calls < 3 {
				w.Header().Set("Retry-After", "0")
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			fmt.Fprint(w, `{"ok":true}`)
		}, nil)

		resp, err := client.Do(context.Background(), Request{Method: "GET", Path: "/v1/users"})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("attempt budget exhaustion surfaces RATE_LIMITED", func(t *testing.T) {
		calls := 0
		client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
		}, nil)

		_, err := client.Do(context.Background(), Request{Method: "GET", Path: "/v1/users"})
		require.Error(t, err)
		assert.True(t, errcode.Is(err, errcode.RateLimited))
		assert.Equal(t, 3, calls) // MaxRetries=2 means 3 physical attempts
	})
}

func TestDoTimeout(t *testing.T) {
	t.Run("per-attempt timeout retries then surfaces TIMEOUT", func(t *testing.T) {
		calls := 0
		client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			calls++
			time.Sleep(200 * time.Millisecond)
		}, func(cfg *Config) {
			cfg.Timeout = 20 * time.Millisecond
		})

		_, err := client.Do(context.Background(), Request{Method: "GET", Path: "/v1/users"})
		require.Error(t, err)
		assert.True(t, errcode.Is(err, errcode.Timeout))
		assert.Equal(t, 3, calls)
	})

	t.Run("timeout then success recovers", func(t *testing.T) {
		calls := 0
		client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			calls++
			if calls == 1 {
				time.Sleep(200 * time.Millisecond)
				return
			}
			fmt.Fprint(w, `{"ok":true}`)
		}, func(cfg *Config) {
			cfg.Timeout = 50 * time.Millisecond
		})

		resp, err := client.Do(context.Background(), Request{Method: "GET", Path: "/v1/users"})
		require.NoError(t, err)
		assert.Equal(t, 2, calls)

		var body map[string]bool
		require.NoError(t, resp.Decode(&body))
		assert.True(t, body["ok"])
	})

	t.Run("canceled context is TIMEOUT, not a retry", func(t *testing.T) {
		client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(time.Second)
		}, nil)

		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			time.Sleep(20 * time.Millisecond)
			cancel()
		}()
		_, err := client.Do(ctx, Request{Method: "GET", Path: "/v1/users"})
		require.Error(t, err)
		assert.True(t, errcode.Is(err, errcode.Timeout))
	})
}

func TestDoBody(t *testing.T) {
	t.Run("multipart form replays on retry", func(t *testing.T) {
		var bodies []string
		client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseMultipartForm(1<<20))
			file, _, err := r.FormFile("file")
			require.NoError(t, err)
			defer file.Close()
			buf := make([]byte, 64)
			n, _ := file.Read(buf)
			bodies = append(bodies, string(buf[:n]))

			if len(bodies) == 1 {
				w.Header().Set("Retry-After", "0")
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			fmt.Fprint(w, `{}`)
		}, nil)

		_, err := client.Do(context.Background(), Request{
			Method: "POST",
			Path:   "/v1/file_uploads/u1/send",
			Form: &MultipartForm{
				FileField: "file",
				FileName:  "notes.txt",
				File:      strings.NewReader("file payload"),
			},
		})
		require.NoError(t, err)
		require.Len(t, bodies, 2)
		assert.Equal(t, "file payload", bodies[0])
		assert.Equal(t, bodies[0], bodies[1])
	})

	t.Run("dual bodies are rejected", func(t *testing.T) {
		client := testClient(t, func(w http.ResponseWriter, r *http.Request) {}, nil)
		_, err := client.Do(context.Background(), Request{
			Method: "POST",
			Path:   "/v1/pages",
			JSON:   map[string]any{},
			Form:   &MultipartForm{},
		})
		require.Error(t, err)
		assert.True(t, errcode.Is(err, errcode.InvalidArgument))
	})

	t.Run("query parameters are encoded", func(t *testing.T) {
		var gotQuery url.Values
		client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.Query()
			fmt.Fprint(w, `{}`)
		}, nil)

		_, err := client.Do(context.Background(), Request{
			Method: "GET",
			Path:   "/v1/comments",
			Query:  url.Values{"block_id": []string{"abc"}},
		})
		require.NoError(t, err)
		assert.Equal(t, "abc", gotQuery.Get("block_id"))
	})
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"plain path", "/v1/pages/abc", false},
		{"nested path", "/v1/blocks/abc/children", false},
		{"parent segment", "/v1/pages/../admin", true},
		{"encoded traversal", "/v1/pages/..%2Fadmin", true},
		{"mixed case encoded", "/v1/pages/%2E%2E/admin", true},
		{"embedded dots", "/v1/pages/a..b", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.path)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errcode.Is(err, errcode.InvalidArgument))
			} else {
				assert.NoError(t, err)
			}
		})
	}

	t.Run("client rejects before any request", func(t *testing.T) {
		calls := 0
		client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			calls++
		}, nil)
		_, err := client.Do(context.Background(), Request{Method: "GET", Path: "/v1/../etc"})
		require.Error(t, err)
		assert.Zero(t, calls)
	})
}

func TestRetryAfter(t *testing.T) {
	h := http.Header{}
	assert.Equal(t, defaultRetryAfter, retryAfter(h))

	h.Set("Retry-After", "3")
	assert.Equal(t, 3*time.Second, retryAfter(h))

	h.Set("Retry-After", "Wed, 21 Oct 2026 07:28:00 GMT")
	assert.Equal(t, defaultRetryAfter, retryAfter(h))

	h.Set("Retry-After", "-5")
	assert.Equal(t, defaultRetryAfter, retryAfter(h))
}

func TestResponseDecode(t *testing.T) {
	t.Run("empty body is a no-op", func(t *testing.T) {
		var v map[string]any
		r := &Response{StatusCode: 200}
		require.NoError(t, r.Decode(&v))
		assert.Nil(t, v)
	})

	t.Run("malformed body is INTERNAL_ERROR", func(t *testing.T) {
		var v map[string]any
		r := &Response{StatusCode: 200, Body: []byte("{oops")}
		err := r.Decode(&v)
		require.Error(t, err)
		assert.True(t, errcode.Is(err, errcode.InternalError))
	})
}

func TestDecodeRaw(t *testing.T) {
	r := &Response{StatusCode: 200, Body: []byte(`{"id":"abc"}`)}
	var raw json.RawMessage
	require.NoError(t, r.Decode(&raw))
	assert.JSONEq(t, `{"id":"abc"}`, string(raw))
}
