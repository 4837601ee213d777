package page

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semlens/source/weburl"
)

func newTestFetcher(t *testing.T, srv *httptest.Server, maxSize int64) *Fetcher {
	t.Helper()
	return NewFetcher(5*time.Second, "semlens-test", maxSize,
		WithClient(srv.Client()),
		WithValidator(func(string) error { return nil }))
}

func TestFetcher_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "semlens-test", r.Header.Get("User-Agent"))
		if r.Header.Get("If-None-Match") == `"v1"` {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("ETag", `"v1"`)
		w.Header().Set("Last-Modified", "Wed, 21 Oct 2015 07:28:00 GMT")
		_, _ = w.Write([]byte("<html><title>Hi</title></html>"))
	}))
	defer srv.Close()

	f := newTestFetcher(t, srv, 1024)

	res, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, `"v1"`, res.ETag)
	assert.Equal(t, "text/html; charset=utf-8", res.ContentType)
	assert.Equal(t, 2015, res.LastModified.Year())
	assert.Contains(t, string(res.Body), "<title>Hi</title>")
	assert.False(t, res.NotModified())

	res, err = f.FetchWithETag(context.Background(), srv.URL, `"v1"`)
	require.NoError(t, err)
	assert.True(t, res.NotModified())
	assert.Empty(t, res.Body)
}

func TestFetcher_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(make([]byte, 64))
	}))
	defer srv.Close()

	f := newTestFetcher(t, srv, 16)

	_, err := f.Fetch(context.Background(), srv.URL+"/missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 404")
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)

	_, err = f.Fetch(context.Background(), srv.URL+"/big")
	assert.ErrorIs(t, err, ErrContentTooLarge)
}

func TestFetcher_FollowsRedirectURL(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/new", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	res, err := newTestFetcher(t, srv, 1024).Fetch(context.Background(), srv.URL+"/old")
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/new", res.URL)
}

// TestFetcher_DefaultValidation ensures the fetcher integrates with the
// shared weburl validation. The rules themselves are tested in weburl.
func TestFetcher_DefaultValidation(t *testing.T) {
	tests := []struct {
		name      string
		allowHTTP bool
		url       string
	}{
		{"http rejected", false, "http://example.com"},
		{"localhost rejected", true, "http://localhost:8080"},
		{"private IP rejected", false, "https://192.168.1.1/path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFetcher(time.Second, "ua", 1024, WithAllowHTTP(tt.allowHTTP))
			_, err := f.Fetch(context.Background(), tt.url)
			assert.ErrorIs(t, err, weburl.ErrBlockedURL)
		})
	}
}
