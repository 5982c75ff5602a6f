package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deg0at/cfaxdlr/internal/carfax"
)

func TestFetchExtensionMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		contentType string
		wantExt     string
	}{
		{"pdf", "application/pdf", ".pdf"},
		{"html with charset", "text/html; charset=utf-8", ".html"},
		{"missing header", "", ".html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.contentType != "" {
					w.Header().Set("Content-Type", tt.contentType)
				} else {
					// Suppress Go's content sniffing so the header is truly absent.
					w.Header()["Content-Type"] = nil
				}
				w.Write([]byte("report-bytes"))
			}))
			defer srv.Close()

			docs := New(nil, carfax.DefaultHeaders("", ""), 0, nil)
			doc, err := docs.Fetch(context.Background(), srv.URL)
			require.NoError(t, err)
			require.Equal(t, tt.wantExt, doc.Extension)
			require.Equal(t, []byte("report-bytes"), doc.Body)
		})
	}
}

func TestFetchSendsHeaders(t *testing.T) {
	t.Parallel()

	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
	}))
	defer srv.Close()

	docs := New(nil, carfax.DefaultHeaders("", ""), 0, nil)
	_, err := docs.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Equal(t, carfax.DefaultUserAgent, got.Get("User-Agent"))
	require.Equal(t, carfax.DefaultReferer, got.Get("Referer"))
}

func TestFetchNon2xx(t *testing.T) {
	t.Parallel()

	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	docs := New(nil, nil, 0, nil)
	_, err := docs.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unexpected status 403")

	// Single attempt only; the report fetch is never retried.
	require.Equal(t, 1, requests)
}

func TestFetchNetworkError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	docs := New(nil, nil, 0, nil)
	_, err := docs.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	require.Contains(t, err.Error(), "fetch report")
}
