package resolver

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deg0at/cfaxdlr/internal/carfax"
)

const listingPage = `<!DOCTYPE html>
<html><body>
<a href="/finance">Financing</a>
<a class="j-carfax-link" href=" https://reports.test/carfax/abc123 ">View Carfax</a>
<a class="j-carfax-link" href="https://reports.test/carfax/second">Duplicate</a>
</body></html>`

func TestScrapeResolve(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, listingPage)
	}))
	defer srv.Close()

	client, _ := newTestClient(t, Config{})
	strategy := NewScrapeStrategy(client, "")

	target, err := strategy.Resolve(context.Background(), srv.URL)
	require.NoError(t, err)

	// First matching anchor wins; href is trimmed.
	require.Equal(t, "https://reports.test/carfax/abc123", target.URL)
	require.Empty(t, target.Token)
}

func TestScrapeResolveNoAnchor(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><a href="/finance">Financing</a></body></html>`)
	}))
	defer srv.Close()

	client, _ := newTestClient(t, Config{})
	strategy := NewScrapeStrategy(client, "")

	_, err := strategy.Resolve(context.Background(), srv.URL)
	require.ErrorIs(t, err, carfax.ErrNoTargetLink)
}

func TestScrapeResolveEmptyHref(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><a class="j-carfax-link" href="  ">View</a></body></html>`)
	}))
	defer srv.Close()

	client, _ := newTestClient(t, Config{})
	strategy := NewScrapeStrategy(client, "")

	_, err := strategy.Resolve(context.Background(), srv.URL)
	require.ErrorIs(t, err, carfax.ErrNoTargetLink)
}

func TestScrapeResolveFetchError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client, _ := newTestClient(t, Config{MaxAttempts: 2})
	strategy := NewScrapeStrategy(client, "")

	_, err := strategy.Resolve(context.Background(), srv.URL)
	require.Error(t, err)
	require.NotErrorIs(t, err, carfax.ErrNoTargetLink)
}
