package quotes

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"quotescrape/lib/testutil"

	"github.com/stretchr/testify/require"
)

func TestClientFetch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/page/1/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("user-agent") != "quotescrape-test" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Write([]byte("<html>page one</html>"))
	})
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/page/1/", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	tel := testutil.NewTelemetry()
	client := NewClient(ClientOptions{
		UserAgent:       "quotescrape-test",
		Timeout:         200 * time.Millisecond,
		MaxConnsPerHost: 2,
	}, tel)
	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		page, err := client.Fetch(ctx, server.URL+"/page/1/")
		require.NoError(t, err)
		require.Equal(t, "<html>page one</html>", string(page.Body))
		require.Equal(t, server.URL+"/page/1/", page.URL.String())
	})

	t.Run("redirect", func(t *testing.T) {
		page, err := client.Fetch(ctx, server.URL+"/old")
		require.NoError(t, err)
		require.Equal(t, "/page/1/", page.URL.Path)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := client.Fetch(ctx, server.URL+"/author/Nobody")
		var fetchErr *FetchError
		require.True(t, errors.As(err, &fetchErr))
		require.Equal(t, http.StatusNotFound, fetchErr.Status)
		require.Equal(t, server.URL+"/author/Nobody", fetchErr.URL)
	})

	t.Run("timeout", func(t *testing.T) {
		_, err := client.Fetch(ctx, server.URL+"/slow")
		var fetchErr *FetchError
		require.True(t, errors.As(err, &fetchErr))
		require.Equal(t, 0, fetchErr.Status)
		require.Error(t, fetchErr.Err)
	})

	require.NotEmpty(t, tel.Reports("broken", report_client_fetch))
}
