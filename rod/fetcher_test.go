//go:build integration

package rod_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fwojciec/makerfetch"
	"github.com/fwojciec/makerfetch/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func request() makerfetch.Request {
	return makerfetch.Request{Headers: map[string]string{
		"User-Agent": "makerfetch-browser-test",
		"X-Probe":    "1",
	}}
}

func TestFetcher_FetchPage_ReturnsRenderedData(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<!DOCTYPE html>
<html><head><title>Benchy</title></head><body>
<script>
const s = document.createElement('script');
s.id = '__NEXT_DATA__';
s.type = 'application/json';
s.textContent = JSON.stringify({props: {design: {id: 42}}});
document.body.appendChild(s);
</script>
</body></html>`))
	}))
	defer srv.Close()

	fetcher, err := rod.NewFetcher()
	require.NoError(t, err)
	defer fetcher.Close()

	html, err := fetcher.FetchPage(context.Background(), srv.URL, request())

	require.NoError(t, err)
	assert.Contains(t, html, `id="__NEXT_DATA__"`)
}

func TestFetcher_FetchPage_SendsHeaders(t *testing.T) {
	t.Parallel()

	headers := make(chan http.Header, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			select {
			case headers <- r.Header.Clone():
			default:
			}
		}
		_, _ = w.Write([]byte(`<html><body>ok</body></html>`))
	}))
	defer srv.Close()

	fetcher, err := rod.NewFetcher()
	require.NoError(t, err)
	defer fetcher.Close()

	_, err = fetcher.FetchPage(context.Background(), srv.URL+"/", request())
	require.NoError(t, err)

	got := <-headers
	assert.Equal(t, "makerfetch-browser-test", got.Get("User-Agent"))
	assert.Equal(t, "1", got.Get("X-Probe"))
}

func TestFetcher_FetchPage_ContextCancellation(t *testing.T) {
	t.Parallel()

	fetcher, err := rod.NewFetcher()
	require.NoError(t, err)
	defer fetcher.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = fetcher.FetchPage(ctx, "http://example.com", request())

	assert.Equal(t, makerfetch.ENETWORK, makerfetch.ErrorCode(err))
}

func TestFetcher_FetchPage_TimesOut(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		_, _ = w.Write([]byte(`<html><body>delayed</body></html>`))
	}))
	defer srv.Close()

	fetcher, err := rod.NewFetcher(rod.WithFetchTimeout(100 * time.Millisecond))
	require.NoError(t, err)
	defer fetcher.Close()

	_, err = fetcher.FetchPage(context.Background(), srv.URL, makerfetch.Request{})

	assert.Equal(t, makerfetch.ETIMEOUT, makerfetch.ErrorCode(err))
}

func TestFetcher_FetchPage_EnforcesByteCap(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body>far more than sixteen bytes of markup</body></html>`))
	}))
	defer srv.Close()

	fetcher, err := rod.NewFetcher(rod.WithMaxBytes(16))
	require.NoError(t, err)
	defer fetcher.Close()

	_, err = fetcher.FetchPage(context.Background(), srv.URL, makerfetch.Request{})

	assert.Equal(t, makerfetch.EMALFORMED, makerfetch.ErrorCode(err))
}

func TestFetcher_Close_Idempotent(t *testing.T) {
	t.Parallel()

	fetcher, err := rod.NewFetcher()
	require.NoError(t, err)

	require.NoError(t, fetcher.Close())
	require.NoError(t, fetcher.Close())
}

func TestFetcher_FetchPage_AfterClose_ReturnsError(t *testing.T) {
	t.Parallel()

	fetcher, err := rod.NewFetcher()
	require.NoError(t, err)
	require.NoError(t, fetcher.Close())

	_, err = fetcher.FetchPage(context.Background(), "http://example.com", makerfetch.Request{})

	assert.Equal(t, makerfetch.ENETWORK, makerfetch.ErrorCode(err))
	assert.Contains(t, makerfetch.ErrorMessage(err), "closed")
}
