package rod_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/fwojciec/makerfetch"
	"github.com/fwojciec/makerfetch/mock"
	"github.com/fwojciec/makerfetch/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type closingFetcher struct {
	mock.PageFetcher
	closed bool
}

func (f *closingFetcher) Close() error {
	f.closed = true
	return nil
}

func TestLoggingFetcher(t *testing.T) {
	t.Parallel()

	t.Run("logs successful renders", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		next := &closingFetcher{PageFetcher: mock.PageFetcher{
			FetchPageFn: func(ctx context.Context, url string, req makerfetch.Request) (string, error) {
				return "<html></html>", nil
			},
		}}

		html, err := rod.NewLoggingFetcher(next, logger).
			FetchPage(context.Background(), "https://makerworld.com/en/models/1", makerfetch.Request{})

		require.NoError(t, err)
		assert.Equal(t, "<html></html>", html)
		assert.Contains(t, buf.String(), "msg=render")
		assert.Contains(t, buf.String(), "bytes=13")
	})

	t.Run("logs the reason of failed renders", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		next := &closingFetcher{PageFetcher: mock.PageFetcher{
			FetchPageFn: func(ctx context.Context, url string, req makerfetch.Request) (string, error) {
				return "", makerfetch.Errorf(makerfetch.ETIMEOUT, "slow")
			},
		}}

		_, err := rod.NewLoggingFetcher(next, logger).
			FetchPage(context.Background(), "https://makerworld.com/en/models/1", makerfetch.Request{})

		require.Error(t, err)
		assert.Contains(t, buf.String(), "reason=timeout")
	})

	t.Run("closes the wrapped fetcher", func(t *testing.T) {
		t.Parallel()

		next := &closingFetcher{}

		require.NoError(t, rod.NewLoggingFetcher(next, slog.Default()).Close())
		assert.True(t, next.closed)
	})
}
