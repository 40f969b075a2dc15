package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/makerfetch"
	"github.com/fwojciec/makerfetch/jsontree"
	"github.com/fwojciec/makerfetch/mock"
	mfslog "github.com/fwojciec/makerfetch/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestLoggingResolver_Resolve(t *testing.T) {
	t.Parallel()

	t.Run("logs the selection", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		id := int64(11)
		inner := &mock.Resolver{
			ResolveFn: func(ctx context.Context, sourceURL string, opts makerfetch.ResolveOptions) *makerfetch.ResolveOutcome {
				return &makerfetch.ResolveOutcome{
					Data: &makerfetch.ResolvedData{
						Source:            makerfetch.SourceAPI,
						SelectionStrategy: makerfetch.StrategyShortest,
						SelectedVariantID: &id,
					},
					Diagnostics: makerfetch.Diagnostics{
						RequestID: "req-1",
						Pipeline:  []makerfetch.Source{makerfetch.SourceAPI},
					},
				}
			},
		}

		out := mfslog.NewLoggingResolver(inner, newLogger(&buf)).
			Resolve(context.Background(), "https://makerworld.com/en/models/1", makerfetch.ResolveOptions{})

		require.True(t, out.OK())
		output := buf.String()
		assert.Contains(t, output, "msg=resolve")
		assert.Contains(t, output, "request_id=req-1")
		assert.Contains(t, output, "strategy=shortest_time_fallback")
		assert.Contains(t, output, "variant_id=11")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs the failure reason", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Resolver{
			ResolveFn: func(ctx context.Context, sourceURL string, opts makerfetch.ResolveOptions) *makerfetch.ResolveOutcome {
				return &makerfetch.ResolveOutcome{
					Failure: &makerfetch.Failure{Reason: makerfetch.EBLOCKED, Message: "blocked"},
				}
			},
		}

		out := mfslog.NewLoggingResolver(inner, newLogger(&buf)).
			Resolve(context.Background(), "https://makerworld.com/en/models/1", makerfetch.ResolveOptions{})

		require.False(t, out.OK())
		output := buf.String()
		assert.Contains(t, output, "level=WARN")
		assert.Contains(t, output, "reason=upstream_blocked")
	})
}

func TestLoggingDownloader_Download(t *testing.T) {
	t.Parallel()

	t.Run("logs size and hash", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Downloader{
			DownloadFn: func(ctx context.Context, url string, opts makerfetch.DownloadOptions) *makerfetch.DownloadOutcome {
				return &makerfetch.DownloadOutcome{Asset: &makerfetch.DownloadedAsset{
					Filename:    "benchy.3mf",
					Size:        42,
					ContentHash: "00000000deadbeef",
				}}
			},
		}

		out := mfslog.NewLoggingDownloader(inner, newLogger(&buf)).
			Download(context.Background(), "https://cdn.example.com/benchy.3mf", makerfetch.DownloadOptions{})

		require.True(t, out.OK())
		output := buf.String()
		assert.Contains(t, output, "filename=benchy.3mf")
		assert.Contains(t, output, "bytes=42")
		assert.Contains(t, output, "hash=00000000deadbeef")
	})

	t.Run("logs the failure reason", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Downloader{
			DownloadFn: func(ctx context.Context, url string, opts makerfetch.DownloadOptions) *makerfetch.DownloadOutcome {
				return &makerfetch.DownloadOutcome{Failure: &makerfetch.Failure{Reason: makerfetch.EFORMAT, Message: "zip"}}
			},
		}

		out := mfslog.NewLoggingDownloader(inner, newLogger(&buf)).
			Download(context.Background(), "https://cdn.example.com/x", makerfetch.DownloadOptions{})

		require.False(t, out.OK())
		assert.Contains(t, buf.String(), "reason=unsupported_model_format")
	})
}

func TestLoggingAPI(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	inner := &mock.API{
		InstancesFn: func(ctx context.Context, designID int64, req makerfetch.Request) (jsontree.Value, error) {
			return nil, makerfetch.Errorf(makerfetch.ENOTFOUND, "gone")
		},
		ProfileFn: func(ctx context.Context, profileID int64, req makerfetch.Request) (jsontree.Value, error) {
			return jsontree.Null{}, nil
		},
	}
	api := mfslog.NewLoggingAPI(inner, newLogger(&buf))

	_, err := api.Instances(context.Background(), 7, makerfetch.Request{})
	require.Error(t, err)
	_, err = api.Profile(context.Background(), 8, makerfetch.Request{})
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "endpoint=instances id=7")
	assert.Contains(t, output, "reason=not_found")
	assert.Contains(t, output, "endpoint=profile id=8")
}

func TestLoggingPageFetcher_FetchPage(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	inner := &mock.PageFetcher{
		FetchPageFn: func(ctx context.Context, url string, req makerfetch.Request) (string, error) {
			return "", errors.New("network error")
		},
	}

	_, err := mfslog.NewLoggingPageFetcher(inner, newLogger(&buf)).
		FetchPage(context.Background(), "https://makerworld.com/en/models/1", makerfetch.Request{})

	require.Error(t, err)
	output := buf.String()
	assert.Contains(t, output, "page fetch")
	assert.Contains(t, output, "err=\"network error\"")
}
