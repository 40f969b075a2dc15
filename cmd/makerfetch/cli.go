package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/makerfetch"
	mfprom "github.com/fwojciec/makerfetch/prometheus"
	mfviper "github.com/fwojciec/makerfetch/viper"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx        context.Context
	Stdout     io.Writer
	Stderr     io.Writer
	Logger     *slog.Logger
	Settings   mfviper.Settings
	Resolver   makerfetch.Resolver
	Downloader makerfetch.Downloader
	Metrics    *mfprom.Metrics
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config  string        `short:"c" type:"path" help:"Config file (YAML, TOML or JSON)"`
	Verbose bool          `short:"v" help:"Log debug output to stderr"`
	Browser bool          `help:"Render model pages in headless Chrome for the fallback stage"`
	Printer string        `help:"Target printer, overriding the configured one"`
	Timeout time.Duration `help:"Per-request timeout, overriding the configured one"`
	Strict  bool          `help:"Never fall back to variants for other printers"`

	Resolve  ResolveCmd  `cmd:"" help:"Resolve a model URL to a printable variant"`
	Download DownloadCmd `cmd:"" help:"Download and validate a model asset"`
	Fetch    FetchCmd    `cmd:"" help:"Resolve a model URL and download the selected variant"`
	Serve    ServeCmd    `cmd:"" help:"Serve resolve and download over HTTP"`
}

// ResolveCmd is the "resolve" subcommand.
type ResolveCmd struct {
	URL     string `arg:"" help:"Model page URL"`
	Variant int64  `help:"Variant or profile id to select"`
}

// DownloadCmd is the "download" subcommand.
type DownloadCmd struct {
	URL    string `arg:"" help:"Asset URL"`
	Output string `short:"o" default:"." help:"Output directory"`
}

// FetchCmd is the "fetch" subcommand.
type FetchCmd struct {
	URL     string `arg:"" help:"Model page URL"`
	Variant int64  `help:"Variant or profile id to select"`
	Output  string `short:"o" default:"." help:"Output directory"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `help:"Listen address, overriding server.addr"`
}
