package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/makerfetch"
	"github.com/fwojciec/makerfetch/etree"
	"github.com/fwojciec/makerfetch/goquery"
	mfhttp "github.com/fwojciec/makerfetch/http"
	mfprom "github.com/fwojciec/makerfetch/prometheus"
	"github.com/fwojciec/makerfetch/resolve"
	"github.com/fwojciec/makerfetch/rod"
	mfslog "github.com/fwojciec/makerfetch/slog"
	mfviper "github.com/fwojciec/makerfetch/viper"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Services for end-to-end testing. When nil they are built from the
	// loaded configuration.
	Resolver   makerfetch.Resolver
	Downloader makerfetch.Downloader
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("makerfetch"),
		kong.Description("Resolve MakerWorld model URLs to printable variants and download them"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'makerfetch --help' to see available commands")
	}
	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	settings, err := mfviper.Load(cli.Config)
	if err != nil {
		fmt.Fprintln(stderr, "Hint: MAKERFETCH_* environment variables override the config file")
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyOverrides(&settings, cli)
	deps.Settings = settings
	deps.Logger = newLogger(stderr, cli.Verbose)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	deps.Metrics = mfprom.NewMetrics(reg)

	resolver, downloader := m.Resolver, m.Downloader
	if resolver == nil {
		pages, closePages, err := newPageFetcher(settings, deps.Logger)
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed for --browser")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		defer closePages()
		resolver = newResolver(settings, pages, deps.Logger)
	}
	if downloader == nil {
		downloader = mfhttp.NewDownloader(settings.Config(), mfhttp.WithInspector(etree.NewInspector()))
	}
	deps.Resolver = mfprom.NewResolver(mfslog.NewLoggingResolver(resolver, deps.Logger), deps.Metrics)
	deps.Downloader = mfprom.NewDownloader(mfslog.NewLoggingDownloader(downloader, deps.Logger), deps.Metrics)

	return kongCtx.Run(deps)
}

func applyOverrides(s *mfviper.Settings, cli *CLI) {
	if cli.Browser {
		s.Browser.Enabled = true
	}
	if cli.Printer != "" {
		s.Resolve.TargetPrinter = cli.Printer
	}
	if cli.Timeout > 0 {
		s.HTTP.Timeout = cli.Timeout
	}
	if cli.Strict {
		s.Resolve.AllowRelaxed = false
	}
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// newPageFetcher returns the fallback page transport and a function
// releasing it.
func newPageFetcher(s mfviper.Settings, logger *slog.Logger) (makerfetch.PageFetcher, func(), error) {
	cfg := s.Config()
	if !s.Browser.Enabled {
		return mfslog.NewLoggingPageFetcher(mfhttp.NewPageFetcher(cfg), logger), func() {}, nil
	}

	fetcher, err := rod.NewFetcher(
		rod.WithFetchTimeout(s.Browser.Timeout),
		rod.WithMaxBytes(cfg.MaxPageBytes),
		rod.WithManagerOptions(rod.WithMaxPages(s.Browser.MaxPages)),
	)
	if err != nil {
		return nil, nil, err
	}
	logging := rod.NewLoggingFetcher(fetcher, logger)
	return logging, func() { _ = logging.Close() }, nil
}

func newResolver(s mfviper.Settings, pages makerfetch.PageFetcher, logger *slog.Logger) makerfetch.Resolver {
	cfg := s.Config()
	limiter := mfhttp.NewDomainLimiter(cfg.RateLimit)
	return &resolve.Resolver{
		API:         mfslog.NewLoggingAPI(mfhttp.NewClient(cfg, mfhttp.WithLimiter(limiter)), logger),
		Pages:       pages,
		Extractor:   goquery.NewExtractor(),
		Config:      cfg,
		Concurrency: s.Resolve.Concurrency,
	}
}
