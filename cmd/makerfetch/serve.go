package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	mfchi "github.com/fwojciec/makerfetch/chi"
)

const shutdownTimeout = 10 * time.Second

// Run executes the serve command until the context is canceled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	addr := c.Addr
	if addr == "" {
		addr = deps.Settings.Server.Addr
	}

	s := &mfchi.Server{
		Resolver:   deps.Resolver,
		Downloader: deps.Downloader,
		Logger:     deps.Logger,
		Metrics:    deps.Metrics.Handler(),
		Observer:   deps.Metrics,
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	fmt.Fprintf(deps.Stdout, "listening on %s\n", ln.Addr())

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-deps.Ctx.Done():
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
