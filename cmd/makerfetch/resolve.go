package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/makerfetch"
)

// Run executes the resolve command. The outcome is printed as JSON either
// way; a failure also returns an error so the process exits non-zero.
func (c *ResolveCmd) Run(deps *Dependencies) error {
	out := deps.Resolver.Resolve(deps.Ctx, c.URL, resolveOptions(c.Variant))
	if err := writeJSON(deps, out); err != nil {
		return err
	}
	if !out.OK() {
		return fmt.Errorf("resolve failed: %s: %s", out.Failure.Reason, out.Failure.Message)
	}
	return nil
}

func resolveOptions(variant int64) makerfetch.ResolveOptions {
	var opts makerfetch.ResolveOptions
	if variant > 0 {
		opts.VariantID = &variant
	}
	return opts
}

func writeJSON(deps *Dependencies, v any) error {
	enc := json.NewEncoder(deps.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
