package main

import (
	"fmt"
)

// Run executes the fetch command: resolve, then download the selected
// variant's asset.
func (c *FetchCmd) Run(deps *Dependencies) error {
	out := deps.Resolver.Resolve(deps.Ctx, c.URL, resolveOptions(c.Variant))
	if !out.OK() {
		fmt.Fprintf(deps.Stderr, "error: %s\n", out.Failure.Message)
		return fmt.Errorf("resolve failed: %s", out.Failure.Reason)
	}

	data := out.Data
	fmt.Fprintf(deps.Stdout, "%s: %s (%s, %s, %.2fh, %.1fg) via %s\n",
		data.ModelTitle, data.ProfileName, data.Printer, data.Material,
		data.EstimatedHours, data.EstimatedGrams, data.SelectionStrategy)
	for _, w := range data.ImportWarnings {
		fmt.Fprintf(deps.Stderr, "warning: %s\n", w)
	}

	if data.DownloadURL == "" {
		return fmt.Errorf("no download URL for the selected variant")
	}
	_, err := download(deps, data.DownloadURL, c.Output, data)
	return err
}
