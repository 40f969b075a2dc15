package main

import (
	"fmt"
	"strconv"

	"github.com/fwojciec/makerfetch"
	"github.com/fwojciec/makerfetch/fs"
)

// Run executes the download command.
func (c *DownloadCmd) Run(deps *Dependencies) error {
	_, err := download(deps, c.URL, c.Output, nil)
	return err
}

// download fetches url into dir and reports the written file. resolved, when
// set, is recorded in the sidecar next to the asset.
func download(deps *Dependencies, url, dir string, resolved *makerfetch.ResolvedData) (string, error) {
	out := deps.Downloader.Download(deps.Ctx, url, makerfetch.DownloadOptions{})
	if !out.OK() {
		fmt.Fprintf(deps.Stderr, "error: %s\n", out.Failure.Message)
		return "", fmt.Errorf("download failed: %s", out.Failure.Reason)
	}
	asset := out.Asset

	path, err := fs.NewWriter(dir).WriteAsset(deps.Ctx, asset, resolved)
	if err != nil {
		return "", fmt.Errorf("failed to write %s: %w", asset.Filename, err)
	}

	fmt.Fprintf(deps.Stdout, "%s  %d bytes  xxh64:%s\n", path, asset.Size, asset.ContentHash)
	if a := asset.Archive; a != nil {
		if a.Title != "" {
			fmt.Fprintf(deps.Stdout, "  title: %s\n", a.Title)
		}
		for _, p := range a.Plates {
			fmt.Fprintf(deps.Stdout, "  plate %d: printer=%s nozzle=%smm %sh %sg\n",
				p.Index, p.PrinterModelID, optional(p.NozzleDiameter), optional(p.EstimatedHours), optional(p.EstimatedGrams))
		}
	}
	for _, w := range asset.Warnings {
		fmt.Fprintf(deps.Stderr, "warning: %s\n", w)
	}
	return path, nil
}

func optional(v *float64) string {
	if v == nil {
		return "?"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
