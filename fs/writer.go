// Package fs writes downloaded model assets to a directory.
package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fwojciec/makerfetch"
)

// Ensure Writer implements makerfetch.AssetWriter at compile time.
var _ makerfetch.AssetWriter = (*Writer)(nil)

// MetadataSuffix is appended to the asset filename for the sidecar record.
const MetadataSuffix = ".json"

// Writer writes assets into a base directory. Files are written to a
// temporary name and renamed into place, so a reader never sees a partial
// asset.
type Writer struct {
	baseDir string
}

// NewWriter creates a new Writer that writes to the given base directory.
func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir}
}

// Record is the sidecar written next to an asset.
type Record struct {
	Asset    *makerfetch.DownloadedAsset `json:"asset"`
	Resolved *makerfetch.ResolvedData    `json:"resolved,omitempty"`
}

// WriteAsset writes the asset bytes and a JSON sidecar describing the asset
// and, when given, the resolution that selected it. It returns the asset
// path.
func (w *Writer) WriteAsset(ctx context.Context, asset *makerfetch.DownloadedAsset, resolved *makerfetch.ResolvedData) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name := filepath.Base(asset.Filename)
	if name == "." || name == string(filepath.Separator) || name == "" {
		return "", fmt.Errorf("asset has no filename")
	}

	if err := os.MkdirAll(w.baseDir, 0755); err != nil {
		return "", err
	}

	path := filepath.Join(w.baseDir, name)
	if err := writeAtomic(path, asset.Data); err != nil {
		return "", err
	}

	meta, err := json.MarshalIndent(Record{Asset: asset, Resolved: resolved}, "", "  ")
	if err != nil {
		return "", err
	}
	if err := writeAtomic(path+MetadataSuffix, append(meta, '\n')); err != nil {
		return "", err
	}
	return path, nil
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
