// Package backup exports the task database as an interchange document and
// writes it to one or more off-machine destinations.
package backup

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/groblegark/flowtask/internal/interchange"
	"github.com/groblegark/flowtask/internal/store"
)

// Destination is the interface for a backup target (S3, local file, etc.).
type Destination interface {
	// Write sends the JSON payload to the destination.
	Write(ctx context.Context, data []byte) error
	// Name identifies the destination in logs.
	Name() string
}

// Run snapshots the store and writes the encoded document to every
// destination. It keeps going past individual failures and reports them
// together so one unreachable target does not skip the rest.
func Run(ctx context.Context, st store.Store, destinations []Destination, logger *slog.Logger) error {
	doc, err := interchange.Snapshot(ctx, st)
	if err != nil {
		return fmt.Errorf("backup export: %w", err)
	}

	var buf bytes.Buffer
	if err := doc.Encode(&buf); err != nil {
		return fmt.Errorf("backup encode: %w", err)
	}
	data := buf.Bytes()

	var failed []string
	for _, dest := range destinations {
		if err := dest.Write(ctx, data); err != nil {
			logger.Error("backup destination write failed", "destination", dest.Name(), "err", err)
			failed = append(failed, dest.Name())
			continue
		}
		logger.Info("backup written", "destination", dest.Name(), "bytes", len(data))
	}

	if len(failed) > 0 {
		return fmt.Errorf("backup failed for %d of %d destinations", len(failed), len(destinations))
	}
	return nil
}

// FileDestination writes the document to a local path.
type FileDestination struct {
	Path string
}

func (d *FileDestination) Name() string { return d.Path }

// Write replaces the file contents atomically via a rename.
func (d *FileDestination) Write(ctx context.Context, data []byte) error {
	tmp := d.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, d.Path); err != nil {
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}
