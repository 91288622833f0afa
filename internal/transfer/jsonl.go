// Package transfer moves catalog identities in and out as JSONL, one
// descriptor per line. Exports replay through the resolver, so importing
// one into an empty catalog rebuilds every item and link it describes.
package transfer

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/crate/pkg/types"
)

// maxLine bounds one JSONL record.
const maxLine = 1 << 20

// Source streams descriptors of the items in a catalog.
type Source interface {
	DescribeAll(ctx context.Context, fn func(types.Descriptor) error) error
}

// Report summarizes an import.
type Report struct {
	Lines    int `json:"lines"`
	Resolved int `json:"resolved"`
	Skipped  int `json:"skipped"`
}

// Export writes every descriptor from src to path. The file is replaced
// atomically: a temp file is written, synced and renamed over path.
func Export(ctx context.Context, src Source, path string) (n int, err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".crate-export-*.tmp")
	if err != nil {
		return 0, fmt.Errorf("creating temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if n, err = Write(ctx, src, tmp); err != nil {
		return 0, err
	}
	if err = tmp.Sync(); err != nil {
		return 0, fmt.Errorf("syncing temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return 0, fmt.Errorf("closing temp file: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return 0, fmt.Errorf("renaming temp file: %w", err)
	}
	return n, nil
}

// Write streams every descriptor from src to w, one JSON object per line.
func Write(ctx context.Context, src Source, w io.Writer) (int, error) {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	n := 0
	err := src.DescribeAll(ctx, func(d types.Descriptor) error {
		if err := enc.Encode(d); err != nil {
			return fmt.Errorf("writing item %d: %w", d.ItemID, err)
		}
		n++
		return nil
	})
	if err != nil {
		return 0, err
	}
	if err := bw.Flush(); err != nil {
		return 0, fmt.Errorf("flushing: %w", err)
	}
	return n, nil
}

// Resolver is the write side an import replays into.
type Resolver interface {
	ResolveOrCreate(ctx context.Context, kind types.ItemType, name string, c types.Context) (int64, error)
}

// Import replays the descriptors in path through r.
func Import(ctx context.Context, r Resolver, path string, log zerolog.Logger) (Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return Report{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return Read(ctx, r, f, log)
}

// Read replays descriptors from rd through r. Empty lines are ignored;
// lines that are not valid JSON or that the resolver rejects as invalid
// are skipped and counted. A store failure stops the import.
func Read(ctx context.Context, r Resolver, rd io.Reader, log zerolog.Logger) (Report, error) {
	var rep Report
	scanner := bufio.NewScanner(rd)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		rep.Lines++

		var d types.Descriptor
		if err := json.Unmarshal(line, &d); err != nil {
			rep.Skipped++
			log.Warn().Int("line", rep.Lines).Err(err).Msg("skipping malformed line")
			continue
		}
		if _, err := r.ResolveOrCreate(ctx, d.Kind, d.Name, d.Context); err != nil {
			if types.IsInvalidRequest(err) {
				rep.Skipped++
				log.Warn().Int("line", rep.Lines).Err(err).Msg("skipping invalid item")
				continue
			}
			return rep, fmt.Errorf("line %d: %w", rep.Lines, err)
		}
		rep.Resolved++
	}
	if err := scanner.Err(); err != nil {
		return rep, fmt.Errorf("scanning: %w", err)
	}
	return rep, nil
}
