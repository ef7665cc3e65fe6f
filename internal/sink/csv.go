// Package sink writes cleaned core tables to their destination.
package sink

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/JonMunkholm/csvclean/internal/core"
	"github.com/JonMunkholm/csvclean/internal/logging"
)

// utf8BOM helps Excel recognize UTF-8 output.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVOptions configures a CSVSink.
type CSVOptions struct {
	Delimiter rune // Field separator; zero means ','
	BOM       bool // Prefix output with a UTF-8 BOM
}

// CSVSink writes a header row plus one record per table row.
type CSVSink struct {
	opts CSVOptions
}

// NewCSVSink creates a CSV sink.
func NewCSVSink(opts CSVOptions) *CSVSink {
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}
	return &CSVSink{opts: opts}
}

// Save writes t to dest, creating or replacing it. The table is written to a
// temporary file next to dest and renamed into place, so dest is untouched
// when Save fails.
func (s *CSVSink) Save(ctx context.Context, t *core.Table, dest string) error {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return core.SinkError(dest, fmt.Errorf("failed to create directory: %w", err))
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".*.tmp")
	if err != nil {
		return core.SinkError(dest, fmt.Errorf("failed to create temp file: %w", err))
	}
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err := s.write(tmp, t); err != nil {
		return core.SinkError(dest, err)
	}
	if err := tmp.Sync(); err != nil {
		return core.SinkError(dest, fmt.Errorf("failed to sync: %w", err))
	}
	if err := tmp.Close(); err != nil {
		return core.SinkError(dest, fmt.Errorf("failed to close: %w", err))
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return core.SinkError(dest, fmt.Errorf("failed to set permissions: %w", err))
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return core.SinkError(dest, fmt.Errorf("failed to move into place: %w", err))
	}
	committed = true

	logging.FromContext(ctx).Debug("sink written", "path", dest, "rows", t.NumRows())
	return nil
}

func (s *CSVSink) write(f *os.File, t *core.Table) error {
	buf := bufio.NewWriter(f)

	if s.opts.BOM {
		if _, err := buf.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	w := csv.NewWriter(buf)
	w.Comma = s.opts.Delimiter

	if err := w.Write(t.Header()); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, rec := range t.Records() {
		// csv.Writer turns a lone empty field into a blank line, which
		// readers skip; quote it so the row survives a round trip.
		if len(rec) == 1 && rec[0] == "" {
			w.Flush()
			if err := w.Error(); err != nil {
				return fmt.Errorf("failed to write record %d: %w", i+1, err)
			}
			if _, err := buf.WriteString("\"\"\n"); err != nil {
				return fmt.Errorf("failed to write record %d: %w", i+1, err)
			}
			continue
		}
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i+1, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush records: %w", err)
	}
	if err := buf.Flush(); err != nil {
		return fmt.Errorf("failed to flush file: %w", err)
	}
	return nil
}
