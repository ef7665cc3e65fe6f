// Package source loads delimited text files into core tables.
package source

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/JonMunkholm/csvclean/internal/core"
	"github.com/JonMunkholm/csvclean/internal/logging"
)

// DefaultMaxFileSize is used when Options.MaxFileSize is zero.
const DefaultMaxFileSize = 100 << 20

// Options configures a CSVSource.
type Options struct {
	Delimiter      rune                       // Field separator; zero means ','
	MaxFileSize    int64                      // Largest accepted file in bytes; zero means DefaultMaxFileSize
	MissingMarkers []string                   // Values read as Missing besides empty fields
	Kinds          map[string]core.ColumnKind // Declared kinds; other columns are inferred
}

// CSVSource reads a header row plus records into a Table.
type CSVSource struct {
	opts    Options
	missing map[string]struct{}
}

// NewCSVSource creates a source with the given options.
func NewCSVSource(opts Options) *CSVSource {
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = DefaultMaxFileSize
	}

	missing := make(map[string]struct{}, len(opts.MissingMarkers))
	for _, m := range opts.MissingMarkers {
		missing[strings.TrimSpace(m)] = struct{}{}
	}

	return &CSVSource{opts: opts, missing: missing}
}

// Load reads path into a Table. It fails with core.ErrSourceNotFound when
// path cannot be opened and core.ErrSourceParse when the content is not a
// well-formed table.
func (s *CSVSource) Load(ctx context.Context, path string) (*core.Table, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, core.SourceError(core.ErrSourceNotFound, path, err)
	}
	if info.IsDir() {
		return nil, core.SourceError(core.ErrSourceParse, path, errors.New("is a directory"))
	}
	if info.Size() > s.opts.MaxFileSize {
		return nil, core.SourceError(core.ErrSourceParse, path,
			fmt.Errorf("file too large: %d bytes exceeds limit of %d", info.Size(), s.opts.MaxFileSize))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, core.SourceError(core.ErrSourceNotFound, path, err)
	}
	defer f.Close()

	t, err := s.Read(f)
	if err != nil {
		return nil, core.SourceError(core.ErrSourceParse, path, err)
	}

	logging.FromContext(ctx).Debug("source loaded",
		"path", path,
		"bytes", info.Size(),
		"rows", t.NumRows(),
		"columns", t.NumCols(),
	)
	return t, nil
}

// Read decodes a table from r. Errors are returned unwrapped; Load adds the
// source error kind.
//
// encoding/csv skips blank lines, but in a one-column file a blank line is a
// row whose only field is empty. Read counts the lines skipped between
// records and turns them back into Missing rows for such files. Blank lines
// after the last record are ignored.
func (s *CSVSource) Read(r io.Reader) (*core.Table, error) {
	data, err := io.ReadAll(newDecodingReader(r))
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = s.opts.Delimiter
	cr.FieldsPerRecord = 0 // every record must match the header width

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New("missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	names := make([]string, len(header))
	for i, h := range header {
		names[i] = core.CleanHeader(h)
	}
	singleColumn := len(names) == 1

	// nextLine is the line a record would start on if no blank line followed
	// the previous one.
	offset := cr.InputOffset()
	nextLine := bytes.Count(data[:offset], []byte("\n")) + 1

	literal := make([]bool, len(names))
	var rows [][]core.Cell
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading records: %w", err)
		}

		if singleColumn {
			line, _ := cr.FieldPos(0)
			for blank := nextLine; blank < line; blank++ {
				rows = append(rows, []core.Cell{core.Missing()})
			}
		}
		end := cr.InputOffset()
		nextLine += bytes.Count(data[offset:end], []byte("\n"))
		offset = end

		row := make([]core.Cell, len(rec))
		for i, field := range rec {
			var lit bool
			row[i], lit = s.cell(field)
			literal[i] = literal[i] || lit
		}
		rows = append(rows, row)
	}

	return core.NewTableWithKinds(names, rows, s.kinds(names, literal))
}

// kinds merges declared kinds with Categorical for every undeclared column
// holding an Excel text literal (="00123"), so its values are never read as
// numbers.
func (s *CSVSource) kinds(names []string, literal []bool) map[string]core.ColumnKind {
	kinds := make(map[string]core.ColumnKind, len(s.opts.Kinds))
	for name, kind := range s.opts.Kinds {
		kinds[name] = kind
	}
	for i, name := range names {
		if !literal[i] {
			continue
		}
		if _, declared := kinds[name]; !declared {
			kinds[name] = core.KindCategorical
		}
	}
	return kinds
}

// cell classifies one raw field and reports whether it was an Excel text
// literal. Whitespace is kept on text values; trimming is the pipeline's job.
func (s *CSVSource) cell(field string) (core.Cell, bool) {
	trimmed := strings.TrimSpace(field)
	if trimmed == "" {
		return core.Missing(), false
	}
	if _, ok := s.missing[trimmed]; ok {
		return core.Missing(), false
	}
	value, literal := core.UnwrapFormula(field)
	return core.Text(value), literal
}
