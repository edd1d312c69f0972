package core

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// LoadError reports why an observation file could not be loaded.
type LoadError struct {
	Source string // File path or URL
	Op     string // "open", "read header", "parse", ...
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %s: %v", e.Source, e.Op, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

var (
	// ErrEmptyFile is returned when the source has no header row.
	ErrEmptyFile = errors.New("empty file")

	// ErrMissingColumns is returned when the header matches none of the known columns.
	ErrMissingColumns = errors.New("missing required column")
)

// LoadOptions controls how a source is opened and read.
type LoadOptions struct {
	MaxFileSize int64        // Bytes; 0 means unlimited
	HTTPClient  *http.Client // Used for http(s) sources; nil means http.DefaultClient
}

// OpenSource opens a file path or an http(s) URL for reading.
func OpenSource(ctx context.Context, src string, opts LoadOptions) (io.ReadCloser, error) {
	if !isURL(src) {
		f, err := os.Open(src)
		if err != nil {
			return nil, &LoadError{Source: src, Op: "open", Err: err}
		}
		return f, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, &LoadError{Source: src, Op: "open", Err: err}
	}

	client := opts.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &LoadError{Source: src, Op: "fetch", Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &LoadError{Source: src, Op: "fetch", Err: fmt.Errorf("source unreachable: HTTP %d", resp.StatusCode)}
	}
	return resp.Body, nil
}

func isURL(src string) bool {
	lower := strings.ToLower(src)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// LoadFile opens src and parses every record in it.
func LoadFile(ctx context.Context, src string, opts LoadOptions) ([]Record, error) {
	rc, err := OpenSource(ctx, src, opts)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	records, err := LoadRecords(ctx, rc, opts.MaxFileSize)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.Source = src
		}
		return nil, err
	}
	return records, nil
}

// contextCheckInterval is how often (in rows) to check for cancellation.
const contextCheckInterval = 500

// LoadRecords parses an observation CSV with a header row.
// Columns are matched by label, so their order in the file does not matter;
// columns missing from the header read as empty text or 0.
// Empty lines are skipped; a row of empty cells is kept as a record with
// every field defaulted. Any failure is returned as a *LoadError.
func LoadRecords(ctx context.Context, r io.Reader, maxSize int64) ([]Record, error) {
	src := wrapSource(r, maxSize)

	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &LoadError{Op: "read header", Err: ErrEmptyFile}
		}
		return nil, &LoadError{Op: "read header", Err: fmt.Errorf("invalid csv: %w", err)}
	}

	idx := MakeHeaderIndex(header)
	if len(idx) == 0 {
		return nil, &LoadError{Op: "read header", Err: fmt.Errorf("%w: none of %q found", ErrMissingColumns, HeaderLabels())}
	}

	var records []Record
	for line := 2; ; line++ {
		if line%contextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, &LoadError{Op: "parse", Err: err}
			}
		}

		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &LoadError{Op: "parse", Err: fmt.Errorf("invalid csv at line %d: %w", line, err)}
		}
		if isEmptyLine(row) {
			continue
		}

		records = append(records, buildRecord(row, idx))
	}

	return records, nil
}

// buildRecord maps one CSV row onto a Record, applying the defaulting rules.
func buildRecord(row []string, idx HeaderIndex) Record {
	var rec Record
	for _, col := range Columns {
		col.set(&rec, idx.Cell(row, col.Name))
	}
	return rec
}

// isEmptyLine reports whether row came from a line with no content, such
// as a lone quoted empty field. The csv reader already drops bare newlines.
func isEmptyLine(row []string) bool {
	return len(row) == 1 && row[0] == ""
}
