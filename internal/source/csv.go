// Package source provides the record sources behind core.Source: a local CSV
// file, a CSV resource over HTTP, a Postgres table, and an in-memory fixture.
package source

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/JonMunkholm/fmcsa/internal/core"
)

// DefaultMaxBytes caps how much CSV text a source will read (100MB).
const DefaultMaxBytes = 100 * 1024 * 1024

var (
	utf8BOM = []byte{0xEF, 0xBB, 0xBF}
	newline = []byte("\n")
)

// ParseOptions controls ParseCSV.
type ParseOptions struct {
	// Required lists header names that must be present. Nil disables the check.
	Required []string

	// MaxBytes caps the input size; 0 means DefaultMaxBytes.
	MaxBytes int64
}

// ParseCSV reads CSV text whose first row names the fields and returns one
// record per remaining row, in input order.
//
// A UTF-8 byte order mark is dropped and invalid UTF-8 is replaced with '?'.
// Empty lines are skipped; a line of bare separators is a record. A short row leaves its trailing fields missing;
// cells past the header width are dropped. Rows with an empty id are kept
// and counted in LoadStats.Flagged.
func ParseCSV(r io.Reader, opts ParseOptions) ([]core.Record, core.LoadStats, error) {
	var stats core.LoadStats

	text, err := readNormalized(r, opts.MaxBytes)
	if err != nil {
		return nil, stats, err
	}
	stats.Bytes = int64(len(text))

	reader := csv.NewReader(bytes.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = false

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, stats, fmt.Errorf("%w: empty file", core.ErrInvalidCSV)
	}
	if err != nil {
		return nil, stats, fmt.Errorf("%w: header: %v", core.ErrInvalidCSV, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	if opts.Required != nil {
		if err := core.CheckHeader(header, opts.Required); err != nil {
			return nil, stats, err
		}
	}

	// encoding/csv drops empty lines silently; they are counted from the
	// gap between the lines consumed so far and the next record's first line.
	offset := reader.InputOffset()
	linesDone := bytes.Count(text[:offset], newline)

	var records []core.Record
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			stats.SkippedLines += bytes.Count(text[offset:], newline)
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("%w: %v", core.ErrInvalidCSV, err)
		}

		start, _ := reader.FieldPos(0)
		stats.SkippedLines += max(0, start-linesDone-1)
		next := reader.InputOffset()
		linesDone += bytes.Count(text[offset:next], newline)
		offset = next

		if isBlank(row) {
			stats.SkippedLines++
			continue
		}

		rec := make(core.Record, len(header))
		for i, name := range header {
			if i >= len(row) {
				break
			}
			rec[name] = row[i]
		}

		if rec.ID() == "" {
			stats.Flagged++
			line, _ := reader.FieldPos(0)
			slog.Warn("record without id", "line", line)
		}

		records = append(records, rec)
	}

	stats.Rows = len(records)
	return records, stats, nil
}

// readNormalized reads at most maxBytes, strips a leading BOM and replaces
// invalid UTF-8 sequences.
func readNormalized(r io.Reader, maxBytes int64) ([]byte, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: input exceeds %d bytes", core.ErrInvalidCSV, maxBytes)
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	return bytes.ToValidUTF8(data, []byte("?")), nil
}

// isBlank reports whether a row holds a single empty field, as a line
// containing only "" does. Rows of bare separators are records.
func isBlank(row []string) bool {
	return len(row) == 1 && row[0] == ""
}
