package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"vehicle-dashboard/models"
)

// ErrMissingColumn is returned when the header lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

// CSVSource reads the raw vehicle dataset from a CSV file with a header row.
type CSVSource struct {
	path     string
	checksum string
}

// NewCSVSource returns a source reading the file at path.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

func (s *CSVSource) Describe() string { return "csv:" + s.path }

func (s *CSVSource) Checksum() string { return s.checksum }

// FetchRaw opens and parses the file. Any I/O or format error is returned as is,
// wrapped with the path.
func (s *CSVSource) FetchRaw(ctx context.Context) ([]models.RawListing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %q: %w", s.path, err)
	}
	defer f.Close()

	rows, sum, err := readCSV(f)
	if err != nil {
		return nil, fmt.Errorf("csv: %q: %w", s.path, err)
	}
	s.checksum = sum
	return rows, nil
}

// ReadCSV parses a vehicle CSV from r. Columns are matched by header name, so
// their order does not matter and extra columns are ignored.
func ReadCSV(r io.Reader) ([]models.RawListing, error) {
	rows, _, err := readCSV(r)
	return rows, err
}

func readCSV(r io.Reader) ([]models.RawListing, string, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, "", fmt.Errorf("empty file: header row required")
		}
		return nil, "", fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	positions := make([]int, len(models.Columns))
	for i, col := range models.Columns {
		pos, ok := index[col.Source]
		if !ok {
			return nil, "", fmt.Errorf("%w: %s", ErrMissingColumn, col.Source)
		}
		positions[i] = pos
	}

	hasher := newRowHasher()
	hasher.add(header)

	var rows []models.RawListing
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, "", fmt.Errorf("read row %d: %w", len(rows)+1, err)
		}
		hasher.add(record)

		row := make(models.RawListing, len(models.Columns))
		for i, col := range models.Columns {
			row[col.Source] = record[positions[i]]
		}
		rows = append(rows, row)
	}

	return rows, hasher.sum(), nil
}
