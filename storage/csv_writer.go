package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"sync"

	"vehicle-dashboard/models"
)

// CSVWriter writes cleaned listings as CSV with display-label headers.
// It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	writer *csv.Writer
	closer io.Closer
}

// NewCSVWriter wraps w and writes the header row. If w is an io.Closer it is
// closed by Close.
func NewCSVWriter(w io.Writer) (*CSVWriter, error) {
	cw := csv.NewWriter(w)

	header := make([]string, len(models.Columns))
	for i, c := range models.Columns {
		header[i] = c.Display
	}
	if err := cw.Write(header); err != nil {
		return nil, fmt.Errorf("csv: write header: %w", err)
	}

	out := &CSVWriter{writer: cw}
	if c, ok := w.(io.Closer); ok {
		out.closer = c
	}
	return out, nil
}

// Write appends one row per listing and flushes.
func (c *CSVWriter) Write(listings []*models.Listing) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, l := range listings {
		row := []string{
			formatFloat(l.Price),
			strconv.Itoa(l.ModelYear),
			l.Model,
			l.Condition,
			strconv.Itoa(l.Cylinders),
			l.Fuel,
			formatFloat(l.Odometer),
			l.Transmission,
			l.Type,
			l.PaintColor,
			strconv.Itoa(l.Is4WD),
			l.DatePosted.Format("2006-01-02"),
			strconv.Itoa(l.DaysListed),
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying writer when it is closable.
func (c *CSVWriter) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.writer.Flush()
	if err := c.writer.Error(); err != nil {
		return err
	}
	if c.closer != nil {
		return c.closer.Close()
	}
	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

var _ ListingWriter = (*CSVWriter)(nil)
