package frame

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// ReadCSV builds a Frame from CSV data. The first record is the header.
// A header-only input yields an empty frame with named columns, which
// the chunker treats as an empty dataset rather than an error.
func ReadCSV(r io.Reader) (*Frame, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("csv input has no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	var rows [][]string
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv record: %w", err)
		}
		rows = append(rows, record)
	}

	return New(header, rows)
}

// ReadCSVFile reads a CSV file from disk into a Frame.
func ReadCSVFile(path string) (*Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ReadCSV(f)
}

// WriteCSV writes the frame as CSV, header first, rows in frame order.
func (f *Frame) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(f.columns); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range f.rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv record: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
