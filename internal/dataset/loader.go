package dataset

import (
	"encoding/csv"
	"io"
	"os"

	"price-backend/pkg/errors"
)

// LoadCSV reads a raw CSV file into a table. The first record is taken as
// the header. Any read failure, including rows whose field count does not
// match the header, surfaces as a DataAccessError.
func LoadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewDataAccessError(path, "open failed", err)
	}
	defer f.Close()

	return LoadCSVReader(f, path)
}

// LoadCSVReader reads CSV data from r. The name is only used in error
// messages.
func LoadCSVReader(r io.Reader, name string) (*Table, error) {
	reader := csv.NewReader(r)
	// FieldsPerRecord defaults to the header length, so ragged rows fail
	// with csv.ErrFieldCount.

	header, err := reader.Read()
	if err != nil {
		return nil, errors.NewDataAccessError(name, "missing header row", err)
	}

	seen := make(map[string]struct{}, len(header))
	for _, c := range header {
		if c == "" {
			return nil, errors.NewDataAccessError(name, "empty column name in header", nil)
		}
		if _, dup := seen[c]; dup {
			return nil, errors.NewDataAccessError(name, "duplicate column "+c+" in header", nil)
		}
		seen[c] = struct{}{}
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewDataAccessError(name, "malformed record", err)
		}
		rows = append(rows, record)
	}

	return &Table{Columns: header, Rows: rows}, nil
}

// WriteCSV writes the table back out as CSV, header first.
func WriteCSV(t *Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.Columns); err != nil {
		return errors.Wrapf(err, "writing header to %s", path)
	}
	for _, row := range t.Rows {
		if err := w.Write(row); err != nil {
			return errors.Wrapf(err, "writing row to %s", path)
		}
	}
	w.Flush()
	return w.Error()
}
