package collector

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"SheetSentinel/internal/model"
)

// ParseCSV reads a comma-separated export into a Table. The first record is
// the header; a UTF-8 byte order mark is ignored and ragged rows are allowed.
func ParseCSV(r io.Reader) (*model.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("csv: empty input")
	}
	if err != nil {
		return nil, fmt.Errorf("csv header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	table := &model.Table{Header: header}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv row %d: %w", len(table.Rows)+2, err)
		}
		table.Rows = append(table.Rows, rec)
	}
	return table, nil
}
