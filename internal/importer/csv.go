// Package importer turns uploaded catalog files into the row maps the
// catalog service consumes. It only deals with file shape; semantic
// validation (prices, stock) happens in the service layer.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/priceworth/storefront-api/internal/core/ports"
)

// requiredColumns must all be present in the header row.
var requiredColumns = []string{"id", "name", "description", "basePrice", "stock", "image", "category"}

var ErrMissingHeader = errors.New("csv file must have a header row and at least one data row")

// Result carries the parsed rows and how many raw lines were discarded
// for having the wrong field count.
type Result struct {
	Rows    []ports.ImportRow
	Skipped int
}

// ParseCSV reads a catalog CSV. Rows whose field count does not match
// the header are skipped, never aborting the parse.
func ParseCSV(r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) < 2 {
		return nil, ErrMissingHeader
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}
	if missing := missingColumns(header); len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	res := &Result{Rows: make([]ports.ImportRow, 0, len(records)-1)}
	for _, record := range records[1:] {
		if isBlank(record) {
			continue
		}
		if len(record) != len(header) {
			res.Skipped++
			continue
		}
		row := make(ports.ImportRow, len(header))
		for i, col := range header {
			row[col] = strings.TrimSpace(record[i])
		}
		res.Rows = append(res.Rows, row)
	}
	return res, nil
}

func missingColumns(header []string) []string {
	present := make(map[string]struct{}, len(header))
	for _, h := range header {
		present[h] = struct{}{}
	}
	var missing []string
	for _, col := range requiredColumns {
		if _, ok := present[col]; !ok {
			missing = append(missing, col)
		}
	}
	return missing
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
