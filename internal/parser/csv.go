package parser

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"wealthsage/internal/core"
)

// parseCSV reads a header-based CSV statement. The Description and Amount
// columns are located case-insensitively; a missing column is recoverable
// (the normalizer applies field defaults), but a file without a readable
// header at all is a per-file failure. Malformed rows are skipped and
// recorded, never fatal for the file.
func parseCSV(f File) fileResult {
	var res fileResult

	r := csv.NewReader(bytes.NewReader(f.Data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		res.errs = append(res.errs, FileError{File: f.Name, Err: fmt.Errorf("%w: missing header row: %v", ErrCSVParse, err)})
		return res
	}

	descIdx, amountIdx := -1, -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "description":
			descIdx = i
		case "amount":
			amountIdx = i
		}
	}
	if descIdx < 0 {
		res.errs = append(res.errs, FileError{File: f.Name, Err: fmt.Errorf("%w: no Description column, defaulting", ErrCSVParse)})
	}
	if amountIdx < 0 {
		res.errs = append(res.errs, FileError{File: f.Name, Err: fmt.Errorf("%w: no Amount column, defaulting", ErrCSVParse)})
	}

	for line := 2; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			res.errs = append(res.errs, FileError{File: f.Name, Err: fmt.Errorf("%w: row %d: %v", ErrCSVParse, line, err)})
			continue
		}

		rec := core.RawRecord{SourceFile: f.Name}
		if descIdx >= 0 && descIdx < len(row) {
			rec.Description = row[descIdx]
		}
		if amountIdx >= 0 && amountIdx < len(row) {
			rec.AmountText = row[amountIdx]
		}
		if rec.Description == "" && rec.AmountText == "" {
			// Fully empty rows carry no information worth surfacing.
			continue
		}
		res.records = append(res.records, rec)
	}

	return res
}
