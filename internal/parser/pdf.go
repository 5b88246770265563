package parser

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"

	"wealthsage/internal/core"
)

// amountTokenRe matches a trailing monetary token: an optional currency
// mark, an optional minus sign, and a decimal number with exactly two
// fraction digits (thousands separators allowed).
var amountTokenRe = regexp.MustCompile(`([£$€]?-?\d{1,3}(?:,\d{3})*\.\d{2}|[£$€]?-?\d+\.\d{2})$`)

// parsePDF extracts the text layer page by page and keeps every line that
// ends in a monetary token; the rest of the line becomes the description.
// Lines without a trailing amount are discarded, so image-only PDFs yield
// zero records rather than an error. Unreadable or encrypted files are a
// per-file failure.
func parsePDF(f File) (res fileResult) {
	// The pdf reader panics on some malformed cross-reference tables;
	// a broken upload must stay a per-file error.
	defer func() {
		if r := recover(); r != nil {
			res = fileResult{errs: []FileError{{
				File: f.Name,
				Err:  fmt.Errorf("%w: %v", ErrPDFExtraction, r),
			}}}
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(f.Data), int64(len(f.Data)))
	if err != nil {
		res.errs = append(res.errs, FileError{File: f.Name, Err: fmt.Errorf("%w: %v", ErrPDFExtraction, err)})
		return res
	}

	var lines []string
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			res.errs = append(res.errs, FileError{File: f.Name, Err: fmt.Errorf("%w: page %d: %v", ErrPDFExtraction, i, err)})
			continue
		}
		for _, row := range rows {
			var sb strings.Builder
			for _, word := range row.Content {
				if sb.Len() > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(word.S)
			}
			lines = append(lines, sb.String())
		}
	}

	res.records = append(res.records, recordsFromLines(lines, f.Name)...)
	return res
}

// recordsFromLines applies the trailing-amount heuristic to extracted text
// lines. A line qualifies when it ends in a monetary token and has a
// non-empty remainder to serve as the description.
func recordsFromLines(lines []string, sourceFile string) []core.RawRecord {
	var records []core.RawRecord
	for _, line := range lines {
		line = strings.TrimSpace(line)
		loc := amountTokenRe.FindStringIndex(line)
		if loc == nil {
			continue
		}
		desc := strings.TrimSpace(line[:loc[0]])
		if desc == "" {
			continue
		}
		records = append(records, core.RawRecord{
			Description: desc,
			AmountText:  line[loc[0]:loc[1]],
			SourceFile:  sourceFile,
		})
	}
	return records
}
