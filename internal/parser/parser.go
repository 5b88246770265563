// Package parser turns uploaded statement files (CSV or PDF) into raw
// candidate records for the analysis pipeline.
//
// A batch holds at most three files. Files are parsed concurrently and the
// results merged back in input order, so output is deterministic for a given
// upload. Failures are per-file and per-row: one unreadable file never
// aborts the batch.
package parser

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"wealthsage/internal/core"
)

// MaxBatchFiles caps how many statements a single analysis accepts.
const MaxBatchFiles = 3

var (
	ErrTooManyFiles        = errors.New("too many files in batch")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrCSVParse            = errors.New("csv parse error")
	ErrPDFExtraction       = errors.New("pdf extraction failure")
)

// File is one uploaded statement, already read into memory.
type File struct {
	Name string
	Data []byte
}

// FileError records a non-fatal failure for the summary banner.
type FileError struct {
	File string
	Err  error
}

func (e FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.File, e.Err)
}

func (e FileError) Unwrap() error {
	return e.Err
}

// Parser converts statement files into raw records.
type Parser struct{}

func New() *Parser {
	return &Parser{}
}

type fileResult struct {
	records []core.RawRecord
	errs    []FileError
}

// ParseBatch parses up to MaxBatchFiles statements. Records are returned in
// file-input order; all per-file and per-row failures are collected into the
// second return value. The returned error is non-nil only for batch-level
// problems (an oversized batch).
func (p *Parser) ParseBatch(ctx context.Context, files []File) ([]core.RawRecord, []FileError, error) {
	if len(files) > MaxBatchFiles {
		return nil, nil, fmt.Errorf("%w: got %d, max %d", ErrTooManyFiles, len(files), MaxBatchFiles)
	}

	results := make([]fileResult, len(files))

	g, ctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = p.parseFile(f)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var records []core.RawRecord
	var errs []FileError
	for _, r := range results {
		records = append(records, r.records...)
		errs = append(errs, r.errs...)
	}
	return records, errs, nil
}

func (p *Parser) parseFile(f File) fileResult {
	switch strings.ToLower(filepath.Ext(f.Name)) {
	case ".csv":
		return parseCSV(f)
	case ".pdf":
		return parsePDF(f)
	default:
		return fileResult{errs: []FileError{{File: f.Name, Err: ErrUnsupportedFileType}}}
	}
}
