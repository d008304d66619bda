// Package dataset reads long-format spending estimates from delimited text or
// XLSX workbooks into typed observations.
package dataset

import (
	"context"
	"encoding/csv"
	"io"
	"strings"

	"github.com/rotisserie/eris"
)

// CSVOptions configures the streaming CSV reader.
type CSVOptions struct {
	Delimiter rune // default ','
	Comment   rune // comment character (0 = none)
	TrimSpace bool
}

// Record is one parsed line. Line is 1-based and counts the header.
type Record struct {
	Line   int
	Fields []string
}

// StreamCSV reads delimited text and sends each record, header included, to
// the returned channel. Errors are sent on the error channel. Both channels
// are closed when the input is exhausted or ctx is done.
func StreamCSV(ctx context.Context, r io.Reader, opts CSVOptions) (<-chan Record, <-chan error) {
	recCh := make(chan Record, 64)
	errCh := make(chan error, 1)

	go func() {
		defer close(recCh)
		defer close(errCh)

		reader := csv.NewReader(r)
		if opts.Delimiter != 0 {
			reader.Comma = opts.Delimiter
		}
		if opts.Comment != 0 {
			reader.Comment = opts.Comment
		}
		reader.FieldsPerRecord = -1

		for {
			if ctx.Err() != nil {
				errCh <- eris.Wrap(ctx.Err(), "dataset: context cancelled")
				return
			}

			fields, err := reader.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				errCh <- eris.Wrap(err, "dataset: read csv row")
				return
			}

			if opts.TrimSpace {
				for i, f := range fields {
					fields[i] = strings.TrimSpace(f)
				}
			}
			line, _ := reader.FieldPos(0)

			select {
			case recCh <- Record{Line: line, Fields: fields}:
			case <-ctx.Done():
				errCh <- eris.Wrap(ctx.Err(), "dataset: context cancelled")
				return
			}
		}
	}()

	return recCh, errCh
}

// ReadCSV drains StreamCSV and returns the header and the data records.
func ReadCSV(ctx context.Context, r io.Reader, opts CSVOptions) ([]string, []Record, error) {
	recCh, errCh := StreamCSV(ctx, r, opts)

	var header []string
	var rows []Record
	for rec := range recCh {
		if header == nil {
			header = rec.Fields
			continue
		}
		rows = append(rows, rec)
	}
	for err := range errCh {
		if err != nil {
			return nil, nil, err
		}
	}
	if header == nil {
		return nil, nil, eris.New("dataset: empty input, header row required")
	}
	return header, rows, nil
}
