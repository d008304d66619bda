// Package export writes wide tables to CSV or XLSX so the numbers behind a
// map can be checked outside the figures.
package export

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/sells-group/statespend/internal/stateid"
	"github.com/sells-group/statespend/internal/wrangle"
)

// Fixed leading columns of every export.
var leadColumns = []string{"state_name", "id"}

// Header returns the export columns for t.
func Header(t *wrangle.WideTable) []string {
	return append(append([]string{}, leadColumns...), t.Columns...)
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// buildRow maps a wide row to its CSV record.
func buildRow(t *wrangle.WideTable, r wrangle.WideRow) []string {
	row := make([]string, 0, len(leadColumns)+len(t.Columns))
	row = append(row, r.State, stateid.FormatCode(r.ID))
	for _, c := range t.Columns {
		row = append(row, formatValue(r.Values[c]))
	}
	return row
}

// WriteCSV writes t to w with a header row.
func WriteCSV(w io.Writer, t *wrangle.WideTable) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header(t)); err != nil {
		return eris.Wrap(err, "export: write header")
	}
	for _, r := range t.Rows {
		if err := cw.Write(buildRow(t, r)); err != nil {
			return eris.Wrapf(err, "export: write row %s", r.State)
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush csv")
}

// CSV writes t as a CSV file at path.
func CSV(t *wrangle.WideTable, path string) error {
	f, err := create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, t); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return eris.Wrapf(err, "export: close %s", path)
	}

	zap.L().Info("export: wrote csv", zap.String("path", path), zap.Int("rows", len(t.Rows)))
	return nil
}

// XLSX writes t to a single-sheet workbook at path. Values are stored as
// numbers; the identifier keeps its two-digit text form.
func XLSX(t *wrangle.WideTable, path, sheetName string) error {
	if sheetName == "" {
		sheetName = strconv.Itoa(t.Year)
	}

	f := xlsx.NewFile()
	sheet, err := f.AddSheet(sheetName)
	if err != nil {
		return eris.Wrapf(err, "export: add sheet %q", sheetName)
	}

	header := sheet.AddRow()
	for _, h := range Header(t) {
		header.AddCell().SetString(h)
	}
	for _, r := range t.Rows {
		row := sheet.AddRow()
		row.AddCell().SetString(r.State)
		row.AddCell().SetString(stateid.FormatCode(r.ID))
		for _, c := range t.Columns {
			row.AddCell().SetFloat(r.Values[c])
		}
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return eris.Wrapf(err, "export: create directory %s", dir)
		}
	}
	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "export: save %s", path)
	}

	zap.L().Info("export: wrote xlsx", zap.String("path", path), zap.Int("rows", len(t.Rows)))
	return nil
}

// Write picks CSV or XLSX from the extension of path.
func Write(t *wrangle.WideTable, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return CSV(t, path)
	case ".xlsx":
		return XLSX(t, path, "")
	default:
		return eris.Errorf("export: unsupported output %q (want .csv or .xlsx)", path)
	}
}

func create(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, eris.Wrapf(err, "export: create directory %s", dir)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, eris.Wrapf(err, "export: create %s", path)
	}
	return f, nil
}
