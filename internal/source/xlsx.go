package source

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// XLSXFile renders one worksheet of a workbook as delimited text.
// Rows are padded to the width of the first row, since spreadsheets drop
// trailing empty cells.
type XLSXFile struct {
	Path      string
	Sheet     string
	Delimiter rune
}

func NewXLSXFile(path, sheet string, delimiter rune) *XLSXFile {
	return &XLSXFile{Path: path, Sheet: sheet, Delimiter: delimiter}
}

func (x *XLSXFile) Open(_ context.Context) (io.ReadCloser, error) {
	f, err := excelize.OpenFile(x.Path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", x.Path, err)
	}
	defer func() { _ = f.Close() }()

	sheet := x.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook %s has no sheets", x.Path)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q of %s: %w", sheet, x.Path, err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if x.Delimiter != 0 {
		w.Comma = x.Delimiter
	}
	width := 0
	if len(rows) > 0 {
		width = len(rows[0])
	}
	for _, row := range rows {
		for len(row) < width {
			row = append(row, "")
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("render sheet %q: %w", sheet, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("render sheet %q: %w", sheet, err)
	}
	return io.NopCloser(&buf), nil
}

func (x *XLSXFile) String() string {
	if x.Sheet == "" {
		return fmt.Sprintf("XLSXFile('%s')", x.Path)
	}
	return fmt.Sprintf("XLSXFile('%s', sheet='%s')", x.Path, x.Sheet)
}
