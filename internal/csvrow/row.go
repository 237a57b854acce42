// Package csvrow turns delimited text into a header and column-keyed rows.
package csvrow

import (
	"fmt"
	"strings"
)

// Row is one data record keyed by header column.
//
// Ragged records are kept visible: values beyond the header width are held in
// Extra, and header columns the record did not reach are listed in Missing and
// read as the empty string.
type Row struct {
	header  []string
	values  map[string]string
	extra   []string
	missing []string
}

// NewRow maps record onto header.
func NewRow(header, record []string) Row {
	r := Row{
		header: header,
		values: make(map[string]string, len(header)),
	}
	for i, col := range header {
		if i < len(record) {
			r.values[col] = record[i]
			continue
		}
		r.values[col] = ""
		r.missing = append(r.missing, col)
	}
	if len(record) > len(header) {
		r.extra = append([]string(nil), record[len(header):]...)
	}
	return r
}

// FromMap builds a Row whose header is the given column order.
func FromMap(columns []string, values map[string]string) Row {
	record := make([]string, len(columns))
	for i, col := range columns {
		record[i] = values[col]
	}
	return NewRow(columns, record)
}

// Get returns the value for column, or "" when the column is unknown.
func (r Row) Get(column string) string {
	return r.values[column]
}

// Has reports whether column is one of the row's keys.
func (r Row) Has(column string) bool {
	_, ok := r.values[column]
	return ok
}

// Columns returns the row's keys in header order.
func (r Row) Columns() []string {
	return r.header
}

// Extra returns the values found past the last header column.
func (r Row) Extra() []string {
	return r.extra
}

// Missing returns the header columns the record did not supply.
func (r Row) Missing() []string {
	return r.missing
}

// Ragged reports whether the record width differs from the header width.
func (r Row) Ragged() bool {
	return len(r.extra) > 0 || len(r.missing) > 0
}

// Expected is the header width.
func (r Row) Expected() int {
	return len(r.header)
}

// Width is the number of values the record actually carried.
func (r Row) Width() int {
	return len(r.header) - len(r.missing) + len(r.extra)
}

// String renders the row for diagnostics.
func (r Row) String() string {
	parts := make([]string, 0, len(r.header)+1)
	for _, col := range r.header {
		if r.isMissing(col) {
			parts = append(parts, fmt.Sprintf("%q: <missing>", col))
			continue
		}
		parts = append(parts, fmt.Sprintf("%q: %q", col, r.values[col]))
	}
	if len(r.extra) > 0 {
		parts = append(parts, fmt.Sprintf("<extra>: %q", r.extra))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (r Row) isMissing(col string) bool {
	for _, m := range r.missing {
		if m == col {
			return true
		}
	}
	return false
}
