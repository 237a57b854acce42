package csvrow

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// DefaultDelimiter separates fields when none is configured.
const DefaultDelimiter = ','

// utf8BOM is stripped from the first header cell; spreadsheet exports often carry it.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Reader reads a header followed by rows.
type Reader struct {
	csv        *csv.Reader
	header     []string
	headerRead bool
}

// NewReader creates a Reader over r. A zero delimiter means DefaultDelimiter.
// When fieldnames is non-empty it is used as the header and the first record
// of r is treated as data.
func NewReader(r io.Reader, delimiter rune, fieldnames []string) *Reader {
	if delimiter == 0 {
		delimiter = DefaultDelimiter
	}
	cr := csv.NewReader(r)
	cr.Comma = delimiter
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	rd := &Reader{csv: cr}
	if len(fieldnames) > 0 {
		rd.header = append([]string(nil), fieldnames...)
		rd.headerRead = true
	}
	return rd
}

// Header returns the column names. It returns a nil slice without error when
// the input holds no records at all.
func (r *Reader) Header() ([]string, error) {
	if r.headerRead {
		return r.header, nil
	}
	r.headerRead = true

	record, err := r.csv.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if len(record) > 0 {
		record[0] = string(bytes.TrimPrefix([]byte(record[0]), utf8BOM))
	}
	r.header = record
	return r.header, nil
}

// Next returns the next data row, or io.EOF when the input is exhausted.
func (r *Reader) Next() (Row, error) {
	if !r.headerRead {
		if _, err := r.Header(); err != nil {
			return Row{}, err
		}
	}
	record, err := r.csv.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Row{}, io.EOF
		}
		return Row{}, fmt.Errorf("reading row: %w", err)
	}
	return NewRow(r.header, record), nil
}

// Count returns the number of data rows in r.
func Count(r io.Reader, delimiter rune, fieldnames []string) (int, error) {
	rd := NewReader(r, delimiter, fieldnames)
	if _, err := rd.Header(); err != nil {
		return 0, err
	}
	n := 0
	for {
		_, err := rd.Next()
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		n++
	}
}
