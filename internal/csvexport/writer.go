package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"vladiate/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row.
var columns = []string{
	"Run ID",
	"Vlad",
	"Source",
	"Scope",
	"Column",
	"Line",
	"Message",
}

// Writer wraps csv.Writer for exporting validation failures as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteBOM writes the UTF-8 byte order mark. Call it before WriteHeader.
func WriteBOM(w io.Writer) error {
	_, err := w.Write(BOM)
	return err
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteRecords writes one row per failure.
func (w *Writer) WriteRecords(records []domain.FailureRecord) error {
	for i := range records {
		if err := w.csv.Write(recordToRow(&records[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// Export writes a complete report: BOM, header and records.
func Export(w io.Writer, records []domain.FailureRecord) error {
	if err := WriteBOM(w); err != nil {
		return fmt.Errorf("writing bom: %w", err)
	}
	cw := NewWriter(w)
	if err := cw.WriteHeader(); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if err := cw.WriteRecords(records); err != nil {
		return fmt.Errorf("writing records: %w", err)
	}
	cw.Flush()
	return cw.Error()
}

// recordToRow converts a single failure to a row. Row-scope failures have
// an empty column.
func recordToRow(rec *domain.FailureRecord) []string {
	return []string{
		rec.RunID.String(),
		rec.Vlad,
		rec.Source,
		string(rec.Scope),
		rec.Column,
		strconv.Itoa(rec.Line),
		rec.Message,
	}
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a vlad name for use in a file or object name.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns the report filename for a vlad.
// Format: {sanitized_vlad_name}_{YYYY-MM-DD}.csv
func BuildFilename(vladName string) string {
	sanitized := SanitizeFilename(vladName)
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("%s_%s.csv", sanitized, date)
}
