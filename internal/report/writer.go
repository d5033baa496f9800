// Package report writes and reads the comparison report CSV.
package report

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spatial-dedupe/internal/match"
)

// Header is the exact column header of a comparison report.
const Header = "left_text,right_text,left_class,right_class,fw_ratio,fw_partial_ratio,fw_token_sort_ratio,fw_token_set_ratio,surrogate_key,left_objectID,right_objectID,left_pk,right_pk,left_x,left_y,right_x,right_y"

// OutputWriteError reports a failure creating or writing the report file.
type OutputWriteError struct {
	Path string
	Err  error
}

func (e *OutputWriteError) Error() string {
	return fmt.Sprintf("write report %s: %v", e.Path, e.Err)
}

func (e *OutputWriteError) Unwrap() error { return e.Err }

// IsOutputWriteError reports whether any error in err's chain is an
// OutputWriteError.
func IsOutputWriteError(err error) bool {
	var owe *OutputWriteError
	return errors.As(err, &owe)
}

// Writer streams match records to a CSV report as the engine produces
// them. Text, class and primary key fields are always quoted; scores,
// ids, surrogate keys and coordinates are written bare, so the standard
// csv encoder cannot render the rows. An existing file at the same path
// is overwritten.
type Writer struct {
	path string
	file *os.File
	buf  *bufio.Writer
	rows int
}

// NewWriter creates the report file, creating the parent folder when it
// does not exist, and writes the column header.
func NewWriter(path string) (*Writer, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, &OutputWriteError{Path: path, Err: err}
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, &OutputWriteError{Path: path, Err: err}
	}
	w := &Writer{path: path, file: file, buf: bufio.NewWriter(file)}
	if _, err := w.buf.WriteString(Header + "\n"); err != nil {
		file.Close()
		return nil, &OutputWriteError{Path: path, Err: err}
	}
	return w, nil
}

// Write renders one match record as a report row.
func (w *Writer) Write(rec match.Record) error {
	_, err := fmt.Fprintf(w.buf, "%s,%s,%s,%s,%d,%d,%d,%d,%s,%d,%d,%s,%s,%s,%s,%s,%s\n",
		quote(rec.LeftText), quote(rec.RightText),
		quote(rec.LeftClass), quote(rec.RightClass),
		rec.Ratio, rec.PartialRatio, rec.TokenSortRatio, rec.TokenSetRatio,
		rec.SurrogateKey,
		rec.LeftObjectID, rec.RightObjectID,
		quote(rec.LeftPK), quote(rec.RightPK),
		rec.LeftX, rec.LeftY, rec.RightX, rec.RightY)
	if err != nil {
		return &OutputWriteError{Path: w.path, Err: err}
	}
	w.rows++
	return nil
}

// Rows returns the number of data rows written so far.
func (w *Writer) Rows() int { return w.rows }

// Path returns the report file path.
func (w *Writer) Path() string { return w.path }

// Close flushes buffered rows and closes the file. Closing an already
// closed writer is a no-op.
func (w *Writer) Close() error {
	if w.file == nil {
		return nil
	}
	flushErr := w.buf.Flush()
	closeErr := w.file.Close()
	w.file = nil
	if flushErr != nil {
		return &OutputWriteError{Path: w.path, Err: flushErr}
	}
	if closeErr != nil {
		return &OutputWriteError{Path: w.path, Err: closeErr}
	}
	return nil
}

// quote wraps s in double quotes, doubling any embedded quote.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
