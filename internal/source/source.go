// Package source reads point records from the spatial data source. Two
// backends exist: Postgres with PostGIS, and SQLite with planar geometry.
package source

import (
	"context"
	"errors"
	"fmt"
	"strconv"
)

// Record is one row of the source table. X and Y are nil when the record
// has no location; proximity queries treat such records as sitting at the
// origin.
type Record struct {
	ObjectID int64
	Text     string
	Class    string
	PK       string
	X        *float64
	Y        *float64
}

// Stats summarises the source table for the analyze command.
type Stats struct {
	Total         int
	WithCoords    int
	MissingCoords int
	WithText      int
	MissingText   int
	Classes       map[string]int
}

// ErrStop ends Iterate early without error.
var ErrStop = errors.New("stop iteration")

// ErrNotFound reports that no record has the requested object id.
var ErrNotFound = errors.New("record not found")

// Source is a read-only view of one spatial table.
//
// Near returns every record within radius of (x, y), boundary inclusive,
// with missing coordinates read as the origin. It is a pure query: no
// selection state is kept between calls. Near and Iterate return records
// in ascending object-id order so repeat runs over unchanged data visit
// pairs in a stable order; callers must not rely on any other ordering.
type Source interface {
	Count(ctx context.Context) (int, error)
	Iterate(ctx context.Context, fn func(Record) error) error
	ByObjectID(ctx context.Context, id int64) (Record, error)
	Near(ctx context.Context, x, y, radius float64) ([]Record, error)
	Stats(ctx context.Context) (Stats, error)
	Close() error
}

// DataSourceError reports a failed read or query against the source.
type DataSourceError struct {
	Op  string
	Err error
}

func (e *DataSourceError) Error() string {
	return fmt.Sprintf("data source: %s: %v", e.Op, e.Err)
}

func (e *DataSourceError) Unwrap() error { return e.Err }

// IsDataSourceError reports whether err's chain contains a DataSourceError.
func IsDataSourceError(err error) bool {
	var e *DataSourceError
	return errors.As(err, &e)
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanRecord reads one row in the shared column order: object id, text,
// class, pk, x, y. Text, class and pk may be NULL; pk may be numeric.
func scanRecord(row rowScanner) (Record, error) {
	var (
		rec         Record
		text, class *string
		pk          any
		x, y        *float64
	)
	if err := row.Scan(&rec.ObjectID, &text, &class, &pk, &x, &y); err != nil {
		return Record{}, err
	}
	if text != nil {
		rec.Text = *text
	}
	if class != nil {
		rec.Class = *class
	}
	rec.PK = pkString(pk)
	rec.X = x
	rec.Y = y
	return rec, nil
}

// pkString renders the caller-named primary key column, which is numeric
// in some source tables and text in others.
func pkString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
