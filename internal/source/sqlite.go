package source

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/spatial-dedupe/internal/config"
)

// sqliteSource reads records from a SQLite file. Proximity is planar
// squared distance computed in SQL, so radius units are the units the
// coordinates are stored in; the configured SRID is not used.
type sqliteSource struct {
	db    *sql.DB
	table string
	id    string
	text  string
	class string
	pk    string
	x     string
	y     string
}

func openSQLite(cfg config.SourceConfig) (*sqliteSource, error) {
	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, &DataSourceError{Op: "open sqlite", Err: err}
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &DataSourceError{Op: "open sqlite", Err: err}
	}

	return &sqliteSource{
		db:    db,
		table: quoteIdent(cfg.Table),
		id:    quoteIdent(cfg.Fields.ObjectID),
		text:  quoteIdent(cfg.Fields.Text),
		class: quoteIdent(cfg.Fields.Class),
		pk:    quoteIdent(cfg.Fields.PK),
		x:     quoteIdent(cfg.Fields.X),
		y:     quoteIdent(cfg.Fields.Y),
	}, nil
}

// quoteIdent quotes a SQLite identifier, doubling embedded quotes.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (s *sqliteSource) selectList() string {
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s", s.id, s.text, s.class, s.pk, s.x, s.y)
}

func (s *sqliteSource) Count(ctx context.Context) (int, error) {
	var n int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", s.table)
	if err := s.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, &DataSourceError{Op: "count records", Err: err}
	}
	return n, nil
}

func (s *sqliteSource) Iterate(ctx context.Context, fn func(Record) error) error {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s", s.selectList(), s.table, s.id)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return &DataSourceError{Op: "scan records", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return &DataSourceError{Op: "read record", Err: err}
		}
		if err := fn(rec); err != nil {
			if errors.Is(err, ErrStop) {
				return nil
			}
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return &DataSourceError{Op: "scan records", Err: err}
	}
	return nil
}

func (s *sqliteSource) ByObjectID(ctx context.Context, id int64) (Record, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = ?", s.selectList(), s.table, s.id)
	rec, err := scanRecord(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrNotFound
		}
		return Record{}, &DataSourceError{Op: fmt.Sprintf("select object %d", id), Err: err}
	}
	return rec, nil
}

func (s *sqliteSource) Near(ctx context.Context, x, y, radius float64) ([]Record, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE (COALESCE(%s, 0) - ?) * (COALESCE(%s, 0) - ?)
		    + (COALESCE(%s, 0) - ?) * (COALESCE(%s, 0) - ?) <= ?
		ORDER BY %s
	`, s.selectList(), s.table, s.x, s.x, s.y, s.y, s.id)

	rows, err := s.db.QueryContext(ctx, query, x, x, y, y, radius*radius)
	if err != nil {
		return nil, &DataSourceError{Op: "proximity query", Err: err}
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, &DataSourceError{Op: "read neighbor", Err: err}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, &DataSourceError{Op: "proximity query", Err: err}
	}
	return records, nil
}

func (s *sqliteSource) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{Classes: make(map[string]int)}

	query := fmt.Sprintf(`
		SELECT
			COUNT(*),
			COUNT(CASE WHEN %s IS NOT NULL AND %s IS NOT NULL THEN 1 END),
			COUNT(CASE WHEN %s IS NOT NULL AND %s <> '' THEN 1 END)
		FROM %s
	`, s.x, s.y, s.text, s.text, s.table)
	if err := s.db.QueryRowContext(ctx, query).Scan(&stats.Total, &stats.WithCoords, &stats.WithText); err != nil {
		return Stats{}, &DataSourceError{Op: "field statistics", Err: err}
	}
	stats.MissingCoords = stats.Total - stats.WithCoords
	stats.MissingText = stats.Total - stats.WithText

	classQuery := fmt.Sprintf("SELECT COALESCE(%s, ''), COUNT(*) FROM %s GROUP BY 1", s.class, s.table)
	rows, err := s.db.QueryContext(ctx, classQuery)
	if err != nil {
		return Stats{}, &DataSourceError{Op: "class statistics", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var class string
		var n int
		if err := rows.Scan(&class, &n); err != nil {
			return Stats{}, &DataSourceError{Op: "class statistics", Err: err}
		}
		stats.Classes[class] = n
	}
	if err := rows.Err(); err != nil {
		return Stats{}, &DataSourceError{Op: "class statistics", Err: err}
	}
	return stats, nil
}

func (s *sqliteSource) Close() error {
	return s.db.Close()
}
