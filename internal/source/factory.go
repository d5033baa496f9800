package source

import (
	"strings"

	"github.com/spatial-dedupe/internal/config"
)

// Open connects to the data source named by the DSN: postgres:// and
// postgresql:// URLs go to Postgres/PostGIS, anything else is treated as a
// SQLite file path.
func Open(cfg config.SourceConfig) (Source, error) {
	if strings.HasPrefix(cfg.DSN, "postgres://") || strings.HasPrefix(cfg.DSN, "postgresql://") {
		return openPostgres(cfg)
	}
	return openSQLite(cfg)
}
