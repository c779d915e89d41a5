// Package publish stores report tables in MySQL.
package publish

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dbsmedya/gapreport/internal/sqlutil"
)

// Tables holds the quoted names of the report tables.
type Tables struct {
	Reports string
	Cells   string
}

// NewTables validates the prefix and builds the quoted table names.
func NewTables(prefix string) (Tables, error) {
	reports, err := sqlutil.TableName(prefix, "reports")
	if err != nil {
		return Tables{}, fmt.Errorf("invalid table prefix %q: %w", prefix, err)
	}
	cells, err := sqlutil.TableName(prefix, "report_cells")
	if err != nil {
		return Tables{}, fmt.Errorf("invalid table prefix %q: %w", prefix, err)
	}
	return Tables{Reports: reports, Cells: cells}, nil
}

// DDL returns the CREATE TABLE statements, reports first.
func (t Tables) DDL() []string {
	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
  id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
  benchmark VARCHAR(255) NOT NULL,
  created_at DATETIME(6) NOT NULL,
  instance_count INT NOT NULL,
  run_count INT NOT NULL,
  PRIMARY KEY (id),
  KEY idx_benchmark_created (benchmark, created_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`, t.Reports),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
  report_id BIGINT UNSIGNED NOT NULL,
  row_index INT NOT NULL,
  run_index INT NOT NULL,
  instance VARCHAR(512) NOT NULL,
  run VARCHAR(255) NOT NULL,
  value DOUBLE NOT NULL,
  available TINYINT(1) NOT NULL,
  gap DOUBLE NOT NULL,
  classification VARCHAR(16) NULL,
  PRIMARY KEY (report_id, row_index, run_index),
  FOREIGN KEY (report_id) REFERENCES %s (id) ON DELETE CASCADE
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`, t.Cells, t.Reports),
	}
}

// EnsureSchema creates the report tables when they do not exist.
func (t Tables) EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range t.DDL() {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create report tables: %w", err)
		}
	}
	return nil
}
