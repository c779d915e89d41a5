package publish

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dbsmedya/gapreport/internal/config"
	"github.com/dbsmedya/gapreport/internal/lock"
	"github.com/dbsmedya/gapreport/internal/logger"
	"github.com/dbsmedya/gapreport/internal/sqlutil"
	"github.com/dbsmedya/gapreport/internal/table"
)

// ErrVerificationFailed is returned when the stored report does not match
// the table that was published.
var ErrVerificationFailed = errors.New("published report verification failed")

// Receipt describes a stored report.
type Receipt struct {
	ReportID     int64
	Benchmark    string
	CreatedAt    time.Time
	Instances    int
	Runs         int
	Cells        int
	Verification *VerifyResult
}

// Publisher stores report tables. Each publish runs on one pinned session
// that holds the benchmark's advisory lock for the whole write.
type Publisher struct {
	db          *sql.DB
	tables      Tables
	lockTimeout int
	batchSize   int
	method      VerificationMethod
	logger      *logger.Logger
	now         func() time.Time
}

// NewPublisher creates a publisher writing to db.
func NewPublisher(db *sql.DB, cfg config.PublishConfig, log *logger.Logger) (*Publisher, error) {
	if db == nil {
		return nil, fmt.Errorf("database is nil")
	}
	tables, err := NewTables(cfg.TablePrefix)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NewDefault()
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 500
	}
	return &Publisher{
		db:          db,
		tables:      tables,
		lockTimeout: cfg.LockTimeout,
		batchSize:   batchSize,
		method:      VerificationMethod(cfg.Verification),
		logger:      log,
		now:         func() time.Time { return time.Now().UTC() },
	}, nil
}

// Tables returns the quoted table names in use.
func (p *Publisher) Tables() Tables {
	return p.tables
}

// EnsureSchema creates the report tables when they do not exist.
func (p *Publisher) EnsureSchema(ctx context.Context) error {
	return p.tables.EnsureSchema(ctx, p.db)
}

// Publish stores a table in one transaction and verifies it after commit.
// Concurrent publishers of the same benchmark are serialized by an advisory
// lock; lock.ErrLockTimeout is returned when it cannot be taken in time.
func (p *Publisher) Publish(ctx context.Context, t *table.Table) (*Receipt, error) {
	log := p.logger.WithBenchmark(t.Benchmark)

	conn, err := p.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open database session: %w", err)
	}
	defer conn.Close()

	cells := Cells(t)
	receipt := &Receipt{
		Benchmark: t.Benchmark,
		CreatedAt: p.now(),
		Instances: len(t.Instances()),
		Runs:      len(t.Schema.Runs),
		Cells:     len(cells),
	}

	err = lock.WithBenchmarkLock(ctx, conn, t.Benchmark, p.lockTimeout, func() error {
		id, err := p.insert(ctx, conn, receipt, cells)
		if err != nil {
			return err
		}
		receipt.ReportID = id

		result, err := p.verify(ctx, conn, id, cells)
		if err != nil {
			return fmt.Errorf("failed to verify report %d: %w", id, err)
		}
		receipt.Verification = result
		if !result.Match {
			log.Errorw("Verification FAILED", "report_id", id, "method", result.Method, "reason", result.ErrorMessage)
			return fmt.Errorf("%w: report %d: %s", ErrVerificationFailed, id, result.ErrorMessage)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Infow("Report published",
		"report_id", receipt.ReportID,
		"instances", receipt.Instances,
		"runs", receipt.Runs,
		"cells", receipt.Cells,
		"verification", receipt.Verification.Method)
	return receipt, nil
}

// insert writes the report row and its cells in a single transaction.
func (p *Publisher) insert(ctx context.Context, conn *sql.Conn, r *Receipt, cells []CellRecord) (id int64, err error) {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				p.logger.Warnw("Rollback failed", "error", rbErr)
			}
		}
	}()

	res, err := tx.ExecContext(ctx,
		fmt.Sprintf("INSERT INTO %s (benchmark, created_at, instance_count, run_count) VALUES (?, ?, ?, ?)", p.tables.Reports),
		r.Benchmark, r.CreatedAt, r.Instances, r.Runs)
	if err != nil {
		return 0, fmt.Errorf("failed to insert report: %w", err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read report id: %w", err)
	}

	for start := 0; start < len(cells); start += p.batchSize {
		end := start + p.batchSize
		if end > len(cells) {
			end = len(cells)
		}
		if err = p.insertCells(ctx, tx, id, cells[start:end]); err != nil {
			return 0, err
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit report: %w", err)
	}
	return id, nil
}

func (p *Publisher) insertCells(ctx context.Context, tx *sql.Tx, reportID int64, batch []CellRecord) error {
	groups := make([]string, len(batch))
	args := make([]any, 0, len(batch)*len(cellColumns))
	group := sqlutil.Placeholders(len(cellColumns))
	for i, c := range batch {
		groups[i] = group
		args = append(args, c.args(reportID)...)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		p.tables.Cells, strings.Join(cellColumns, ", "), strings.Join(groups, ", "))
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert cells %d-%d: %w", batch[0].RowIndex, batch[len(batch)-1].RowIndex, err)
	}
	return nil
}
