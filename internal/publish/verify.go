package publish

import (
	"context"
	"database/sql"
	"fmt"
)

// VerificationMethod defines how a published report is checked after commit.
type VerificationMethod string

const (
	// MethodCount compares the stored cell count (fast).
	MethodCount VerificationMethod = "count"
	// MethodSHA256 hashes the stored cells and compares with the local table.
	MethodSHA256 VerificationMethod = "sha256"
	// MethodSkip skips verification entirely.
	MethodSkip VerificationMethod = "skip"
)

// VerifyResult holds the outcome of verifying one published report.
type VerifyResult struct {
	ReportID      int64
	Method        VerificationMethod
	ExpectedCount int64
	StoredCount   int64
	ExpectedHash  string
	StoredHash    string
	Match         bool
	ErrorMessage  string
}

// queryer is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// verify checks the stored cells of a report against the expected cells.
func (p *Publisher) verify(ctx context.Context, q queryer, reportID int64, cells []CellRecord) (*VerifyResult, error) {
	switch p.method {
	case MethodSkip:
		return &VerifyResult{ReportID: reportID, Method: MethodSkip, Match: true}, nil
	case MethodCount, "":
		return p.verifyByCount(ctx, q, reportID, cells)
	case MethodSHA256:
		return p.verifyBySHA256(ctx, q, reportID, cells)
	default:
		return nil, fmt.Errorf("unsupported verification method: %s", p.method)
	}
}

func (p *Publisher) verifyByCount(ctx context.Context, q queryer, reportID int64, cells []CellRecord) (*VerifyResult, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE report_id = ?", p.tables.Cells)
	var stored int64
	if err := q.QueryRowContext(ctx, query, reportID).Scan(&stored); err != nil {
		return nil, fmt.Errorf("failed to count stored cells: %w", err)
	}

	result := &VerifyResult{
		ReportID:      reportID,
		Method:        MethodCount,
		ExpectedCount: int64(len(cells)),
		StoredCount:   stored,
		Match:         stored == int64(len(cells)),
	}
	if !result.Match {
		result.ErrorMessage = fmt.Sprintf("count mismatch: expected=%d, stored=%d", len(cells), stored)
	}
	return result, nil
}

func (p *Publisher) verifyBySHA256(ctx context.Context, q queryer, reportID int64, cells []CellRecord) (*VerifyResult, error) {
	query := fmt.Sprintf(`SELECT row_index, run_index, instance, run, value, available, gap, classification
FROM %s WHERE report_id = ? ORDER BY row_index, run_index`, p.tables.Cells)

	rows, err := q.QueryContext(ctx, query, reportID)
	if err != nil {
		return nil, fmt.Errorf("failed to read stored cells: %w", err)
	}
	defer rows.Close()

	var stored []CellRecord
	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("verification interrupted: %w", err)
		}
		var c CellRecord
		var class sql.NullString
		if err := rows.Scan(&c.RowIndex, &c.RunIndex, &c.Instance, &c.Run, &c.Value, &c.Available, &c.Gap, &class); err != nil {
			return nil, fmt.Errorf("failed to scan stored cell: %w", err)
		}
		c.Classification = class.String
		stored = append(stored, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stored cells: %w", err)
	}

	result := &VerifyResult{
		ReportID:      reportID,
		Method:        MethodSHA256,
		ExpectedCount: int64(len(cells)),
		StoredCount:   int64(len(stored)),
		ExpectedHash:  digest(cells),
		StoredHash:    digest(stored),
	}
	result.Match = result.ExpectedCount == result.StoredCount && result.ExpectedHash == result.StoredHash
	if !result.Match {
		if result.ExpectedCount != result.StoredCount {
			result.ErrorMessage = fmt.Sprintf("count mismatch: expected=%d, stored=%d", result.ExpectedCount, result.StoredCount)
		} else {
			result.ErrorMessage = fmt.Sprintf("hash mismatch: expected=%s, stored=%s", result.ExpectedHash[:16], result.StoredHash[:16])
		}
	}
	return result, nil
}
