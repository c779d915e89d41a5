// Package lock provides MySQL advisory locking for report publishing.
package lock

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrLockTimeout is returned when lock acquisition times out because
// another publisher is holding the lock.
var ErrLockTimeout = errors.New("lock acquisition timed out")

// Common timeout values for lock acquisition (in seconds).
const (
	// TimeoutImmediate returns immediately if lock cannot be acquired (no wait).
	TimeoutImmediate = 0

	// TimeoutShort is suitable for fast-failing duplicate publisher detection.
	TimeoutShort = 1

	// TimeoutMedium provides a reasonable wait for transient conflicts.
	TimeoutMedium = 10

	// TimeoutInfinite waits indefinitely until the lock is acquired.
	// MySQL treats negative values as infinite wait.
	TimeoutInfinite = -1
)

// Querier runs single-row queries. Both *sql.DB and *sql.Conn satisfy it.
// GET_LOCK is bound to a session, so callers that need the lock to cover
// other statements should pass a pinned *sql.Conn.
type Querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// AdvisoryLock represents a MySQL advisory lock for preventing concurrent
// publishing of the same benchmark. It uses GET_LOCK() to acquire a named
// lock that is released when the session ends or RELEASE_LOCK() is called.
type AdvisoryLock struct {
	db       Querier
	lockName string
	held     bool
}

// NewAdvisoryLock creates a new advisory lock with the given name.
// The lock is not acquired until AcquireLock is called.
func NewAdvisoryLock(db Querier, lockName string) *AdvisoryLock {
	return &AdvisoryLock{
		db:       db,
		lockName: lockName,
	}
}

// AcquireLock attempts to acquire the advisory lock with the specified timeout.
// Returns true if the lock was acquired, false if timeout was reached.
//
// MySQL GET_LOCK() return values:
//   - 1: Lock was obtained successfully
//   - 0: Timeout was reached without obtaining the lock
//   - NULL: An error occurred (e.g., out of memory, thread killed)
func (a *AdvisoryLock) AcquireLock(ctx context.Context, timeoutSeconds int) (bool, error) {
	if a.held {
		return true, nil
	}
	if a.db == nil {
		return false, fmt.Errorf("no database session for lock %q", a.lockName)
	}

	var result sql.NullInt64
	err := a.db.QueryRowContext(ctx, "SELECT GET_LOCK(?, ?)", a.lockName, timeoutSeconds).Scan(&result)
	if err != nil {
		return false, fmt.Errorf("failed to execute GET_LOCK: %w", err)
	}

	if !result.Valid {
		return false, fmt.Errorf("GET_LOCK returned NULL for lock %q (possible database error)", a.lockName)
	}

	switch result.Int64 {
	case 1:
		a.held = true
		return true, nil
	case 0:
		return false, nil
	default:
		return false, fmt.Errorf("unexpected GET_LOCK return value: %d", result.Int64)
	}
}

// ReleaseLock releases the advisory lock.
// Returns true if the lock was released, false if it was not held.
//
// MySQL RELEASE_LOCK() return values:
//   - 1: Lock was released successfully
//   - 0: Lock was not established by this session
//   - NULL: Named lock did not exist
func (a *AdvisoryLock) ReleaseLock(ctx context.Context) (bool, error) {
	if !a.held {
		return false, nil
	}

	var result sql.NullInt64
	err := a.db.QueryRowContext(ctx, "SELECT RELEASE_LOCK(?)", a.lockName).Scan(&result)
	if err != nil {
		return false, fmt.Errorf("failed to execute RELEASE_LOCK: %w", err)
	}

	if !result.Valid {
		a.held = false
		return false, fmt.Errorf("RELEASE_LOCK returned NULL for lock %q (lock did not exist)", a.lockName)
	}

	switch result.Int64 {
	case 1:
		a.held = false
		return true, nil
	case 0:
		a.held = false
		return false, nil
	default:
		return false, fmt.Errorf("unexpected RELEASE_LOCK return value: %d", result.Int64)
	}
}

// IsHeld returns true if this lock is currently held by this instance.
func (a *AdvisoryLock) IsHeld() bool {
	return a.held
}

// LockName returns the name of the advisory lock.
func (a *AdvisoryLock) LockName() string {
	return a.lockName
}

// TryAcquire attempts to acquire the lock without waiting.
func (a *AdvisoryLock) TryAcquire(ctx context.Context) (bool, error) {
	return a.AcquireLock(ctx, TimeoutImmediate)
}

// AcquireOrFail acquires the lock within timeoutSeconds or returns
// ErrLockTimeout naming the lock.
func (a *AdvisoryLock) AcquireOrFail(ctx context.Context, timeoutSeconds int) error {
	acquired, err := a.AcquireLock(ctx, timeoutSeconds)
	if err != nil {
		return err
	}
	if !acquired {
		return fmt.Errorf("%w: lock %q is held by another publisher", ErrLockTimeout, a.lockName)
	}
	return nil
}

// GenerateBenchmarkLockName creates the lock name guarding a benchmark's
// published reports: "gapreport:benchmark:{name}". Characters outside
// [A-Za-z0-9_-] are replaced with underscores and the result is cut to the
// 64 characters MySQL allows.
//
// Example: GenerateBenchmarkLockName("pace2025_heuristic") → "gapreport:benchmark:pace2025_heuristic"
func GenerateBenchmarkLockName(benchmark string) string {
	sanitized := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
			return r
		}
		return '_'
	}, benchmark)

	name := "gapreport:benchmark:" + sanitized
	if len(name) > maxLockNameLength {
		name = name[:maxLockNameLength]
	}
	return name
}

const maxLockNameLength = 64

// NewBenchmarkLock creates the advisory lock of a benchmark.
//
// Example:
//
//	l := lock.NewBenchmarkLock(conn, "pace2025_heuristic")
//	if err := l.AcquireOrFail(ctx, lock.TimeoutMedium); err != nil {
//	    return err
//	}
//	defer l.ReleaseLock(ctx)
func NewBenchmarkLock(db Querier, benchmark string) *AdvisoryLock {
	return NewAdvisoryLock(db, GenerateBenchmarkLockName(benchmark))
}

// IsPublishing reports whether another session currently holds the lock of
// a benchmark. db should be a pinned *sql.Conn so the probe lock is released
// on the session that took it. The check is not atomic; the state may change
// right after.
func IsPublishing(ctx context.Context, db Querier, benchmark string) (bool, error) {
	l := NewBenchmarkLock(db, benchmark)

	acquired, err := l.TryAcquire(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check if benchmark %q is being published: %w", benchmark, err)
	}
	if acquired {
		// Only probing; the lock also goes away with the session.
		_, _ = l.ReleaseLock(ctx)
		return false, nil
	}
	return true, nil
}

// WithLock executes fn while holding the lock and releases it afterwards,
// even if fn panics. Returns ErrLockTimeout if the lock cannot be acquired
// within timeoutSeconds.
func (a *AdvisoryLock) WithLock(ctx context.Context, timeoutSeconds int, fn func() error) error {
	acquired, err := a.AcquireLock(ctx, timeoutSeconds)
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !acquired {
		return fmt.Errorf("%w: lock %q is held by another publisher", ErrLockTimeout, a.lockName)
	}

	defer func() {
		// Release with a fresh context so a cancelled ctx does not leak the lock.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_, _ = a.ReleaseLock(releaseCtx)
	}()

	return fn()
}

// WithBenchmarkLock executes fn while holding the lock of a benchmark.
func WithBenchmarkLock(ctx context.Context, db Querier, benchmark string, timeoutSeconds int, fn func() error) error {
	return NewBenchmarkLock(db, benchmark).WithLock(ctx, timeoutSeconds, fn)
}
