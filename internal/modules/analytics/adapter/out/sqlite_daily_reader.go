package out

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"timeledger/internal/modules/analytics/domain"
	analyticsout "timeledger/internal/modules/analytics/port/out"

	_ "modernc.org/sqlite"
)

var _ analyticsout.DailyTotalsReader = (*SQLiteDailyReader)(nil)

// SQLiteDailyReader aggregates the session index written by the ledger. An
// index whose table has not been created yet reads as empty.
type SQLiteDailyReader struct {
	db *sql.DB
}

func NewSQLiteDailyReader(dbPath string) (*SQLiteDailyReader, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return &SQLiteDailyReader{db: db}, nil
}

func (r *SQLiteDailyReader) Close() error {
	return r.db.Close()
}

func (r *SQLiteDailyReader) DailyTotals(ctx context.Context) ([]domain.DailyTotal, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT day, SUM(duration_minutes) FROM sessions GROUP BY day ORDER BY day`)
	if err != nil {
		if strings.Contains(err.Error(), "no such table") {
			return []domain.DailyTotal{}, nil
		}
		return nil, fmt.Errorf("query daily totals: %w", err)
	}
	defer rows.Close()

	out := []domain.DailyTotal{}
	for rows.Next() {
		var d domain.DailyTotal
		if err := rows.Scan(&d.Day, &d.Minutes); err != nil {
			return nil, fmt.Errorf("scan daily total: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
