package out_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	ledgerout "timeledger/internal/modules/ledger/adapter/out"
	"timeledger/internal/modules/ledger/domain"

	_ "modernc.org/sqlite"
)

func TestSQLiteSessionIndexUpsertAndReset(t *testing.T) {
	t.Parallel()
	dbPath := filepath.Join(t.TempDir(), ".timeledger", "index.db")
	index, err := ledgerout.NewSQLiteSessionIndex(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })
	ctx := context.Background()

	l := sampleLedger()
	for _, s := range l.Sessions {
		require.NoError(t, index.UpsertSession(ctx, s))
	}
	// replaying the same session must not duplicate it
	require.NoError(t, index.UpsertSession(ctx, l.Sessions[0]))
	legacy := domain.Session{Category: domain.CategoryAdvanced, StartTime: start.Add(24 * time.Hour), EndTime: start.Add(25 * time.Hour), DurationMinutes: 60}
	require.NoError(t, index.UpsertSession(ctx, legacy))

	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sessions`).Scan(&count))
	require.Equal(t, 3, count)

	var day string
	var minutes float64
	require.NoError(t, db.QueryRow(`SELECT day, duration_minutes FROM sessions WHERE id = ?`, "a").Scan(&day, &minutes))
	require.Equal(t, "2026-03-01", day)
	require.Equal(t, 45.0, minutes)

	require.NoError(t, index.Reset(ctx))
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sessions`).Scan(&count))
	require.Zero(t, count)
}
