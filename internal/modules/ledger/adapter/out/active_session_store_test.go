package out_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	ledgerout "timeledger/internal/modules/ledger/adapter/out"
	"timeledger/internal/modules/ledger/domain"
	apperrors "timeledger/internal/platform/errors"
)

func TestFileActiveSessionStoreLifecycle(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), ".timeledger", "active-session.json")
	store := ledgerout.NewFileActiveSessionStore(path)
	ctx := context.Background()

	_, err := store.LoadActive(ctx)
	require.ErrorIs(t, err, apperrors.ErrNoActiveSession)

	open := domain.OpenSession{SessionID: "sess-1", Category: domain.CategoryBackend, StartedAt: start}
	require.NoError(t, store.SaveActive(ctx, open))

	got, err := store.LoadActive(ctx)
	require.NoError(t, err)
	require.Equal(t, open, got)

	require.NoError(t, store.ClearActive(ctx))
	require.NoError(t, store.ClearActive(ctx))
	_, err = store.LoadActive(ctx)
	require.ErrorIs(t, err, apperrors.ErrNoActiveSession)
}

func TestFileActiveSessionStoreBadMarker(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte(`{}`), 0o644))
	_, err := ledgerout.NewFileActiveSessionStore(empty).LoadActive(context.Background())
	require.ErrorIs(t, err, apperrors.ErrNoActiveSession)

	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte(`{`), 0o644))
	_, err = ledgerout.NewFileActiveSessionStore(broken).LoadActive(context.Background())
	require.Error(t, err)
	require.NotErrorIs(t, err, apperrors.ErrNoActiveSession)
}
