package out

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"timeledger/internal/modules/ledger/domain"
	ledgerout "timeledger/internal/modules/ledger/port/out"
	apperrors "timeledger/internal/platform/errors"
)

// FileActiveSessionStore keeps the open session in a marker file between
// command invocations. The marker is never part of the ledger record.
type FileActiveSessionStore struct {
	path string
}

func NewFileActiveSessionStore(path string) ledgerout.ActiveSessionStore {
	return &FileActiveSessionStore{path: path}
}

func (s *FileActiveSessionStore) SaveActive(_ context.Context, session domain.OpenSession) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create active session dir: %w", err)
	}
	payload, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal active session: %w", err)
	}
	if err := os.WriteFile(s.path, payload, 0o644); err != nil {
		return fmt.Errorf("write active session: %w", err)
	}
	return nil
}

func (s *FileActiveSessionStore) LoadActive(_ context.Context) (domain.OpenSession, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.OpenSession{}, apperrors.ErrNoActiveSession
		}
		return domain.OpenSession{}, fmt.Errorf("read active session: %w", err)
	}
	active := domain.OpenSession{}
	if err := json.Unmarshal(payload, &active); err != nil {
		return domain.OpenSession{}, fmt.Errorf("decode active session: %w", err)
	}
	if active.SessionID == "" {
		return domain.OpenSession{}, apperrors.ErrNoActiveSession
	}
	return active, nil
}

func (s *FileActiveSessionStore) ClearActive(_ context.Context) error {
	if err := os.Remove(s.path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("clear active session: %w", err)
	}
	return nil
}
