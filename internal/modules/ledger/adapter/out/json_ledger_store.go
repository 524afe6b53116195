package out

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"timeledger/internal/modules/ledger/domain"
	ledgerout "timeledger/internal/modules/ledger/port/out"
	apperrors "timeledger/internal/platform/errors"
)

type JSONLedgerStore struct {
	path string
}

func NewJSONLedgerStore(path string) ledgerout.LedgerStore {
	return &JSONLedgerStore{path: path}
}

func (s *JSONLedgerStore) Load(_ context.Context) (*domain.Ledger, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("%w: read %s: %v", apperrors.ErrCorruptLedger, s.path, err)
	}
	ledger := &domain.Ledger{}
	if err := json.Unmarshal(payload, ledger); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", apperrors.ErrCorruptLedger, s.path, err)
	}
	ledger.Normalize()
	if err := ledger.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", apperrors.ErrCorruptLedger, s.path, err)
	}
	return ledger, nil
}

// Save replaces the whole file through a temp file and rename so readers
// never observe a partial write.
func (s *JSONLedgerStore) Save(_ context.Context, ledger *domain.Ledger) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create ledger dir: %w", err)
	}
	payload, err := json.MarshalIndent(ledger, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal ledger: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp ledger: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(append(payload, '\n')); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write ledger: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close ledger: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("chmod ledger: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("replace ledger: %w", err)
	}
	return nil
}
