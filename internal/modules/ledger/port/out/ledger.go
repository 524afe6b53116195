package out

import (
	"context"

	"timeledger/internal/modules/ledger/domain"
)

// LedgerStore persists the whole record. Load returns apperrors.ErrNotFound
// when nothing has been stored yet.
type LedgerStore interface {
	Load(ctx context.Context) (*domain.Ledger, error)
	Save(ctx context.Context, ledger *domain.Ledger) error
}

type ActiveSessionStore interface {
	SaveActive(ctx context.Context, session domain.OpenSession) error
	LoadActive(ctx context.Context) (domain.OpenSession, error)
	ClearActive(ctx context.Context) error
}

type SessionIndex interface {
	Reset(ctx context.Context) error
	UpsertSession(ctx context.Context, session domain.Session) error
}

type SessionNotes interface {
	Save(ctx context.Context, studentID string, session domain.Session) (string, error)
}
