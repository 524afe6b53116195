package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	analyticsinadapter "timeledger/internal/modules/analytics/adapter/in"
	analyticsoutadapter "timeledger/internal/modules/analytics/adapter/out"
	analyticsout "timeledger/internal/modules/analytics/port/out"
	analyticsservice "timeledger/internal/modules/analytics/service"
	analyticsusecase "timeledger/internal/modules/analytics/usecase"
	ledgerinadapter "timeledger/internal/modules/ledger/adapter/in"
	ledgeroutadapter "timeledger/internal/modules/ledger/adapter/out"
	ledgerout "timeledger/internal/modules/ledger/port/out"
	ledgerservice "timeledger/internal/modules/ledger/service"
	ledgerusecase "timeledger/internal/modules/ledger/usecase"
	"timeledger/internal/platform/clock"
	"timeledger/internal/platform/config"
	"timeledger/internal/platform/id"
	uiapp "timeledger/internal/ui/app"
)

type App struct {
	LedgerCLI    ledgerinadapter.CLIHandler
	LedgerTUI    ledgerinadapter.TUIHandler
	AnalyticsCLI analyticsinadapter.CLIHandler
	Logger       zerolog.Logger

	closers []io.Closer
}

// Close releases the index database handles.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	a.closers = nil
	return errors.Join(errs...)
}

func New(ctx context.Context, cfg config.Config, log zerolog.Logger) (*App, error) {
	clk := clock.SystemClock{}

	ledgerSvc, err := ledgerservice.NewLedgerService(ctx, clk, id.UUID{}, ledgeroutadapter.NewJSONLedgerStore(cfg.LedgerPath()), cfg.StudentID)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}

	var closers []io.Closer
	var index ledgerout.SessionIndex
	var daily analyticsout.DailyTotalsReader
	if cfg.Index.Enabled {
		sessionIndex, err := ledgeroutadapter.NewSQLiteSessionIndex(cfg.IndexPath())
		if err != nil {
			return nil, fmt.Errorf("new session index: %w", err)
		}
		dailyReader, err := analyticsoutadapter.NewSQLiteDailyReader(cfg.IndexPath())
		if err != nil {
			_ = sessionIndex.Close()
			return nil, fmt.Errorf("new daily reader: %w", err)
		}
		index, daily = sessionIndex, dailyReader
		closers = append(closers, sessionIndex, dailyReader)
	}

	var notes ledgerout.SessionNotes
	if cfg.Notes.Enabled {
		notes = ledgeroutadapter.NewMarkdownSessionNotes(cfg.NotesDir())
	}

	ledgerUC := ledgerusecase.NewInteractor(
		ledgerSvc,
		ledgeroutadapter.NewFileActiveSessionStore(cfg.ActiveSessionPath()),
		index,
		notes,
		log.With().Str("module", "ledger").Logger(),
	)

	analyticsUC := analyticsusecase.NewInteractor(
		analyticsservice.NewAnalyticsService(
			clk,
			analyticsoutadapter.NewLedgerSourceAdapter(ledgerUC),
			daily,
			analyticsoutadapter.NewJSONReportWriter(),
			cfg.ExportPath(),
		),
		log.With().Str("module", "analytics").Logger(),
	)

	return &App{
		LedgerCLI:    ledgerinadapter.NewCLIHandler(ledgerUC),
		LedgerTUI:    ledgerinadapter.NewTUIHandler(ledgerUC),
		AnalyticsCLI: analyticsinadapter.NewCLIHandler(analyticsUC),
		Logger:       log,
		closers:      closers,
	}, nil
}

func RunTUI(app *App) error {
	model := uiapp.NewModel(app.LedgerTUI, app.AnalyticsCLI, clock.SystemClock{})
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
