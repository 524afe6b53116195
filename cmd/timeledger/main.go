package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"timeledger/internal/bootstrap"
	"timeledger/internal/modules/ledger/domain"
	ledgerdto "timeledger/internal/modules/ledger/dto"
	"timeledger/internal/platform/config"
	apperrors "timeledger/internal/platform/errors"
	"timeledger/internal/platform/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootFlags struct {
	dataDir   string
	studentID string
	logLevel  string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "timeledger",
		Short:         "Track time spent on an assessment by category",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.dataDir, "dir", ".", "data directory holding the ledger")
	root.PersistentFlags().StringVar(&flags.studentID, "student", "", "student id (default $GITHUB_USER)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level: debug|info|warn|error")

	root.AddCommand(newStartCmd(flags))
	for _, c := range domain.Categories {
		root.AddCommand(newStartAliasCmd(flags, c))
	}
	root.AddCommand(newEndCmd(flags))
	root.AddCommand(newSubmitCmd(flags))
	root.AddCommand(newSummaryCmd(flags))
	root.AddCommand(newStatusCmd(flags))
	root.AddCommand(newHistoryCmd(flags))
	root.AddCommand(newExportCmd(flags))
	root.AddCommand(newReindexCmd(flags))
	root.AddCommand(newTUICmd(flags))
	return root
}

func loadApp(ctx context.Context, flags *rootFlags) (*bootstrap.App, error) {
	cfg, err := config.Load(flags.dataDir, config.Overrides{StudentID: flags.studentID, LogLevel: flags.logLevel})
	if err != nil {
		return nil, err
	}
	log, err := logger.New(os.Stderr, cfg.Log.Level, cfg.Log.Pretty)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("ledger", cfg.LedgerPath()).Str("student", cfg.StudentID).Msg("config loaded")
	return bootstrap.New(ctx, cfg, log)
}

func newStartCmd(flags *rootFlags) *cobra.Command {
	var switchOpen bool
	cmd := &cobra.Command{
		Use:   "start <category>",
		Short: "Start timing a category",
		Long:  "Start timing a category. Categories: basic, intermediate, advanced, backend, setup (or their full names).",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStart(cmd, flags, args[0], switchOpen)
		},
	}
	cmd.Flags().BoolVar(&switchOpen, "switch", false, "end the open session first instead of failing")
	return cmd
}

func newStartAliasCmd(flags *rootFlags, category domain.Category) *cobra.Command {
	var switchOpen bool
	cmd := &cobra.Command{
		Use:     "start-" + category.Alias(),
		Aliases: []string{"start_" + category.Alias()},
		Short:   "Start timing " + category.Label(),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStart(cmd, flags, string(category), switchOpen)
		},
	}
	cmd.Flags().BoolVar(&switchOpen, "switch", false, "end the open session first instead of failing")
	return cmd
}

func runStart(cmd *cobra.Command, flags *rootFlags, category string, switchOpen bool) error {
	app, err := loadApp(cmd.Context(), flags)
	if err != nil {
		return err
	}
	defer app.Close()
	out, err := app.LedgerCLI.Start(cmd.Context(), category, switchOpen)
	if err != nil {
		if errors.Is(err, apperrors.ErrActiveSessionExists) {
			return fmt.Errorf("%w (run `timeledger end` first or pass --switch)", err)
		}
		return err
	}
	w := cmd.OutOrStdout()
	if out.Previous != nil {
		printEnded(w, *out.Previous)
	}
	_, _ = fmt.Fprintf(w, "Started tracking time for: %s\n", out.Category)
	_, _ = fmt.Fprintf(w, "  session started at %s\n", out.StartedAt.Local().Format(time.TimeOnly))
	return nil
}

func printEnded(w io.Writer, s ledgerdto.SessionOutput) {
	_, _ = fmt.Fprintf(w, "Session ended: %.1f minutes on %s\n", s.DurationMin, s.Category)
}

func newEndCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "end",
		Short: "End the open session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.LedgerCLI.End(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if !out.Ended {
				_, _ = fmt.Fprintln(w, "No active session to end")
				return nil
			}
			printEnded(w, out.Session)
			_, _ = fmt.Fprintf(w, "  total %.1f minutes\n", out.TotalMinutes)
			if out.NotePath != "" {
				_, _ = fmt.Fprintf(w, "  note %s\n", out.NotePath)
			}
			return nil
		},
	}
}

func newSubmitCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "submit",
		Short: "Log a submission",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.LedgerCLI.Submit(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Submission #%d logged\n", out.Count)
			return nil
		},
	}
}

func newSummaryCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print the time summary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.LedgerCLI.Summary(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), out.Text)
			return nil
		},
	}
}

func newStatusCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the open session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.LedgerCLI.Status(cmd.Context())
			if errors.Is(err, apperrors.ErrNoActiveSession) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No active session")
				return nil
			}
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\tstarted %s\t%.1f min\n",
				out.SessionID, out.CategoryLabel, out.StartedAt.Local().Format(time.DateTime), out.ElapsedMin)
			return nil
		},
	}
}

func newHistoryCmd(flags *rootFlags) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List closed sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer app.Close()
			sessions, err := app.LedgerCLI.History(cmd.Context(), category)
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no sessions")
				return nil
			}
			for _, s := range sessions {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%.1f min\n",
					s.StartTime.Local().Format(time.DateTime), s.EndTime.Local().Format(time.TimeOnly), s.Category, s.DurationMin)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "only sessions of this category")
	return cmd
}

func newExportCmd(flags *rootFlags) *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export analytics as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.AnalyticsCLI.Export(cmd.Context(), outDir)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Analytics exported to: %s\n", out.Path)
			return nil
		},
	}
	cmd.Flags().StringVar(&outDir, "out", "", "output directory (default from config)")
	return cmd
}

func newReindexCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the session index from the ledger",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.LedgerCLI.Reindex(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "reindexed %d sessions\n", out.Sessions)
			return nil
		},
	}
}

func newTUICmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the terminal dashboard",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer app.Close()
			return bootstrap.RunTUI(app)
		},
	}
}
