// Command backfill creates placeholder attendance for past missing days and
// recomputes stored overtime.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/cmlabs-hris/hris-attendance-go/internal/app"
	"github.com/cmlabs-hris/hris-attendance-go/internal/config"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "backfill",
		Short:         "Batch maintenance for attendance and overtime",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newMissingCmd(), newRecomputeOvertimeCmd())
	return root
}

func setup() (app.Services, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return app.Services{}, nil, fmt.Errorf("failed to load config: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	repos, closeDB, err := app.OpenRepositories(cfg)
	if err != nil {
		return app.Services{}, nil, err
	}

	services, err := app.NewServices(cfg, repos)
	if err != nil {
		closeDB()
		return app.Services{}, nil, err
	}
	return services, closeDB, nil
}

func newMissingCmd() *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "missing",
		Short: "Create 04:00 placeholder intervals for working days without attendance",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := attendance.BackfillRequest{From: from, To: to}
			if err := req.Validate(); err != nil {
				return fmt.Errorf("invalid range: %w", err)
			}
			fromDate, toDate := req.Range()

			services, closeDB, err := setup()
			if err != nil {
				return err
			}
			defer closeDB()

			result, err := services.Missing.Backfill(cmd.Context(), fromDate, toDate)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "scanned %d days, created %d placeholder intervals\n", result.Days, result.Created)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "first date to scan (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "last date to scan (YYYY-MM-DD), defaults to yesterday")
	_ = cmd.MarkFlagRequired("from")
	return cmd
}

func newRecomputeOvertimeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recompute-overtime",
		Short: "Recompute every stored overtime record",
		RunE: func(cmd *cobra.Command, args []string) error {
			services, closeDB, err := setup()
			if err != nil {
				return err
			}
			defer closeDB()

			n, err := services.Overtime.RecomputeAll(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "recomputed %d overtime records\n", n)
			return nil
		},
	}
}
