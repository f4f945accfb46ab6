package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/apimap/internal/app"
	"github.com/MrSnakeDoc/apimap/internal/harness"
)

var probeToken string

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Run the integration probes once against the backend",
	Long: `Runs every integration probe in order and prints the report.
The command exits non-zero when the overall status is fail.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		log := newLogger(cfg)
		defer func() { _ = log.Sync() }()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := app.New(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer a.Close()

		if probeToken != "" {
			if err := a.SetToken(ctx, probeToken); err != nil {
				return fmt.Errorf("failed to store token: %w", err)
			}
		}

		report, err := a.Probe(ctx)
		if err != nil {
			return err
		}
		if err := printReport(cmd.OutOrStdout(), report); err != nil {
			return err
		}
		if report.Overall == harness.StatusFail {
			return errProbeFailed
		}
		return nil
	},
}

func init() {
	probeCmd.Flags().StringVar(&probeToken, "token", "", "Auth token to send with probe requests")
	rootCmd.AddCommand(probeCmd)
}

func printReport(w io.Writer, report *harness.Report) error {
	if format != "table" {
		return render(w, report)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STATUS\tTEST\tDURATION\tMESSAGE")
	for _, r := range report.Results {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Status, r.Test, r.Duration, r.Message)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	s := report.Summary
	_, err := fmt.Fprintf(w, "\n%s: %d passed, %d warnings, %d failed (%d total) in %s [run %s]\n",
		report.Overall, s.Passed, s.Warnings, s.Failed, s.Total, report.Duration, report.RunID)
	return err
}
