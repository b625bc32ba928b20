package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	taskuc "taskflow/internal/usecase/task"
)

func newReportCmd(c *cli) *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the 30-day performance report (managers only)",
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			id, err := uuid.Parse(userID)
			if err != nil {
				return fmt.Errorf("--user must be a valid UUID: %w", err)
			}
			a, err := newApp(cmd.Context(), c.cfg)
			if err != nil {
				return err
			}
			defer func() { err = multierr.Append(err, a.Close()) }()

			svc := taskuc.NewService(a.factory, a.logger)
			now := time.Now()
			svc.Now = func() time.Time { return now }
			entries, err := svc.GetPerformanceReport(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printReport(cmd.OutOrStdout(), entries, now)
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "id of the requesting manager")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func printReport(out io.Writer, entries []taskuc.PerformanceEntry, now time.Time) error {
	since := now.AddDate(0, 0, -taskuc.ReportWindowDays)
	fmt.Fprintf(out, "Completed tasks since %s (%s)\n\n", since.Format(time.DateOnly), humanize.Time(since))
	if len(entries) == 0 {
		fmt.Fprintln(out, "no completed tasks in the window")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tUSER\tCOMPLETED\tPER DAY")
	for i, e := range entries {
		name := e.UserName
		if name == "" {
			name = e.UserID.String()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			humanize.Ordinal(i+1),
			name,
			humanize.Comma(int64(e.CompletedCount)),
			humanize.FormatFloat("#,###.##", e.AveragePerDay),
		)
	}
	return tw.Flush()
}
