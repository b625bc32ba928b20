package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"taskflow/internal/infrastructure/seed"
)

func newSeedCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert demo users, project, task and comment",
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			if c.cfg.IsProduction() {
				return fmt.Errorf("seed must not be run in production")
			}
			a, err := newApp(cmd.Context(), c.cfg)
			if err != nil {
				return err
			}
			defer func() { err = multierr.Append(err, a.Close()) }()

			res, err := seed.Run(cmd.Context(), a.factory, time.Now())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "inserted %s records (users=%d projects=%d tasks=%d comments=%d)\n",
				humanize.Comma(int64(res.Total())), res.Users, res.Projects, res.Tasks, res.Comments)
			fmt.Fprintf(out, "regular user: %s\nmanager user: %s\n", seed.RegularUserID, seed.ManagerUserID)
			return nil
		},
	}
}
