package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/robalobadob/defuse/internal/daily"
)

type dailyReport struct {
	Date string `json:"date"`
	Seed string `json:"seed"`
}

func newDailyCmd(format *string) *cobra.Command {
	var date, salt string
	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Print the daily mission seed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t := time.Now()
			if date != "" {
				var err error
				if t, err = daily.ParseDateKey(date); err != nil {
					return err
				}
			}
			return write(cmd.OutOrStdout(), *format, dailyReport{
				Date: daily.DateKey(t),
				Seed: daily.Seed(t, salt),
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "YYYY-MM-DD (today, UTC, when empty)")
	cmd.Flags().StringVar(&salt, "salt", getEnv("DAILY_SALT", "local_dev_salt"), "daily seed secret")
	return cmd
}
