package main

import (
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/statespend/internal/aggregate"
	"github.com/sells-group/statespend/internal/model"
)

var describeJSON bool

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Print per-category statistics across states for the configured year",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		_, obs, err := loadInputs(ctx)
		if err != nil {
			return err
		}
		summaries, err := aggregate.Describe(obs, cfg.Wrangle.Year, model.ValueField(cfg.Wrangle.Field))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if describeJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return eris.Wrap(enc.Encode(summaries), "describe: encode")
		}

		fmt.Fprintf(out, "%-30s %5s %14s %14s %14s %14s %14s\n", "CATEGORY", "N", "MIN", "MAX", "MEAN", "MEDIAN", "STDDEV")
		for _, s := range summaries {
			fmt.Fprintf(out, "%-30s %5d %14.4f %14.4f %14.4f %14.4f %14.4f\n",
				s.Category, s.Count, s.Min, s.Max, s.Mean, s.Median, s.StdDev)
		}
		return nil
	},
}

func init() {
	describeCmd.Flags().BoolVar(&describeJSON, "json", false, "print JSON instead of a table")
	rootCmd.AddCommand(describeCmd)
}
