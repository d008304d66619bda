package main

import (
	"encoding/json"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/statespend/internal/aggregate"
)

var regionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "Print population-weighted regional and national aggregates as JSON",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		_, obs, err := loadInputs(ctx)
		if err != nil {
			return err
		}
		rows, err := aggregate.Compute(obs, cfg.Wrangle.Year, cfg.AggregateOptions())
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(rows), "regions: encode")
	},
}

func init() {
	rootCmd.AddCommand(regionsCmd)
}
