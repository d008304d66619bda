package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sells-group/statespend/internal/export"
	"github.com/sells-group/statespend/internal/wrangle"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the wide table (values and ratio columns) to CSV or XLSX",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		reg, obs, err := loadInputs(ctx)
		if err != nil {
			return err
		}
		table, err := wrangle.Pivot(obs, cfg.Wrangle.Year, reg, cfg.WrangleOptions())
		if err != nil {
			return err
		}
		return export.Write(table, exportOutput)
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOutput, "output", "wide.csv", "output file, .csv or .xlsx")
	rootCmd.AddCommand(exportCmd)
}
