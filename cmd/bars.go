package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sells-group/statespend/internal/figure"
)

var (
	barsModels  []string
	barsOutput  string
	barsRegions bool
	barsTitle   string
)

var barsCmd = &cobra.Command{
	Use:   "bars",
	Short: "Draw normalised category shares per state",
	Long: "Draws one horizontal bar per state split into the requested categories, each bar scaled to a total of 1. " +
		"Without --year every year is summed; --regions adds regional and national bars for the configured year.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		f := figure.Figure{
			Name:    "bars",
			Kind:    figure.KindStackedBar,
			Models:  barsModels,
			Output:  barsOutput,
			Regions: barsRegions,
			Title:   barsTitle,
		}
		if cmd.Flags().Changed("year") {
			f.Year = cfg.Wrangle.Year
		}
		return buildOne(ctx, f)
	},
}

func init() {
	barsCmd.Flags().StringSliceVar(&barsModels, "models", []string{"Medicare", "Medicaid", "Private", "OOP"}, "categories to stack, bottom first")
	barsCmd.Flags().StringVar(&barsOutput, "output", "stacked_bar.png", "output file (.png, .svg, .pdf, ...)")
	barsCmd.Flags().BoolVar(&barsRegions, "regions", false, "append regional and national aggregate bars")
	barsCmd.Flags().StringVar(&barsTitle, "title", "", "figure title")
	rootCmd.AddCommand(barsCmd)
}
