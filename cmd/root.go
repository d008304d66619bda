package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/statespend/internal/config"
)

var cfg *config.Config

var (
	flagData       string
	flagStateIDs   string
	flagBoundaries string
	flagYear       int
	flagField      string
)

var rootCmd = &cobra.Command{
	Use:   "statespend",
	Short: "State health spending maps and charts",
	Long:  "Reshapes per-state health spending estimates into wide tables, population-weighted regional and national aggregates, choropleth maps and stacked bar charts.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		applyFlags(cmd, c)
		if err := c.Validate(); err != nil {
			return err
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		zap.ReplaceGlobals(zap.L().With(zap.String("run_id", uuid.NewString())))

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// applyFlags lets explicitly set global flags win over file and env config.
func applyFlags(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("data") {
		c.Data.Observations = flagData
	}
	if flags.Changed("state-ids") {
		c.Data.StateIDs = flagStateIDs
	}
	if flags.Changed("boundaries") {
		c.Data.Boundaries = flagBoundaries
	}
	if flags.Changed("year") {
		c.Wrangle.Year = flagYear
	}
	if flags.Changed("field") {
		c.Wrangle.Field = flagField
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagData, "data", "", "observations file, .csv or .xlsx (default from config)")
	pf.StringVar(&flagStateIDs, "state-ids", "", "state id CSV with STATE_NAME and STATE columns; empty = built-in FIPS table")
	pf.StringVar(&flagBoundaries, "boundaries", "", "state boundary shapefile (default from config)")
	pf.IntVar(&flagYear, "year", 0, "year to report (default from config)")
	pf.StringVar(&flagField, "field", "", "value column: mean or pc (default from config)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
