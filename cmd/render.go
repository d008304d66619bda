package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/statespend/internal/figure"
)

var (
	renderManifest    string
	renderOutDir      string
	renderConcurrency int
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Produce every figure of a manifest",
	Long:  "Reads a YAML figure manifest (or the built-in exhibit figures) and renders each entry into the output directory.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if cmd.Flags().Changed("manifest") {
			cfg.Render.Manifest = renderManifest
		}
		if cmd.Flags().Changed("out-dir") {
			cfg.Render.OutDir = renderOutDir
		}
		if cmd.Flags().Changed("concurrency") {
			cfg.Render.Concurrency = renderConcurrency
		}

		m := figure.DefaultManifest()
		if cfg.Render.Manifest != "" {
			var err error
			if m, err = figure.LoadManifest(cfg.Render.Manifest); err != nil {
				return err
			}
		}

		b, err := newBuilder(ctx, cfg.Render.OutDir, figure.NeedsShapes(m))
		if err != nil {
			return err
		}
		if err := b.BuildAll(ctx, m, cfg.Render.Concurrency); err != nil {
			return err
		}

		zap.L().Info("render complete",
			zap.Int("figures", len(m.Figures)),
			zap.String("out_dir", cfg.Render.OutDir),
		)
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVar(&renderManifest, "manifest", "", "figure manifest YAML (default: built-in figures)")
	renderCmd.Flags().StringVar(&renderOutDir, "out-dir", ".", "directory for relative figure outputs")
	renderCmd.Flags().IntVar(&renderConcurrency, "concurrency", 1, "figures rendered at once")
	rootCmd.AddCommand(renderCmd)
}
