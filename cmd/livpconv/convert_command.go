package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"livpconv/internal/deps"
	"livpconv/internal/history"
	"livpconv/internal/logging"
	"livpconv/internal/staging"
	"livpconv/internal/workflow"
)

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var outputFlag string
	var qualityFlag int
	var backendFlag string
	var retriesFlag int

	cmd := &cobra.Command{
		Use:   "convert [input_dir] [output_dir]",
		Short: "Convert .livp bundles to JPEG",
		Long: `Convert Apple Live Photo bundles to JPEG.

With no arguments, .livp files directly inside the current working directory
are converted into ./Converted_JPGs. With an input directory the whole tree
beneath it is walked. Existing outputs are skipped, so reruns only process
new files.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if qualityFlag > 0 {
				cfg.Conversion.JPEGQuality = qualityFlag
			}
			if strings.TrimSpace(backendFlag) != "" {
				cfg.Conversion.Backend = strings.TrimSpace(backendFlag)
			}
			if retriesFlag > 0 {
				cfg.Conversion.MaxRetries = retriesFlag
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("build logger: %w", err)
			}
			staging.InstallExitGuard(logger)

			sel, err := deps.Resolve(cfg)
			if err != nil {
				return err
			}
			if sel.Advisory != "" {
				logger.Warn(sel.Advisory)
			}

			request := workflow.Request{
				OutputDir: cfg.Paths.OutputDir,
			}
			if len(args) >= 1 {
				request.InputDir = args[0]
				request.Recursive = true
			} else {
				cwd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("determine working directory: %w", err)
				}
				request.InputDir = cwd
			}
			if len(args) == 2 {
				request.OutputDir = args[1]
			}
			if strings.TrimSpace(outputFlag) != "" {
				request.OutputDir = outputFlag
			}

			conv, err := workflow.BuildConverter(cfg, sel, logger)
			if err != nil {
				return err
			}

			opts := []workflow.Option{}
			if cfg.History.Enabled {
				store, err := history.Open(cfg.History.Path)
				if err != nil {
					logger.Warn("history disabled for this run", logging.Error(err))
				} else {
					defer func() { _ = store.Close() }()
					opts = append(opts, workflow.WithRecorder(store))
				}
			}

			runner, err := workflow.NewRunner(cfg, conv, logger, opts...)
			if err != nil {
				return err
			}

			summary, err := runner.Run(cmd.Context(), request)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if summary.Found == 0 {
				fmt.Fprintf(out, "No .livp files found in %s\n", request.InputDir)
				return nil
			}
			fmt.Fprintf(out, "%d of %d archives succeeded (%d converted, %d skipped, %d failed)\n",
				summary.Succeeded(), summary.Found, summary.Converted, summary.Skipped, summary.Failed)
			fmt.Fprintf(out, "Output directory: %s\n", summary.OutputDir)

			if summary.Failed > 0 {
				return fmt.Errorf("%d of %d conversions failed", summary.Failed, summary.Found)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Destination directory for JPEG files")
	cmd.Flags().IntVar(&qualityFlag, "quality", 0, "JPEG quality (1-100, overrides config)")
	cmd.Flags().StringVar(&backendFlag, "backend", "", "Encoder backend: auto, sips, or magick")
	cmd.Flags().IntVar(&retriesFlag, "retries", 0, "Attempts per file (overrides config)")
	return cmd
}
