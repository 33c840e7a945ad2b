package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"livpconv/internal/deps"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check availability of required external tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, line := range renderSectionHeader("External tools", colorize) {
				fmt.Fprintln(out, line)
			}

			statuses := deps.CheckBinaries(deps.Requirements())
			for _, status := range statuses {
				kind := statusOK
				message := status.Description
				if !status.Available {
					if status.Optional {
						kind = statusWarn
					} else {
						kind = statusError
					}
					message = status.Detail
				}
				fmt.Fprintln(out, renderStatusLine(status.Name, kind, message, colorize))
			}

			sel, err := deps.Resolve(cfg)
			if err != nil {
				fmt.Fprintln(out, renderStatusLine("pipeline", statusError, err.Error(), colorize))
				return err
			}
			fmt.Fprintln(out, renderStatusLine("encoder", statusOK, sel.EncoderKind+" ("+sel.EncoderPath+")", colorize))
			if sel.Advisory != "" {
				fmt.Fprintln(out, renderStatusLine("advisory", statusWarn, sel.Advisory, colorize))
			}
			return nil
		},
	}
}
