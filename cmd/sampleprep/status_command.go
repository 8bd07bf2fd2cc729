package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"sampleprep/internal/config"
	"sampleprep/internal/deps"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show configuration and external tool availability",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			var path string
			if ctx.configFlag != nil {
				path = strings.TrimSpace(*ctx.configFlag)
			}
			_, resolved, exists, err := config.Load(path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config file:  %s", resolved)
			if !exists {
				fmt.Fprint(out, " (not present, defaults in effect)")
			}
			fmt.Fprintln(out)
			target := cfg.TargetSpec()
			fmt.Fprintf(out, "Target:       %dHz/%d-bit wav (force stereo: %s)\n",
				target.SampleRate, target.BitDepth, yesNo(target.ForceStereo))
			fmt.Fprintf(out, "Run log name: %s\n\n", cfg.Output.LogFileName)

			statuses := deps.CheckBinaries(deps.Requirements(cfg.Tools.FFprobeBinary, cfg.Tools.FFmpegBinary))
			rows := make([][]string, 0, len(statuses))
			for _, s := range statuses {
				rows = append(rows, []string{s.Name, yesNo(s.Available), s.Detail})
			}
			fmt.Fprintln(out, renderTable([]string{"Tool", "Available", "Detail"}, rows, nil))

			if missing := deps.Missing(statuses); len(missing) > 0 {
				return fmt.Errorf("%d required tool(s) unavailable", len(missing))
			}
			return nil
		},
	}
}
