package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"sampleprep/internal/media/audio"
	"sampleprep/internal/naming"
)

func newProbeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "probe <file>",
		Short: "Inspect one audio file and report the action process would take",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			path := args[0]
			name := filepath.Base(path)
			out := cmd.OutOrStdout()

			if !audio.RecognizedExtension(filepath.Ext(name)) {
				fmt.Fprintf(out, "%s: not a recognized audio extension; process would skip it\n", name)
				return nil
			}

			prober := ctx.newProber(cfg)
			format, err := prober.Probe(cmd.Context(), path)
			if err != nil {
				return fmt.Errorf("probe %s: %w", path, err)
			}
			target := cfg.TargetSpec()
			fmt.Fprintf(out, "File:    %s\n", path)
			fmt.Fprintf(out, "Format:  %s\n", format)
			fmt.Fprintf(out, "Target:  %dHz/%d-bit wav\n", target.SampleRate, target.BitDepth)

			switch {
			case format.Matches(target) && naming.IsCanonical(name):
				fmt.Fprintln(out, "Action:  none, already canonical")
			case format.Matches(target):
				fmt.Fprintf(out, "Action:  rename to %s\n", naming.Normalize(name))
			default:
				fmt.Fprintf(out, "Action:  convert to %s.wav\n", naming.NormalizeStem(name))
			}
			return nil
		},
	}
}
