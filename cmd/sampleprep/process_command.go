package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"sampleprep/internal/deps"
	"sampleprep/internal/pipeline"
	"sampleprep/internal/plan"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool
	var force bool

	cmd := &cobra.Command{
		Use:   "process <root>",
		Short: "Rename and convert every sample under a directory",
		Long: "Process walks the given directory, renames directories and files to " +
			"lowercase underscore form, and converts every recognized audio file to " +
			"the configured WAV target. Mutations are in place; originals of " +
			"converted files are deleted.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dryRun && force {
				return errors.New("--dry-run and --force cannot be combined: a dry run never asks for confirmation")
			}
			return runProcess(cmd, ctx, args[0], dryRun, force)
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Report every planned action without touching the filesystem")
	cmd.Flags().BoolVar(&force, "force", false, "Skip the backup confirmation prompt")
	return cmd
}

func runProcess(cmd *cobra.Command, cmdCtx *commandContext, root string, dryRun, force bool) error {
	cfg, err := cmdCtx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := cmdCtx.buildLogger(cfg)
	if err != nil {
		return err
	}

	statuses := deps.CheckBinaries(deps.Requirements(cfg.Tools.FFprobeBinary, cfg.Tools.FFmpegBinary))
	if missing := deps.Missing(statuses); len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for _, s := range missing {
			names = append(names, s.Command)
		}
		return fmt.Errorf("required tools not found on PATH: %s", strings.Join(names, ", "))
	}

	out := cmd.OutOrStdout()
	if !dryRun && !force {
		confirmed, err := confirmBackup(cmd, root)
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Fprintln(out, "Aborted. Nothing was changed.")
			return nil
		}
	}

	runner, err := pipeline.NewRunner(pipeline.Options{
		Root:        root,
		DryRun:      dryRun,
		Target:      cfg.TargetSpec(),
		LogFileName: cfg.Output.LogFileName,
		RunID:       uuid.NewString(),
		Prober:      cmdCtx.newProber(cfg),
		Transcoder:  cmdCtx.newTranscoder(cfg),
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	signalCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	target := cfg.TargetSpec()
	fmt.Fprintf(out, "Processing %s -> %dHz/%d-bit wav\n", root, target.SampleRate, target.BitDepth)

	started := time.Now()
	result, runErr := runner.Run(signalCtx)

	if dryRun {
		for _, rec := range result.Records {
			fmt.Fprintln(out, rec.Line())
		}
		if len(result.Records) > 0 {
			fmt.Fprintln(out)
		}
	}

	printSummary(cmd, result.Summary, result.LogPath, dryRun, time.Since(started))

	if result.LogErr != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", result.LogErr)
	}
	if runErr != nil {
		return runErr
	}
	if result.Summary.Errors > 0 {
		fmt.Fprintf(out, "%d entries could not be processed; see %s for details.\n", result.Summary.Errors, result.LogPath)
	}
	return nil
}

func printSummary(cmd *cobra.Command, s plan.Summary, logPath string, dryRun bool, elapsed time.Duration) {
	rows := [][]string{
		{"Directories renamed", strconv.Itoa(s.RenamedDirs)},
		{"Files renamed", strconv.Itoa(s.RenamedFiles)},
		{"Files converted", strconv.Itoa(s.Converted)},
		{"Skipped", strconv.Itoa(s.Skipped)},
		{"Errors", strconv.Itoa(s.Errors)},
	}

	out := cmd.OutOrStdout()
	if dryRun {
		fmt.Fprintln(out, "Dry run: no files were modified.")
	}
	fmt.Fprintln(out, renderTable([]string{"Action", "Count"}, rows, []columnAlignment{alignLeft, alignRight}))
	fmt.Fprintf(out, "Processed %d entries in %s. Run log: %s\n", s.Total(), formatDuration(elapsed), logPath)
}
