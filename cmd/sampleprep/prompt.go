package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// confirmBackup asks the operator to confirm they have a backup before a
// live run mutates anything. Non-interactive stdin refuses outright so
// scripted callers must opt in with --force.
func confirmBackup(cmd *cobra.Command, root string) (bool, error) {
	in := cmd.InOrStdin()
	if file, ok := in.(*os.File); ok && !isInteractive(file) {
		return false, errors.New("stdin is not a terminal; re-run with --force to process without confirmation")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "This will rename and convert files under %s in place.\n", root)
	fmt.Fprint(out, "Originals of converted files are deleted. Have you backed up this directory? [y/N]: ")

	answer, err := readLine(in)
	if err != nil {
		return false, fmt.Errorf("read confirmation: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func isInteractive(file *os.File) bool {
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func readLine(in io.Reader) (string, error) {
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return line, nil
}
