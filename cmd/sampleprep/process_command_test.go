package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestProcessRejectsDryRunWithForce(t *testing.T) {
	stubTools(t)

	_, _, err := runCLI(t, []string{"process", t.TempDir(), "--dry-run", "--force"}, nil)
	if err == nil || !strings.Contains(err.Error(), "cannot be combined") {
		t.Fatalf("expected flag conflict error, got %v", err)
	}
}

func TestProcessFailsWhenToolsMissing(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	_, _, err := runCLI(t, []string{"process", t.TempDir(), "--dry-run"}, nil)
	if err == nil || !strings.Contains(err.Error(), "required tools not found") {
		t.Fatalf("expected missing-tools error, got %v", err)
	}
}

func TestProcessDryRunPrintsPlanAndTouchesNothing(t *testing.T) {
	stubTools(t)

	root := t.TempDir()
	writeTreeFile(t, filepath.Join(root, "Drum Kit", "notes.txt"))

	out, _, err := runCLI(t, []string{"process", root, "--dry-run"}, nil)
	if err != nil {
		t.Fatalf("process --dry-run: %v", err)
	}
	requireContains(t, out, "would rename_dir  Drum Kit")
	requireContains(t, out, "Dry run: no files were modified.")

	if _, err := os.Stat(filepath.Join(root, "Drum Kit", "notes.txt")); err != nil {
		t.Fatalf("dry run modified the tree: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "drum_kit")); !os.IsNotExist(err) {
		t.Fatal("dry run renamed a directory")
	}
}

func TestProcessDeclinedPromptAborts(t *testing.T) {
	stubTools(t)

	root := t.TempDir()
	writeTreeFile(t, filepath.Join(root, "Drum Kit", "notes.txt"))

	out, _, err := runCLI(t, []string{"process", root}, strings.NewReader("n\n"))
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	requireContains(t, out, "Aborted. Nothing was changed.")

	if _, err := os.Stat(filepath.Join(root, "Drum Kit")); err != nil {
		t.Fatalf("declined run still mutated the tree: %v", err)
	}
}

func TestProcessConfirmedPromptRuns(t *testing.T) {
	stubTools(t)

	root := t.TempDir()
	writeTreeFile(t, filepath.Join(root, "Drum Kit", "notes.txt"))

	out, _, err := runCLI(t, []string{"process", root}, strings.NewReader("y\n"))
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	requireContains(t, out, "Directories renamed")

	if _, err := os.Stat(filepath.Join(root, "drum_kit", "notes.txt")); err != nil {
		t.Fatalf("confirmed run should have renamed the directory: %v", err)
	}
}

func TestProcessNonInteractiveRequiresForce(t *testing.T) {
	stubTools(t)

	reader, writer, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	defer reader.Close()
	_ = writer.Close()

	_, _, err = runCLI(t, []string{"process", t.TempDir()}, reader)
	if err == nil || !strings.Contains(err.Error(), "--force") {
		t.Fatalf("expected non-interactive refusal, got %v", err)
	}
}

func TestProcessForceSkipsPrompt(t *testing.T) {
	stubTools(t)

	root := t.TempDir()
	writeTreeFile(t, filepath.Join(root, "Drum Kit", "notes.txt"))

	out, _, err := runCLI(t, []string{"process", root, "--force"}, nil)
	if err != nil {
		t.Fatalf("process --force: %v", err)
	}
	if strings.Contains(out, "backed up") {
		t.Fatal("--force must not prompt")
	}
	if _, err := os.Stat(filepath.Join(root, "drum_kit")); err != nil {
		t.Fatalf("forced run should have renamed the directory: %v", err)
	}
}

func TestPlanCommandIsAlwaysDry(t *testing.T) {
	stubTools(t)

	root := t.TempDir()
	writeTreeFile(t, filepath.Join(root, "Drum Kit", "notes.txt"))

	out, _, err := runCLI(t, []string{"plan", root}, nil)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	requireContains(t, out, "would rename_dir  Drum Kit")

	if _, err := os.Stat(filepath.Join(root, "Drum Kit")); err != nil {
		t.Fatalf("plan modified the tree: %v", err)
	}
}

func TestProcessRejectsMissingRoot(t *testing.T) {
	stubTools(t)

	_, _, err := runCLI(t, []string{"process", filepath.Join(t.TempDir(), "absent"), "--dry-run"}, nil)
	if err == nil || !strings.Contains(err.Error(), "cannot access") {
		t.Fatalf("expected root validation error, got %v", err)
	}
}
