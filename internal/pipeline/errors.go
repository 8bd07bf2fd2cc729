package pipeline

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUsage marks bad caller input: the run aborts before any mutation.
	ErrUsage = errors.New("usage error")
	// ErrToolMissing marks total external tool unavailability: fatal.
	ErrToolMissing = errors.New("external tool unavailable")
	// ErrLocked marks a root already being processed by another run.
	ErrLocked = errors.New("root is locked")
	// ErrProbe marks a per-file inspection failure: non-fatal.
	ErrProbe = errors.New("probe error")
	// ErrConversion marks a per-file transcode failure: non-fatal.
	ErrConversion = errors.New("conversion error")
	// ErrNameCollision marks a canonical name clashing with a sibling.
	ErrNameCollision = errors.New("name collision")
	// ErrLogWrite marks run-log persistence trouble: surfaced, never fatal.
	ErrLogWrite = errors.New("log write error")
)

// Wrap builds an error message that includes phase context while tagging it
// with the provided marker for classification. The marker should be one of
// the exported sentinel errors above.
func Wrap(marker error, phase, operation, message string, err error) error {
	detail := buildDetail(phase, operation, message)
	if marker == nil {
		marker = ErrUsage
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(phase, operation, message string) string {
	parts := make([]string, 0, 3)
	if phase = strings.TrimSpace(phase); phase != "" {
		parts = append(parts, phase)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "pipeline failure"
	}
	return strings.Join(parts, ": ")
}
