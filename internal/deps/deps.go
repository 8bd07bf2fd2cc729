// Package deps reports the availability of the external tools the pipeline
// shells out to. Both ffprobe and ffmpeg are hard requirements: a run never
// mutates anything when either is missing.
package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement defines an external binary the tool relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Available   bool
	Detail      string
}

// Requirements returns the external tools needed for a processing run,
// using the configured binary names.
func Requirements(ffprobeBinary, ffmpegBinary string) []Requirement {
	return []Requirement{
		{Name: "ffprobe", Command: ffprobeBinary, Description: "Inspects sample rate, bit depth, and container"},
		{Name: "ffmpeg", Command: ffmpegBinary, Description: "Converts samples to the target WAV format"},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		resolved, err := exec.LookPath(cmd)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Command = resolved
		status.Available = true
		results = append(results, status)
	}
	return results
}

// Missing filters statuses down to unavailable tools.
func Missing(statuses []Status) []Status {
	var missing []Status
	for _, status := range statuses {
		if !status.Available {
			missing = append(missing, status)
		}
	}
	return missing
}
