// Package deps verifies the external tools a generation run depends on.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"voiceforge/internal/config"
)

// Requirement defines an external dependency voiceforge relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Requirements derives the external-tool checklist from configuration. The
// separator is optional since separation only runs when requested.
func Requirements(cfg *config.Config) []Requirement {
	return []Requirement{
		{
			Name:        "ASR",
			Command:     cfg.ASR.Command,
			Description: "transcribes the reference audio",
		},
		{
			Name:        "Separator",
			Command:     cfg.Separator.Command,
			Description: "strips background music from the reference audio",
			Optional:    true,
		},
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
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}
