package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement defines an external tool livpconv relies on.
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

// Requirements returns every external tool the pipeline can use, in probe
// order. The two encoders are optional individually; Resolve enforces that
// at least one is present.
func Requirements() []Requirement {
	return []Requirement{
		{Name: "unzip", Command: "unzip", Description: "Extracts .livp bundles (renamed zip archives)"},
		{Name: "file", Command: "file", Description: "Content-type identification for the image fallback rule"},
		{Name: "sips", Command: "sips", Description: "Native macOS image tool (preferred JPEG encoder)", Optional: true},
		{Name: "magick", Command: "magick", Description: "ImageMagick (fallback JPEG encoder)", Optional: true},
		{Name: "convert", Command: "convert", Description: "ImageMagick legacy entrypoint", Optional: true},
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
			status.Available = false
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Available = false
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}
