package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/mesh-intelligence/slcmake/pkg/types"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	faintStyle   = lipgloss.NewStyle().Faint(true)
	failedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printFiles(w io.Writer, files []types.ExportedFile) {
	for _, f := range files {
		fmt.Fprintf(w, "  %s  %d bytes  %s\n", f.Name, f.Size, faintStyle.Render("sha256:"+f.SHA256))
	}
}

func renderState(s types.State) string {
	if s == types.StateFailed {
		return failedStyle.Render(string(s))
	}
	return string(s)
}
