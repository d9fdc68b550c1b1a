package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dgallion1/docoutline/internal/pdfmeta"
	"github.com/dgallion1/docoutline/internal/pipeline"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("33"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("33")).
			Padding(0, 1)
)

// FormatFileResult renders one line per processed file.
func FormatFileResult(w io.Writer, r pipeline.FileResult) {
	var mark string
	switch {
	case r.Status == pipeline.StatusFailed:
		mark = errorStyle.Render("✗")
	case len(r.Errors) > 0:
		mark = warnStyle.Render("!")
	default:
		mark = successStyle.Render("✓")
	}

	name := filepath.Base(r.Input)
	if r.Output != "" {
		name += " " + dimStyle.Render("->") + " " + filepath.Base(r.Output)
	}
	line := fmt.Sprintf("%s %s  %q %s",
		mark,
		name,
		r.Title,
		dimStyle.Render(fmt.Sprintf("(%d headings, %dms)", r.Headings, r.DurationMs)),
	)
	fmt.Fprintln(w, line)
	for _, e := range r.Errors {
		fmt.Fprintf(w, "    %s\n", dimStyle.Render(e))
	}
}

// FormatProcessed renders a watched file's completion.
func FormatProcessed(w io.Writer, snap pipeline.JobSnapshot) {
	FormatFileResult(w, pipeline.FileResult{
		Input:      snap.Filename,
		Status:     snap.Status,
		Title:      snap.Title,
		Headings:   snap.Headings,
		DurationMs: snap.DurationMs,
		Errors:     snap.Errors,
	})
}

// FormatSummary renders the per-file lines followed by the batch summary box.
func FormatSummary(w io.Writer, s *pipeline.Summary) {
	for _, r := range s.Results {
		FormatFileResult(w, r)
	}

	status := successStyle.Render("OK")
	if s.Failed > 0 {
		status = errorStyle.Render("FAILED")
	}

	line1 := fmt.Sprintf("%s %s  %s %s",
		dimStyle.Render("Input:"), s.Dirs.Input,
		dimStyle.Render("Output:"), s.Dirs.Output,
	)
	line2 := fmt.Sprintf("%s %d  %s %d  %s %d  %s %d  %s",
		dimStyle.Render("Files:"), s.Files,
		dimStyle.Render("Headings:"), s.Headings,
		dimStyle.Render("Degraded:"), s.Degraded,
		dimStyle.Render("Failed:"), s.Failed,
		status,
	)
	line3 := fmt.Sprintf("%s %.2fs  %s %.0fms  %s %.0fms",
		dimStyle.Render("Elapsed:"), s.Elapsed.Seconds(),
		dimStyle.Render("p50:"), s.Stats.P50Ms,
		dimStyle.Render("p95:"), s.Stats.P95Ms,
	)

	content := titleStyle.Render("Batch Complete") + "\n" + line1 + "\n" + line2 + "\n" + line3
	fmt.Fprintln(w, boxStyle.Render(content))
}

// FormatMeta renders the Info dictionary of a PDF.
func FormatMeta(w io.Writer, path string, info *pdfmeta.Info) {
	lines := []string{
		titleStyle.Render(filepath.Base(path)),
		fmt.Sprintf("%s %d", dimStyle.Render("Pages:"), info.Pages),
	}
	for _, kv := range [][2]string{
		{"Title:", info.Title},
		{"Author:", info.Author},
		{"Subject:", info.Subject},
		{"Creator:", info.Creator},
		{"Producer:", info.Producer},
	} {
		if kv[1] != "" {
			lines = append(lines, fmt.Sprintf("%s %s", dimStyle.Render(kv[0]), kv[1]))
		}
	}
	fmt.Fprintln(w, boxStyle.Render(strings.Join(lines, "\n")))
}

// FormatValidation renders one line per checked sidecar.
func FormatValidation(w io.Writer, path string, err error) {
	if err != nil {
		fmt.Fprintf(w, "%s %s %s\n", errorStyle.Render("✗"), path, dimStyle.Render(err.Error()))
		return
	}
	fmt.Fprintf(w, "%s %s\n", successStyle.Render("✓"), path)
}
