// Package summary describes a pipeline document in Markdown and renders
// that description for the terminal.
package summary

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/matzehuels/pipecanvas/pkg/document"
)

// Markdown describes doc stage by stage, followed by the warnings of rep
// (which may be nil).
func Markdown(doc *document.Document, rep *document.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Pipeline\n\n%d stages, %d jobs\n", len(doc.Stages), doc.Jobs.Len())

	for i, stage := range doc.Stages {
		fmt.Fprintf(&b, "\n## %d. %s\n\n", i+1, stage)
		names := doc.JobsInStage(stage)
		if len(names) == 0 {
			b.WriteString("_no jobs_\n")
			continue
		}
		b.WriteString("| job | image | when | needs |\n|---|---|---|---|\n")
		for _, name := range names {
			job, _ := doc.Jobs.Get(name)
			fmt.Fprintf(&b, "| `%s` | %s | %s | %s |\n",
				name, cell(job.Image), cell(job.When), cell(strings.Join(job.Needs, ", ")))
		}
	}

	if rep.HasWarnings() {
		b.WriteString("\n## Warnings\n\n")
		for _, w := range rep.Warnings {
			fmt.Fprintf(&b, "- **%s**: %s\n", w.Kind, w.Message)
		}
	}
	return b.String()
}

func cell(s string) string {
	if s == "" {
		return "-"
	}
	return strings.ReplaceAll(s, "|", `\|`)
}

// Terminal renders Markdown with styles matching the terminal background.
func Terminal(md string, width int) (string, error) {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("create renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}
