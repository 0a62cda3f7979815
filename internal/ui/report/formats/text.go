package formats

import (
	"fmt"
	"io"
	"strings"

	"skiplint/internal/core/ports"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// TextGenerator renders flake8-style lines: path:line:col: CODE message.
type TextGenerator struct {
	path    lipgloss.Style
	pos     lipgloss.Style
	code    lipgloss.Style
	failure lipgloss.Style
	success lipgloss.Style
	muted   lipgloss.Style
}

// NewTextGenerator picks a color profile for w. color is one of auto, always
// or never; auto follows terminal detection on w.
func NewTextGenerator(w io.Writer, color string) *TextGenerator {
	r := lipgloss.NewRenderer(w)
	switch color {
	case "always":
		r.SetColorProfile(termenv.ANSI256)
	case "never":
		r.SetColorProfile(termenv.Ascii)
	}
	return &TextGenerator{
		path:    r.NewStyle().Bold(true),
		pos:     r.NewStyle().Foreground(lipgloss.Color("#64748B")),
		code:    r.NewStyle().Foreground(lipgloss.Color("#F87171")).Bold(true),
		failure: r.NewStyle().Foreground(lipgloss.Color("#FBBF24")),
		success: r.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true),
		muted:   r.NewStyle().Foreground(lipgloss.Color("#64748B")).Italic(true),
	}
}

func (t *TextGenerator) Generate(result ports.LintResult, summary bool) string {
	var buf strings.Builder

	for _, e := range result.Errors {
		loc := t.path.Render(e.Path)
		if e.Line > 0 {
			loc += t.pos.Render(fmt.Sprintf(":%d:%d", e.Line, e.Column))
		}
		buf.WriteString(fmt.Sprintf("%s: %s %s\n", loc, t.failure.Render(e.Code), e.Message))
	}

	for _, f := range result.Findings {
		code, rest, _ := strings.Cut(f.Message, " ")
		buf.WriteString(fmt.Sprintf("%s%s: %s %s\n",
			t.path.Render(f.Path),
			t.pos.Render(fmt.Sprintf(":%d:%d", f.Line(), f.Column())),
			t.code.Render(code),
			rest,
		))
	}

	if !summary {
		return buf.String()
	}
	if !result.Failed() {
		buf.WriteString(t.success.Render(fmt.Sprintf("All clear: %d files checked", result.FilesCount)))
	} else {
		buf.WriteString(t.failure.Render(fmt.Sprintf("Found %d problems, %d file errors in %d files",
			len(result.Findings), len(result.Errors), result.FilesCount)))
	}
	if result.Suppressed > 0 {
		buf.WriteString(t.muted.Render(fmt.Sprintf(" (%d baselined)", result.Suppressed)))
	}
	buf.WriteString("\n")
	return buf.String()
}
