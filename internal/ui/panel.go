package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/tasks/internal/model"
)

// TaskLines renders tasks in server order, one row each: bullet, text,
// the optional parenthesised timestamp, and the id the delete control
// (`tasks rm <id>`) takes.
func TaskLines(tasks model.TaskCollection) []string {
	t := Current()
	if len(tasks) == 0 {
		return []string{C(t.Muted, "No tasks yet.")}
	}
	lines := make([]string, 0, len(tasks))
	for _, tk := range tasks {
		ln := C(t.Accent, t.Bullet) + " " + tk.Task
		if tk.HasTimestamp() {
			ln += " " + C(t.Muted, tk.Suffix())
		}
		ln += "  " + C(t.Error, fmt.Sprintf("[%s %d]", t.DeleteGlyph(), tk.ID))
		lines = append(lines, ln)
	}
	return lines
}

// Panel draws a framed box using the current theme.
func Panel(title string, lines []string) {
	t := Current()
	all := lines
	if title != "" {
		all = append([]string{C(t.Title, title)}, lines...)
	}
	// compute visible width
	maxw := 0
	for _, ln := range all {
		if w := lipgloss.Width(ln); w > maxw {
			maxw = w
		}
	}
	pad := func(s string) string {
		if vis := lipgloss.Width(s); vis < maxw {
			s += strings.Repeat(" ", maxw-vis)
		}
		return s
	}
	fmt.Fprintln(stdout, t.CornerTL+strings.Repeat(t.H, maxw+2)+t.CornerTR)
	for i, ln := range all {
		fmt.Fprintln(stdout, t.V+" "+pad(ln)+" "+t.V)
		if title != "" && i == 0 {
			fmt.Fprintln(stdout, t.V+strings.Repeat(t.H, maxw+2)+t.V)
		}
	}
	fmt.Fprintln(stdout, t.CornerBL+strings.Repeat(t.H, maxw+2)+t.CornerBR)
}
