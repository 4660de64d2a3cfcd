package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dshills/texcore/internal/app"
)

var (
	// titleStyle for bold headers
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63"))

	// dimStyle for muted metadata text
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	// successStyle for success indicators
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	// errorStyle for error indicators
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	// boxStyle for summaries
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
)

// printRunError prints err unless the interaction handler already did.
func printRunError(w io.Writer, rt *app.Runtime, err error) {
	if rt.Reported(err) {
		return
	}
	fmt.Fprintln(w, errorStyle.Render("! "+rt.Message(err)))
}

// printSummary prints the typeset material and, when collected, the
// dispatch metrics of a run.
func printSummary(w io.Writer, rt *app.Runtime) {
	var lines []string
	if material := rt.Typeset(); material != "" {
		lines = append(lines, titleStyle.Render("typeset"), material)
	}
	if m := rt.Dispatcher().Metrics(); m != nil {
		lines = append(lines,
			titleStyle.Render("metrics"),
			fmt.Sprintf("%d dispatches, %d errors, %d panics, avg %s",
				m.TotalDispatches(), m.TotalErrors(), m.TotalPanics(), m.AverageDuration()))
		for _, p := range m.TopPrimitives(5) {
			lines = append(lines, dimStyle.Render(fmt.Sprintf(`  \%s x%d`, p.Name, p.DispatchCount)))
		}
	}
	if len(lines) == 0 {
		return
	}
	fmt.Fprintln(w, boxStyle.Render(strings.Join(lines, "\n")))
}
