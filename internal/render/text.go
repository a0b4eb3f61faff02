package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dshills/plantdx/internal/schema"
	"github.com/dshills/plantdx/internal/scoring"
)

// palette holds the terminal styles used by RenderText. A zero palette
// renders plain text.
type palette struct {
	header  lipgloss.Style
	winner  lipgloss.Style
	dim     lipgloss.Style
	fired   lipgloss.Style
	skipped lipgloss.Style
	enabled bool
}

func newPalette(color bool) palette {
	if !color {
		return palette{}
	}
	return palette{
		header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		winner:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		fired:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		skipped: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		enabled: true,
	}
}

func (p palette) apply(s lipgloss.Style, text string) string {
	if !p.enabled {
		return text
	}
	return s.Render(text)
}

// RenderText produces a compact human-readable report for terminals. With
// color false the output contains no escape sequences.
func RenderText(report *schema.Report, names Namer, color bool) string {
	if report == nil {
		return ""
	}
	p := newPalette(color)
	res := report.Result
	var sb strings.Builder

	sb.WriteString(p.apply(p.header, fmt.Sprintf("PlantDx diagnosis for %s", title(string(report.Input.Plant)))))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Symptoms: %s\n", joinNames(names, report.Input.Symptoms))
	sb.WriteString(p.apply(p.dim, fmt.Sprintf("%d rule(s) evaluated, %d fired, %d diagnosis result(s)",
		report.Summary.RulesEvaluated, report.Summary.RulesFired, report.Summary.Diagnoses)))
	sb.WriteString("\n\n")

	for i, r := range res.Results {
		line := fmt.Sprintf("%d. %s  score %.1f  confidence %.0f%%  (best rule %s)",
			i+1, r.Disease.Name, scoring.Score(r), r.Confidence, r.BestRule.ID)
		if i == 0 {
			line = p.apply(p.winner, line)
		}
		sb.WriteString(line)
		sb.WriteString("\n")
		if r.Disease.Treatment != "" {
			fmt.Fprintf(&sb, "   Treatment: %s\n", r.Disease.Treatment)
		}
	}
	if len(res.Results) > 0 {
		sb.WriteString("\n")
	}

	sb.WriteString(res.ConflictResolution)
	sb.WriteString("\n\n")

	sb.WriteString(p.apply(p.header, "Explanation trace"))
	sb.WriteString("\n")
	for _, e := range res.Trace {
		action := fmt.Sprintf("%-19s", e.Action)
		switch e.Action {
		case schema.ActionRuleFired:
			action = p.apply(p.fired, action)
		case schema.ActionRuleSkipped:
			action = p.apply(p.skipped, action)
		}
		fmt.Fprintf(&sb, "%3d  %s  %s\n", e.Step, action, e.Detail)
	}
	return sb.String()
}
