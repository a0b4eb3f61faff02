// Package render produces output from a fully assembled schema.Report or
// schema.BatchReport.
package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dshills/plantdx/internal/schema"
	"github.com/dshills/plantdx/internal/scoring"
)

// Namer resolves ids to display names, falling back to the id itself.
// kb.Index satisfies it.
type Namer interface {
	SymptomName(id string) string
	DiseaseName(id string) string
}

// RenderJSON produces a pretty-printed JSON representation of the report.
// The output round-trips through json.Unmarshal back to an equal Report.
func RenderJSON(report *schema.Report) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("render: nil report")
	}
	return marshal(report)
}

// RenderBatchJSON produces a pretty-printed JSON representation of a batch run.
func RenderBatchJSON(report *schema.BatchReport) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("render: nil batch report")
	}
	return marshal(report)
}

func marshal(v any) ([]byte, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("render: json marshal: %w", err)
	}
	return b, nil
}

// RenderMarkdown produces a GitHub-flavoured Markdown report: ranked
// diagnoses, per-disease details, the conflict-resolution narrative and the
// numbered explanation trace.
func RenderMarkdown(report *schema.Report, names Namer) string {
	if report == nil {
		return ""
	}
	var sb strings.Builder
	res := report.Result

	sb.WriteString("## PlantDx Diagnosis\n\n")
	fmt.Fprintf(&sb, "**Plant:** %s  \n", title(string(report.Input.Plant)))
	fmt.Fprintf(&sb, "**Symptoms:** %s  \n", mdEscape(joinNames(names, report.Input.Symptoms)))
	fmt.Fprintf(&sb, "**Diagnoses:** %d | **Rules fired:** %d/%d\n\n",
		report.Summary.Diagnoses, report.Summary.RulesFired, report.Summary.RulesEvaluated)

	if len(res.Results) > 0 {
		sb.WriteString("## Diagnoses\n\n")
		sb.WriteString("| # | Disease | Score | Confidence | Best rule | Fired rules |\n")
		sb.WriteString("|---|---|---|---|---|---|\n")
		for i, r := range res.Results {
			fmt.Fprintf(&sb, "| %d | %s | %.1f | %.0f%% | %s | %s |\n",
				i+1, mdEscape(r.Disease.Name), scoring.Score(r), r.Confidence, r.BestRule.ID, ruleIDs(r.FiredRules))
		}
		sb.WriteString("\n")

		for i, r := range res.Results {
			fmt.Fprintf(&sb, "### %d. %s\n\n", i+1, r.Disease.Name)
			if r.Disease.Description != "" {
				fmt.Fprintf(&sb, "%s\n\n", r.Disease.Description)
			}
			fmt.Fprintf(&sb, "**Best rule:** %s: IF %s (%d/%d conditions × weight %d = %.1f)\n\n",
				r.BestRule.ID, mdEscape(joinConditions(names, r.BestRule.Conditions)),
				r.MatchedRuleConditions, r.TotalRuleConditions, r.BestRule.Weight, scoring.Score(r))
			if len(r.MatchedSymptoms) > 0 {
				sb.WriteString("**Matched symptoms:**\n\n")
				for _, s := range r.MatchedSymptoms {
					fmt.Fprintf(&sb, "- %s (%s)\n", s.Name, s.Category)
				}
				sb.WriteString("\n")
			}
			if r.Disease.Treatment != "" {
				fmt.Fprintf(&sb, "**Treatment:** %s\n\n", r.Disease.Treatment)
			}
		}
	}

	sb.WriteString("## Conflict Resolution\n\n")
	fmt.Fprintf(&sb, "%s\n\n", res.ConflictResolution)

	if len(res.Trace) > 0 {
		sb.WriteString("## Explanation Trace\n\n")
		sb.WriteString("| Step | Action | Detail |\n")
		sb.WriteString("|---|---|---|\n")
		for _, e := range res.Trace {
			fmt.Fprintf(&sb, "| %d | %s | %s |\n", e.Step, e.Action, mdEscape(e.Detail))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// RenderBatchMarkdown summarises a batch run as one table row per case.
func RenderBatchMarkdown(report *schema.BatchReport) string {
	if report == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("## PlantDx Batch Diagnosis\n\n")
	fmt.Fprintf(&sb, "**Cases:** %d | **Knowledge base:** %s\n\n", len(report.Cases), report.KnowledgeBase)
	if len(report.Cases) == 0 {
		return sb.String()
	}
	sb.WriteString("| Case | Plant | Symptoms | Top disease | Score | Confidence | Diagnoses |\n")
	sb.WriteString("|---|---|---|---|---|---|---|\n")
	for _, c := range report.Cases {
		top := c.Summary.TopDisease
		if top == "" {
			top = "(no match)"
		}
		fmt.Fprintf(&sb, "| %s | %s | %d | %s | %.1f | %.0f%% | %d |\n",
			mdEscape(c.Case.ID), title(string(c.Case.Plant)), len(c.Case.Symptoms),
			mdEscape(top), c.Summary.TopScore, c.Summary.TopConfidence, c.Summary.Diagnoses)
	}
	sb.WriteString("\n")
	return sb.String()
}

func joinNames(names Namer, ids []string) string {
	if len(ids) == 0 {
		return "(none)"
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = names.SymptomName(id)
	}
	return strings.Join(out, ", ")
}

func joinConditions(names Namer, ids []string) string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = names.SymptomName(id)
	}
	return "[" + strings.Join(out, " AND ") + "]"
}

func ruleIDs(rules []schema.ProductionRule) string {
	out := make([]string, len(rules))
	for i, r := range rules {
		out[i] = r.ID
	}
	return strings.Join(out, ", ")
}

// title capitalises enum values such as "tomato" for display.
func title(s string) string {
	return cases.Title(language.English).String(s)
}

// mdEscape replaces characters that would break Markdown table cells.
func mdEscape(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", "")
	return s
}
