package engine

import (
	"fmt"
	"strings"

	"github.com/dshills/plantdx/internal/schema"
	"github.com/dshills/plantdx/internal/scoring"
)

// recorder numbers trace entries for a single run, starting at 1.
type recorder struct {
	step    int
	entries []schema.TraceEntry
}

func (r *recorder) add(action schema.TraceAction, detail string) {
	r.step++
	r.entries = append(r.entries, schema.TraceEntry{Step: r.step, Action: action, Detail: detail})
}

// NoMatchNarrative is the conflict-resolution text when no disease matched.
const NoMatchNarrative = "No diseases matched the selected symptoms. Try selecting more symptoms or different combinations."

// explain builds the conflict-resolution narrative for ranked results and
// the trace action it is recorded under.
func explain(results []schema.DiagnosisResult) (string, schema.TraceAction) {
	switch len(results) {
	case 0:
		return NoMatchNarrative, schema.ActionNoMatch
	case 1:
		return fmt.Sprintf("Only one disease matched: %q. No conflict resolution needed.", results[0].Disease.Name),
			schema.ActionResolution
	}

	top := results[0]
	others := make([]string, 0, len(results)-1)
	for _, r := range results[1:] {
		others = append(others, fmt.Sprintf("%s (score: %.1f)", r.Disease.Name, scoring.Score(r)))
	}
	return fmt.Sprintf(
		"Multiple diseases matched. Conflict resolution applied: Selected %q because its best-matching rule (%s) "+
			"had the highest weighted score (%d/%d conditions × weight %d = %.1f). Other candidates: %s.",
		top.Disease.Name, top.BestRule.ID,
		top.MatchedRuleConditions, top.TotalRuleConditions, top.BestRule.Weight, scoring.Score(top),
		strings.Join(others, ", ")), schema.ActionConflictResolution
}
