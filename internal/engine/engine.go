// Package engine implements forward-chaining inference over a plant disease
// knowledge base. Infer is a pure function: it reads the knowledge base,
// never mutates it, performs no I/O and keeps no state between calls, so any
// number of goroutines may call it against the same knowledge base.
package engine

import (
	"fmt"
	"strings"

	"github.com/dshills/plantdx/internal/kb"
	"github.com/dshills/plantdx/internal/schema"
	"github.com/dshills/plantdx/internal/scoring"
)

// Infer evaluates every rule of every disease registered for plant against
// the selected symptom ids and returns the ranked diagnoses, the full
// evaluation list and a numbered explanation trace.
//
// A rule fires when at least one of its conditions is selected. Each
// disease is scored by its best fired rule, (matched / total) × weight; a
// later rule replaces the best only when its score is strictly greater.
// Diseases are ranked by that score with ties kept in evaluation order.
//
// Infer never fails. Unknown symptom or disease ids appear as raw ids in
// the trace.
func Infer(selected []string, plant schema.PlantCategory, base schema.KnowledgeBase) schema.InferenceResult {
	idx := kb.NewIndex(base)
	facts := newWorkingMemory(selected)
	tr := &recorder{}

	tr.add(schema.ActionInitialize, fmt.Sprintf(
		"Starting forward chaining inference with %d selected symptom(s) for plant: %s",
		len(facts.order), plant))
	tr.add(schema.ActionWorkingMemory, fmt.Sprintf(
		"Facts in working memory: [%s]", strings.Join(idx.SymptomNames(facts.order), ", ")))

	relevant := kb.DiseasesFor(base, plant)
	names := make([]string, len(relevant))
	for i, d := range relevant {
		names[i] = d.Name
	}
	tr.add(schema.ActionFilter, fmt.Sprintf(
		"Filtered to %d disease(s) for %s: [%s]", len(relevant), plant, strings.Join(names, ", ")))

	evals := make([]schema.RuleEvaluation, 0, kb.RuleCount(schema.KnowledgeBase{Diseases: relevant}))
	best := make(map[string]schema.DiagnosisResult)
	var firstFired []string

	for _, d := range relevant {
		tr.add(schema.ActionEvaluateDisease, "Evaluating rules for: "+d.Name)

		for _, rule := range d.Rules {
			ev := evaluate(rule, d, facts)
			evals = append(evals, ev)

			head := fmt.Sprintf("Rule %s: IF [%s] THEN %s",
				rule.ID, strings.Join(idx.SymptomNames(rule.Conditions), " AND "), d.Name)
			if !ev.Matched {
				tr.add(schema.ActionRuleSkipped, head+"; no conditions matched")
				continue
			}
			tr.add(schema.ActionRuleFired, fmt.Sprintf("%s; matched %d/%d conditions: [%s] (%.0f%%)",
				head, len(ev.MatchedConditions), ev.TotalConditions,
				strings.Join(idx.SymptomNames(ev.MatchedConditions), ", "), ev.MatchPercentage))

			cur, seen := best[d.ID]
			if !seen {
				firstFired = append(firstFired, d.ID)
			}
			best[d.ID] = accumulate(cur, seen, ev, idx)
		}
	}

	ordered := make([]schema.DiagnosisResult, len(firstFired))
	for i, id := range firstFired {
		ordered[i] = best[id]
	}
	results := scoring.Rank(ordered)

	narrative, action := explain(results)
	tr.add(action, narrative)
	tr.add(schema.ActionComplete, fmt.Sprintf("Inference complete. %d diagnosis result(s) found.", len(results)))

	return schema.InferenceResult{
		Results:            results,
		Trace:              tr.entries,
		AllEvaluations:     evals,
		ConflictResolution: narrative,
	}
}

// workingMemory is the deduplicated set of selected symptom ids.
type workingMemory struct {
	order []string
	set   map[string]bool
}

func newWorkingMemory(selected []string) workingMemory {
	wm := workingMemory{order: []string{}, set: make(map[string]bool, len(selected))}
	for _, id := range selected {
		if wm.set[id] {
			continue
		}
		wm.set[id] = true
		wm.order = append(wm.order, id)
	}
	return wm
}

// evaluate tests rule against the facts. Matched conditions keep the
// rule's order, not the selection order.
func evaluate(rule schema.ProductionRule, d schema.Disease, facts workingMemory) schema.RuleEvaluation {
	matched := []string{}
	for _, c := range rule.Conditions {
		if facts.set[c] {
			matched = append(matched, c)
		}
	}
	return schema.RuleEvaluation{
		Rule:              rule,
		Disease:           d,
		MatchedConditions: matched,
		TotalConditions:   len(rule.Conditions),
		Matched:           len(matched) > 0,
		MatchPercentage:   scoring.MatchPercentage(len(matched), len(rule.Conditions)),
	}
}

// accumulate folds a fired rule into the disease's running result and
// returns the new value. The fired list always grows; the headline fields
// change only on a strictly better score.
func accumulate(cur schema.DiagnosisResult, seen bool, ev schema.RuleEvaluation, idx kb.Index) schema.DiagnosisResult {
	fired := make([]schema.ProductionRule, 0, len(cur.FiredRules)+1)
	fired = append(fired, cur.FiredRules...)
	fired = append(fired, ev.Rule)

	score := scoring.RuleScore(len(ev.MatchedConditions), ev.TotalConditions, ev.Rule.Weight)
	if seen && score <= scoring.Score(cur) {
		cur.FiredRules = fired
		return cur
	}

	symptoms := make([]schema.Symptom, 0, len(ev.MatchedConditions))
	for _, id := range ev.MatchedConditions {
		if s, ok := idx.Symptom(id); ok {
			symptoms = append(symptoms, s)
		}
	}
	return schema.DiagnosisResult{
		Disease:               ev.Disease,
		Confidence:            ev.MatchPercentage,
		MatchedSymptoms:       symptoms,
		TotalRuleConditions:   ev.TotalConditions,
		MatchedRuleConditions: len(ev.MatchedConditions),
		FiredRules:            fired,
		BestRule:              ev.Rule,
		Score:                 score,
	}
}
