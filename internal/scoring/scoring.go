// Package scoring provides deterministic local logic for rule scores,
// disease ranking and result summaries.
package scoring

import (
	"sort"

	"github.com/dshills/plantdx/internal/schema"
)

// MatchPercentage returns 100 × matched / total. A rule without conditions
// scores 0 rather than dividing by zero.
func MatchPercentage(matched, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(matched) / float64(total) * 100
}

// RuleScore computes the weighted partial-match score of a rule:
// (matched / total) × weight. Zero-condition rules score 0.
func RuleScore(matched, total, weight int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(matched) / float64(total) * float64(weight)
}

// Score returns the weighted score of r's best rule.
func Score(r schema.DiagnosisResult) float64 {
	return RuleScore(r.MatchedRuleConditions, r.TotalRuleConditions, r.BestRule.Weight)
}

// Rank returns a copy of results sorted by Score, highest first. Equal scores
// keep their input order.
func Rank(results []schema.DiagnosisResult) []schema.DiagnosisResult {
	ranked := make([]schema.DiagnosisResult, len(results))
	copy(ranked, results)
	sort.SliceStable(ranked, func(i, j int) bool {
		return Score(ranked[i]) > Score(ranked[j])
	})
	return ranked
}

// Summarize derives headline counts from a finished inference run.
func Summarize(res schema.InferenceResult) schema.Summary {
	s := schema.Summary{
		Diagnoses:      len(res.Results),
		RulesEvaluated: len(res.AllEvaluations),
		RulesFired:     CountFired(res.AllEvaluations),
	}
	if len(res.Results) > 0 {
		top := res.Results[0]
		s.TopDisease = top.Disease.Name
		s.TopScore = Score(top)
		s.TopConfidence = top.Confidence
	}
	return s
}

// CountFired returns how many evaluations matched at least one condition.
func CountFired(evals []schema.RuleEvaluation) int {
	n := 0
	for _, e := range evals {
		if e.Matched {
			n++
		}
	}
	return n
}
