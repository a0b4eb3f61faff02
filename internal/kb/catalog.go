package kb

import "github.com/dshills/plantdx/internal/schema"

// CategoryGroup is a run of symptoms sharing one category.
type CategoryGroup struct {
	Category schema.SymptomCategory `json:"category"`
	Symptoms []schema.Symptom       `json:"symptoms"`
}

// SymptomsFor returns the symptoms observable on plant, in knowledge-base order.
func SymptomsFor(kb schema.KnowledgeBase, plant schema.PlantCategory) []schema.Symptom {
	var out []schema.Symptom
	for _, s := range kb.Symptoms {
		if s.AppliesTo(plant) {
			out = append(out, s)
		}
	}
	return out
}

// GroupByCategory buckets symptoms by category in the fixed order leaf, stem,
// fruit, general. Categories outside that set follow in first-seen order.
// Empty groups are omitted.
func GroupByCategory(symptoms []schema.Symptom) []CategoryGroup {
	buckets := make(map[schema.SymptomCategory][]schema.Symptom)
	var extra []schema.SymptomCategory
	known := make(map[schema.SymptomCategory]bool, len(schema.SymptomCategories))
	for _, c := range schema.SymptomCategories {
		known[c] = true
	}
	for _, s := range symptoms {
		if _, seen := buckets[s.Category]; !seen && !known[s.Category] {
			extra = append(extra, s.Category)
		}
		buckets[s.Category] = append(buckets[s.Category], s)
	}

	var groups []CategoryGroup
	for _, c := range append(append([]schema.SymptomCategory(nil), schema.SymptomCategories...), extra...) {
		if len(buckets[c]) == 0 {
			continue
		}
		groups = append(groups, CategoryGroup{Category: c, Symptoms: buckets[c]})
	}
	return groups
}

// DiseasesFor returns the diseases of plant, in knowledge-base order.
func DiseasesFor(kb schema.KnowledgeBase, plant schema.PlantCategory) []schema.Disease {
	var out []schema.Disease
	for _, d := range kb.Diseases {
		if d.PlantCategory == plant {
			out = append(out, d)
		}
	}
	return out
}

// DiseaseCounts returns the number of diseases per plant category. Every
// known plant is present, zero counts included.
func DiseaseCounts(kb schema.KnowledgeBase) map[schema.PlantCategory]int {
	counts := make(map[schema.PlantCategory]int, len(schema.Plants))
	for _, p := range schema.Plants {
		counts[p] = 0
	}
	for _, d := range kb.Diseases {
		counts[d.PlantCategory]++
	}
	return counts
}

// RuleCount returns the total number of rules across all diseases.
func RuleCount(kb schema.KnowledgeBase) int {
	n := 0
	for _, d := range kb.Diseases {
		n += len(d.Rules)
	}
	return n
}
