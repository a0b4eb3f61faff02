// Package schema defines all canonical data types for the plantdx knowledge
// base, inference results, and output envelope.
package schema

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnknownPlant is returned by ParsePlantCategory for values outside the
// closed plant enumeration.
var ErrUnknownPlant = errors.New("schema: unknown plant category")

// PlantCategory identifies the crop a disease or symptom belongs to.
type PlantCategory string

const (
	PlantTomato PlantCategory = "tomato"
	PlantPotato PlantCategory = "potato"
	PlantChilli PlantCategory = "chilli"
)

// Plants lists every plant category in display order.
var Plants = []PlantCategory{PlantTomato, PlantPotato, PlantChilli}

// ParsePlantCategory converts a string to a PlantCategory constant.
// Matching is case-insensitive and ignores surrounding whitespace.
func ParsePlantCategory(s string) (PlantCategory, error) {
	p := PlantCategory(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Plants {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w %q (available: tomato, potato, chilli)", ErrUnknownPlant, s)
}

// SymptomCategory groups symptoms by the part of the plant they appear on.
type SymptomCategory string

const (
	CategoryLeaf    SymptomCategory = "leaf"
	CategoryStem    SymptomCategory = "stem"
	CategoryFruit   SymptomCategory = "fruit"
	CategoryGeneral SymptomCategory = "general"
)

// SymptomCategories lists every symptom category in display order.
var SymptomCategories = []SymptomCategory{CategoryLeaf, CategoryStem, CategoryFruit, CategoryGeneral}

// ParseSymptomCategory converts a string to a SymptomCategory constant.
func ParseSymptomCategory(s string) (SymptomCategory, error) {
	c := SymptomCategory(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range SymptomCategories {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("schema: unknown symptom category %q (available: leaf, stem, fruit, general)", s)
}

// Symptom is an observable sign recorded in the knowledge base.
type Symptom struct {
	ID               string          `json:"id" yaml:"id" validate:"required"`
	Name             string          `json:"name" yaml:"name" validate:"required"`
	Category         SymptomCategory `json:"category" yaml:"category" validate:"required,oneof=leaf stem fruit general"`
	ApplicablePlants []PlantCategory `json:"applicable_plants" yaml:"applicable_plants" validate:"dive,oneof=tomato potato chilli"`
}

// AppliesTo reports whether the symptom can be observed on plant.
func (s Symptom) AppliesTo(plant PlantCategory) bool {
	for _, p := range s.ApplicablePlants {
		if p == plant {
			return true
		}
	}
	return false
}

// ProductionRule is an IF-THEN rule: when the listed symptoms are observed,
// conclude Conclusion. Weight expresses diagnostic strength, not probability.
type ProductionRule struct {
	ID         string   `json:"id" yaml:"id" validate:"required"`
	Conditions []string `json:"conditions" yaml:"conditions"`
	Conclusion string   `json:"conclusion" yaml:"conclusion" validate:"required"`
	Weight     int      `json:"weight" yaml:"weight" validate:"min=1,max=10"`
}

// Disease owns its production rules exclusively.
type Disease struct {
	ID            string           `json:"id" yaml:"id" validate:"required"`
	Name          string           `json:"name" yaml:"name" validate:"required"`
	PlantCategory PlantCategory    `json:"plant_category" yaml:"plant_category" validate:"required,oneof=tomato potato chilli"`
	Description   string           `json:"description" yaml:"description"`
	Treatment     string           `json:"treatment" yaml:"treatment"`
	Rules         []ProductionRule `json:"rules" yaml:"rules" validate:"dive"`
}

// KnowledgeBase is the root aggregate of symptoms and diseases.
// It is read-only for the duration of an inference run.
type KnowledgeBase struct {
	Symptoms []Symptom `json:"symptoms" yaml:"symptoms" validate:"dive"`
	Diseases []Disease `json:"diseases" yaml:"diseases" validate:"dive"`
}

// Clone returns a deep copy of kb. Edits to the copy never reach kb.
func (kb KnowledgeBase) Clone() KnowledgeBase {
	out := KnowledgeBase{
		Symptoms: make([]Symptom, len(kb.Symptoms)),
		Diseases: make([]Disease, len(kb.Diseases)),
	}
	for i, s := range kb.Symptoms {
		s.ApplicablePlants = append([]PlantCategory(nil), s.ApplicablePlants...)
		out.Symptoms[i] = s
	}
	for i, d := range kb.Diseases {
		rules := make([]ProductionRule, len(d.Rules))
		for j, r := range d.Rules {
			r.Conditions = append([]string(nil), r.Conditions...)
			rules[j] = r
		}
		d.Rules = rules
		out.Diseases[i] = d
	}
	return out
}

// RuleEvaluation is the outcome of testing one rule against the selected
// symptoms. Matched is true when at least one condition is present.
type RuleEvaluation struct {
	Rule              ProductionRule `json:"rule"`
	Disease           Disease        `json:"disease"`
	MatchedConditions []string       `json:"matched_conditions"`
	TotalConditions   int            `json:"total_conditions"`
	Matched           bool           `json:"matched"`
	MatchPercentage   float64        `json:"match_percentage"`
}

// DiagnosisResult aggregates every fired rule of one disease. The headline
// Confidence and BestRule come from the fired rule with the highest weighted
// score; FiredRules lists every rule that fired, in evaluation order.
type DiagnosisResult struct {
	Disease               Disease          `json:"disease"`
	Confidence            float64          `json:"confidence"`
	MatchedSymptoms       []Symptom        `json:"matched_symptoms"`
	TotalRuleConditions   int              `json:"total_rule_conditions"`
	MatchedRuleConditions int              `json:"matched_rule_conditions"`
	FiredRules            []ProductionRule `json:"fired_rules"`
	BestRule              ProductionRule   `json:"best_rule"`
	Score                 float64          `json:"score"`
}

// TraceAction tags a trace entry with the decision point it records.
type TraceAction string

const (
	ActionInitialize         TraceAction = "INITIALIZE"
	ActionWorkingMemory      TraceAction = "WORKING MEMORY"
	ActionFilter             TraceAction = "FILTER"
	ActionEvaluateDisease    TraceAction = "EVALUATE DISEASE"
	ActionRuleFired          TraceAction = "RULE FIRED"
	ActionRuleSkipped        TraceAction = "RULE SKIPPED"
	ActionConflictResolution TraceAction = "CONFLICT RESOLUTION"
	ActionResolution         TraceAction = "RESOLUTION"
	ActionNoMatch            TraceAction = "NO MATCH"
	ActionComplete           TraceAction = "COMPLETE"
)

// TraceEntry is one numbered line of the explanation log.
type TraceEntry struct {
	Step   int         `json:"step"`
	Action TraceAction `json:"action"`
	Detail string      `json:"detail"`
}

// InferenceResult is everything a single inference run produces.
type InferenceResult struct {
	Results            []DiagnosisResult `json:"results"`
	Trace              []TraceEntry      `json:"trace"`
	AllEvaluations     []RuleEvaluation  `json:"all_evaluations"`
	ConflictResolution string            `json:"conflict_resolution"`
}

// Report is the top-level output document of the diagnose command.
type Report struct {
	Tool        string          `json:"tool"`
	Version     string          `json:"version"`
	RunID       string          `json:"run_id"`
	GeneratedAt time.Time       `json:"generated_at"`
	Input       Input           `json:"input"`
	Summary     Summary         `json:"summary"`
	Result      InferenceResult `json:"result"`
}

// Input records the parameters used for this run.
type Input struct {
	Plant         PlantCategory `json:"plant"`
	Symptoms      []string      `json:"symptoms"`
	KnowledgeBase string        `json:"knowledge_base"`
}

// Summary holds headline counts derived from an InferenceResult.
type Summary struct {
	Diagnoses      int     `json:"diagnoses"`
	RulesEvaluated int     `json:"rules_evaluated"`
	RulesFired     int     `json:"rules_fired"`
	TopDisease     string  `json:"top_disease,omitempty"`
	TopScore       float64 `json:"top_score"`
	TopConfidence  float64 `json:"top_confidence"`
}
