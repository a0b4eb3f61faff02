package kb

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dshills/plantdx/internal/schema"
)

var (
	// ErrUnknownDisease is returned when an edit names a disease id that is
	// not in the knowledge base.
	ErrUnknownDisease = errors.New("kb: unknown disease")
	// ErrUnknownRule is returned when an edit names a rule id that the
	// disease does not own.
	ErrUnknownRule = errors.New("kb: unknown rule")
)

// DefaultRuleWeight is the weight given to rules added without one.
const DefaultRuleWeight = 5

// newID is replaced in tests to make generated ids predictable.
var newID = func(prefix string) string {
	return prefix + "_" + uuid.NewString()
}

// DiseaseInput carries the editable fields of a disease.
type DiseaseInput struct {
	ID            string
	Name          string
	PlantCategory schema.PlantCategory
	Description   string
	Treatment     string
}

// AddDisease returns a copy of kb with a new, rule-less disease appended.
// An empty in.ID is replaced by a generated "d_<uuid>" id.
func AddDisease(kb schema.KnowledgeBase, in DiseaseInput) (schema.KnowledgeBase, schema.Disease, error) {
	if strings.TrimSpace(in.Name) == "" {
		return kb, schema.Disease{}, fmt.Errorf("kb: add disease: name is required")
	}
	if _, err := schema.ParsePlantCategory(string(in.PlantCategory)); err != nil {
		return kb, schema.Disease{}, fmt.Errorf("kb: add disease: %w", err)
	}
	id := in.ID
	if id == "" {
		id = newID("d")
	}
	if _, exists := NewIndex(kb).Disease(id); exists {
		return kb, schema.Disease{}, fmt.Errorf("kb: add disease: id %q already exists", id)
	}

	d := schema.Disease{
		ID:            id,
		Name:          in.Name,
		PlantCategory: in.PlantCategory,
		Description:   in.Description,
		Treatment:     in.Treatment,
		Rules:         []schema.ProductionRule{},
	}
	out := kb.Clone()
	out.Diseases = append(out.Diseases, d)
	return out, d, nil
}

// UpdateDisease returns a copy of kb with the name, plant, description and
// treatment of disease in.ID replaced. Rules are kept.
func UpdateDisease(kb schema.KnowledgeBase, in DiseaseInput) (schema.KnowledgeBase, error) {
	if strings.TrimSpace(in.Name) == "" {
		return kb, fmt.Errorf("kb: update disease: name is required")
	}
	if _, err := schema.ParsePlantCategory(string(in.PlantCategory)); err != nil {
		return kb, fmt.Errorf("kb: update disease: %w", err)
	}
	out := kb.Clone()
	i := diseasePos(out, in.ID)
	if i < 0 {
		return kb, fmt.Errorf("%w %q", ErrUnknownDisease, in.ID)
	}
	d := out.Diseases[i]
	d.Name = in.Name
	d.PlantCategory = in.PlantCategory
	d.Description = in.Description
	d.Treatment = in.Treatment
	out.Diseases[i] = d
	return out, nil
}

// DeleteDisease returns a copy of kb without disease id and its rules.
func DeleteDisease(kb schema.KnowledgeBase, id string) (schema.KnowledgeBase, error) {
	out := kb.Clone()
	i := diseasePos(out, id)
	if i < 0 {
		return kb, fmt.Errorf("%w %q", ErrUnknownDisease, id)
	}
	out.Diseases = append(out.Diseases[:i], out.Diseases[i+1:]...)
	return out, nil
}

// RuleInput carries the fields of a new rule. Zero values select defaults:
// a generated "r_<uuid>" id, weight DefaultRuleWeight, and the first two
// symptoms applicable to the disease's plant as conditions.
type RuleInput struct {
	ID         string
	Conditions []string
	Weight     int
}

// AddRule returns a copy of kb with a rule appended to disease diseaseID.
func AddRule(kb schema.KnowledgeBase, diseaseID string, in RuleInput) (schema.KnowledgeBase, schema.ProductionRule, error) {
	out := kb.Clone()
	i := diseasePos(out, diseaseID)
	if i < 0 {
		return kb, schema.ProductionRule{}, fmt.Errorf("%w %q", ErrUnknownDisease, diseaseID)
	}
	d := out.Diseases[i]

	conds := append([]string(nil), in.Conditions...)
	if len(conds) == 0 {
		applicable := SymptomsFor(out, d.PlantCategory)
		if len(applicable) < 2 {
			return kb, schema.ProductionRule{}, fmt.Errorf("kb: add rule: %s has fewer than two applicable symptoms", d.PlantCategory)
		}
		conds = []string{applicable[0].ID, applicable[1].ID}
	}
	weight := in.Weight
	if weight == 0 {
		weight = DefaultRuleWeight
	}
	if weight < 1 || weight > 10 {
		return kb, schema.ProductionRule{}, fmt.Errorf("kb: add rule: weight %d outside 1-10", weight)
	}
	id := in.ID
	if id == "" {
		id = newID("r")
	}
	for _, other := range out.Diseases {
		for _, r := range other.Rules {
			if r.ID == id {
				return kb, schema.ProductionRule{}, fmt.Errorf("kb: add rule: id %q already exists", id)
			}
		}
	}

	rule := schema.ProductionRule{ID: id, Conditions: conds, Conclusion: d.ID, Weight: weight}
	d.Rules = append(d.Rules, rule)
	out.Diseases[i] = d
	return out, rule, nil
}

// DeleteRule returns a copy of kb without rule ruleID of disease diseaseID.
func DeleteRule(kb schema.KnowledgeBase, diseaseID, ruleID string) (schema.KnowledgeBase, error) {
	out := kb.Clone()
	i := diseasePos(out, diseaseID)
	if i < 0 {
		return kb, fmt.Errorf("%w %q", ErrUnknownDisease, diseaseID)
	}
	d := out.Diseases[i]
	for j, r := range d.Rules {
		if r.ID == ruleID {
			d.Rules = append(d.Rules[:j], d.Rules[j+1:]...)
			out.Diseases[i] = d
			return out, nil
		}
	}
	return kb, fmt.Errorf("%w %q for disease %q", ErrUnknownRule, ruleID, diseaseID)
}

func diseasePos(kb schema.KnowledgeBase, id string) int {
	for i, d := range kb.Diseases {
		if d.ID == id {
			return i
		}
	}
	return -1
}
