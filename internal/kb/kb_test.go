package kb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/plantdx/internal/schema"
)

func TestDefault_Shape(t *testing.T) {
	kb := Default()
	require.NoError(t, kb.Validate())
	assert.Len(t, kb.Symptoms, 43)
	assert.Len(t, kb.Diseases, 12)
	assert.Equal(t, 36, RuleCount(kb))

	counts := DiseaseCounts(kb)
	for _, p := range schema.Plants {
		assert.Equal(t, 4, counts[p], "disease count for %s", p)
	}
}

func TestDefault_ReferencesResolve(t *testing.T) {
	kb := Default()
	idx := NewIndex(kb)
	for _, d := range kb.Diseases {
		for _, r := range d.Rules {
			assert.Equal(t, d.ID, r.Conclusion, "rule %s conclusion", r.ID)
			for _, c := range r.Conditions {
				_, ok := idx.Symptom(c)
				assert.True(t, ok, "rule %s references unknown symptom %s", r.ID, c)
			}
		}
	}
}

func TestDefault_ReturnsIndependentCopies(t *testing.T) {
	a := Default()
	a.Diseases[0].Rules[0].Weight = 1
	a.Symptoms[0].Name = "changed"

	b := Default()
	assert.Equal(t, 9, b.Diseases[0].Rules[0].Weight)
	assert.Equal(t, "Dark brown spots on lower leaves", b.Symptoms[0].Name)
}

func TestLoad(t *testing.T) {
	kb, err := Load(DefaultName)
	require.NoError(t, err)
	assert.Len(t, kb.Diseases, 12)

	_, err = Load("nonexistent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "available: default")
}

func TestList(t *testing.T) {
	list := List()
	require.Len(t, list, 1)
	assert.Equal(t, DefaultName, list[0].Name)
	assert.NotEmpty(t, list[0].Description)
}

func TestIndex_Fallback(t *testing.T) {
	idx := NewIndex(Default())
	assert.Equal(t, "Stunted plant growth", idx.SymptomName("s9"))
	assert.Equal(t, "s999", idx.SymptomName("s999"))
	assert.Equal(t, "Early Blight", idx.DiseaseName("d1"))
	assert.Equal(t, "d999", idx.DiseaseName("d999"))
	assert.Equal(t, []string{"Stunted plant growth", "x"}, idx.SymptomNames([]string{"s9", "x"}))
}

func TestIndex_FirstDuplicateWins(t *testing.T) {
	idx := NewIndex(schema.KnowledgeBase{Symptoms: []schema.Symptom{
		{ID: "s1", Name: "first"},
		{ID: "s1", Name: "second"},
	}})
	assert.Equal(t, "first", idx.SymptomName("s1"))
}

func TestSymptomsFor(t *testing.T) {
	kb := Default()
	potato := SymptomsFor(kb, schema.PlantPotato)
	// s9 and s10 are shared across plants; s16-s29 are potato-only.
	assert.Len(t, potato, 16)
	assert.Equal(t, "s9", potato[0].ID)
	assert.Equal(t, "s10", potato[1].ID)
	for _, s := range potato {
		assert.True(t, s.AppliesTo(schema.PlantPotato))
	}
}

func TestGroupByCategory_FixedOrder(t *testing.T) {
	groups := GroupByCategory([]schema.Symptom{
		{ID: "a", Category: schema.CategoryGeneral},
		{ID: "b", Category: schema.CategoryFruit},
		{ID: "c", Category: schema.CategoryLeaf},
		{ID: "d", Category: "root"},
		{ID: "e", Category: schema.CategoryLeaf},
	})
	require.Len(t, groups, 4)
	assert.Equal(t, schema.CategoryLeaf, groups[0].Category)
	assert.Len(t, groups[0].Symptoms, 2)
	assert.Equal(t, schema.CategoryFruit, groups[1].Category)
	assert.Equal(t, schema.CategoryGeneral, groups[2].Category)
	assert.Equal(t, schema.SymptomCategory("root"), groups[3].Category)
}

func TestDiseasesFor(t *testing.T) {
	chilli := DiseasesFor(Default(), schema.PlantChilli)
	require.Len(t, chilli, 4)
	assert.Equal(t, "d9", chilli[0].ID)
	assert.Empty(t, DiseasesFor(Default(), "pepper"))
}

func stubIDs(t *testing.T) {
	t.Helper()
	orig := newID
	n := 0
	newID = func(prefix string) string {
		n++
		return prefix + "_test" + string(rune('0'+n))
	}
	t.Cleanup(func() { newID = orig })
}

func TestAddDisease(t *testing.T) {
	stubIDs(t)
	base := Default()
	out, d, err := AddDisease(base, DiseaseInput{Name: "Septoria Leaf Spot", PlantCategory: schema.PlantTomato})
	require.NoError(t, err)
	assert.Equal(t, "d_test1", d.ID)
	assert.Empty(t, d.Rules)
	assert.Len(t, out.Diseases, 13)
	assert.Len(t, base.Diseases, 12, "input must not be mutated")

	_, _, err = AddDisease(base, DiseaseInput{Name: " ", PlantCategory: schema.PlantTomato})
	assert.Error(t, err)
	_, _, err = AddDisease(base, DiseaseInput{Name: "x", PlantCategory: "pepper"})
	assert.ErrorIs(t, err, schema.ErrUnknownPlant)
	_, _, err = AddDisease(base, DiseaseInput{ID: "d1", Name: "x", PlantCategory: schema.PlantTomato})
	assert.Error(t, err)
}

func TestUpdateDisease(t *testing.T) {
	base := Default()
	out, err := UpdateDisease(base, DiseaseInput{
		ID: "d1", Name: "Target Spot", PlantCategory: schema.PlantTomato, Description: "desc", Treatment: "treat",
	})
	require.NoError(t, err)
	assert.Equal(t, "Target Spot", out.Diseases[0].Name)
	assert.Len(t, out.Diseases[0].Rules, 3, "rules are kept")
	assert.Equal(t, "Early Blight", base.Diseases[0].Name)

	_, err = UpdateDisease(base, DiseaseInput{ID: "nope", Name: "x", PlantCategory: schema.PlantTomato})
	assert.ErrorIs(t, err, ErrUnknownDisease)
}

func TestDeleteDisease(t *testing.T) {
	base := Default()
	out, err := DeleteDisease(base, "d2")
	require.NoError(t, err)
	assert.Len(t, out.Diseases, 11)
	_, found := NewIndex(out).Disease("d2")
	assert.False(t, found)
	assert.Len(t, base.Diseases, 12)

	_, err = DeleteDisease(base, "nope")
	assert.ErrorIs(t, err, ErrUnknownDisease)
}

func TestAddRule_Defaults(t *testing.T) {
	stubIDs(t)
	out, rule, err := AddRule(Default(), "d5", RuleInput{})
	require.NoError(t, err)
	assert.Equal(t, "r_test1", rule.ID)
	assert.Equal(t, "d5", rule.Conclusion)
	assert.Equal(t, DefaultRuleWeight, rule.Weight)
	// First two potato-applicable symptoms in knowledge-base order.
	assert.Equal(t, []string{"s9", "s10"}, rule.Conditions)

	d, _ := NewIndex(out).Disease("d5")
	assert.Len(t, d.Rules, 4)
	assert.Equal(t, rule, d.Rules[3])
}

func TestAddRule_Explicit(t *testing.T) {
	out, rule, err := AddRule(Default(), "d1", RuleInput{ID: "r100", Conditions: []string{"s15"}, Weight: 10})
	require.NoError(t, err)
	assert.Equal(t, schema.ProductionRule{ID: "r100", Conditions: []string{"s15"}, Conclusion: "d1", Weight: 10}, rule)
	assert.NoError(t, out.Validate())
}

func TestAddRule_Errors(t *testing.T) {
	_, _, err := AddRule(Default(), "nope", RuleInput{})
	assert.ErrorIs(t, err, ErrUnknownDisease)

	_, _, err = AddRule(Default(), "d1", RuleInput{Weight: 11, Conditions: []string{"s1"}})
	assert.Error(t, err)

	_, _, err = AddRule(Default(), "d1", RuleInput{ID: "r5", Conditions: []string{"s1"}})
	assert.Error(t, err, "rule ids are unique across diseases")

	tiny := schema.KnowledgeBase{Diseases: []schema.Disease{{ID: "d1", Name: "x", PlantCategory: schema.PlantTomato}}}
	_, _, err = AddRule(tiny, "d1", RuleInput{})
	assert.Error(t, err)
}

func TestDeleteRule(t *testing.T) {
	base := Default()
	out, err := DeleteRule(base, "d1", "r2")
	require.NoError(t, err)
	d, _ := NewIndex(out).Disease("d1")
	require.Len(t, d.Rules, 2)
	assert.Equal(t, "r1", d.Rules[0].ID)
	assert.Equal(t, "r3", d.Rules[1].ID)
	assert.Len(t, base.Diseases[0].Rules, 3)

	_, err = DeleteRule(base, "d1", "r4")
	assert.ErrorIs(t, err, ErrUnknownRule)
	_, err = DeleteRule(base, "nope", "r1")
	assert.ErrorIs(t, err, ErrUnknownDisease)
}
