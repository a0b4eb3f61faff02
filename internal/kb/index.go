package kb

import "github.com/dshills/plantdx/internal/schema"

// Index resolves symptom and disease ids of one knowledge base. It copies
// nothing but the lookup maps; the knowledge base must not be mutated while
// an Index built from it is in use.
type Index struct {
	symptoms map[string]schema.Symptom
	diseases map[string]schema.Disease
}

// NewIndex builds an Index over kb. When ids repeat, the first entry wins.
func NewIndex(kb schema.KnowledgeBase) Index {
	idx := Index{
		symptoms: make(map[string]schema.Symptom, len(kb.Symptoms)),
		diseases: make(map[string]schema.Disease, len(kb.Diseases)),
	}
	for _, s := range kb.Symptoms {
		if _, dup := idx.symptoms[s.ID]; !dup {
			idx.symptoms[s.ID] = s
		}
	}
	for _, d := range kb.Diseases {
		if _, dup := idx.diseases[d.ID]; !dup {
			idx.diseases[d.ID] = d
		}
	}
	return idx
}

// Symptom returns the symptom with id.
func (idx Index) Symptom(id string) (schema.Symptom, bool) {
	s, ok := idx.symptoms[id]
	return s, ok
}

// Disease returns the disease with id.
func (idx Index) Disease(id string) (schema.Disease, bool) {
	d, ok := idx.diseases[id]
	return d, ok
}

// SymptomName returns the display name for id, or id itself when the
// symptom is unknown.
func (idx Index) SymptomName(id string) string {
	if s, ok := idx.symptoms[id]; ok {
		return s.Name
	}
	return id
}

// DiseaseName returns the display name for id, or id itself when the
// disease is unknown.
func (idx Index) DiseaseName(id string) string {
	if d, ok := idx.diseases[id]; ok {
		return d.Name
	}
	return id
}

// SymptomNames maps ids to display names, preserving order.
func (idx Index) SymptomNames(ids []string) []string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = idx.SymptomName(id)
	}
	return names
}
