package render

import (
	"fmt"
	"strings"

	"github.com/dshills/plantdx/internal/kb"
	"github.com/dshills/plantdx/internal/schema"
)

// RenderCatalog lists the symptoms observable on plant grouped by category,
// followed by the plant's diseases and their rules.
func RenderCatalog(base schema.KnowledgeBase, plant schema.PlantCategory) string {
	var sb strings.Builder
	idx := kb.NewIndex(base)
	counts := kb.DiseaseCounts(base)

	fmt.Fprintf(&sb, "## %s Symptoms\n\n", title(string(plant)))
	others := make([]string, 0, len(schema.Plants))
	for _, p := range schema.Plants {
		others = append(others, fmt.Sprintf("%s: %d", title(string(p)), counts[p]))
	}
	fmt.Fprintf(&sb, "**Diseases per plant:** %s\n\n", strings.Join(others, " | "))

	groups := kb.GroupByCategory(kb.SymptomsFor(base, plant))
	if len(groups) == 0 {
		sb.WriteString("_No symptoms recorded for this plant._\n\n")
	}
	for _, g := range groups {
		fmt.Fprintf(&sb, "### %s\n\n", title(string(g.Category)))
		for _, s := range g.Symptoms {
			fmt.Fprintf(&sb, "- `%s` %s\n", s.ID, s.Name)
		}
		sb.WriteString("\n")
	}

	diseases := kb.DiseasesFor(base, plant)
	if len(diseases) == 0 {
		return sb.String()
	}
	fmt.Fprintf(&sb, "## %s Diseases\n\n", title(string(plant)))
	sb.WriteString("| ID | Disease | Rule | Conditions | Weight |\n")
	sb.WriteString("|---|---|---|---|---|\n")
	for _, d := range diseases {
		if len(d.Rules) == 0 {
			fmt.Fprintf(&sb, "| %s | %s | | | |\n", d.ID, mdEscape(d.Name))
			continue
		}
		for _, r := range d.Rules {
			fmt.Fprintf(&sb, "| %s | %s | %s | %s | %d |\n",
				d.ID, mdEscape(d.Name), r.ID, mdEscape(joinConditions(idx, r.Conditions)), r.Weight)
		}
	}
	sb.WriteString("\n")
	return sb.String()
}
