// Package kb holds the built-in plant disease knowledge bases together with
// read helpers (id lookup with fallback, per-plant catalogs) and pure edit
// operations that return a modified copy of a knowledge base.
package kb

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dshills/plantdx/internal/schema"
)

// DefaultName is the registry name of the hand-authored knowledge base.
const DefaultName = "default"

// Builtin describes a knowledge base compiled into the binary.
type Builtin struct {
	Name        string
	Description string
	data        *schema.KnowledgeBase
}

// builtins is the registry of built-in knowledge bases keyed by name.
var builtins = map[string]Builtin{
	DefaultName: {
		Name:        DefaultName,
		Description: "Tomato, potato and chilli diseases with three weighted rules each.",
		data:        &defaultKB,
	},
}

// Default returns a deep copy of the default knowledge base.
func Default() schema.KnowledgeBase {
	return defaultKB.Clone()
}

// Load returns a deep copy of the named built-in knowledge base or an error if
// the name is unknown.
func Load(name string) (schema.KnowledgeBase, error) {
	b, ok := builtins[name]
	if !ok {
		return schema.KnowledgeBase{}, fmt.Errorf("kb: unknown built-in %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return b.data.Clone(), nil
}

// Names returns the registered built-in names in sorted order.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns the registered built-ins sorted by name.
func List() []Builtin {
	out := make([]Builtin, 0, len(builtins))
	for _, name := range Names() {
		out = append(out, builtins[name])
	}
	return out
}
