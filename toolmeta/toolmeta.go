// Package toolmeta loads the tool catalog's human-facing metadata: a
// one-line summary and usage string per tool, bundled as
// toolcatalog.toml and kept inside the core because the tool catalog
// itself (internal/tool) is core. A REPL's "help" command or a DOT
// dumper's node tooltips are the intended out-of-scope consumers; this
// package only owns the data and its lookup, not any UI around it.
package toolmeta

import (
	_ "embed"
	"fmt"
	"sort"

	"github.com/BurntSushi/toml"
)

//go:embed toolcatalog.toml
var catalogTOML string

// Entry is one tool's help text.
type Entry struct {
	Summary string `toml:"summary"`
	Usage   string `toml:"usage"`
}

var catalog map[string]Entry

func init() {
	var parsed map[string]Entry
	if _, err := toml.Decode(catalogTOML, &parsed); err != nil {
		panic(fmt.Sprintf("toolmeta: malformed embedded toolcatalog.toml: %v", err))
	}
	catalog = parsed
}

// Lookup returns the Entry for a tool name, or ok=false if the name
// isn't in the bundled catalog.
func Lookup(name string) (Entry, bool) {
	e, ok := catalog[name]
	return e, ok
}

// Names returns every cataloged tool name in sorted order.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
