package toolmeta_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anvil-lang/anvil/toolmeta"
)

var catalogToolNames = []string{
	"input", "register", "describe", "distinct", "drop", "fill", "limit",
	"print", "project", "schema", "select", "sort", "count", "filter",
	"intersect", "union", "join", "sql", "output",
}

func TestNamesMatchesFullCatalog(t *testing.T) {
	want := append([]string(nil), catalogToolNames...)
	sort.Strings(want)
	assert.Equal(t, want, toolmeta.Names())
}

func TestLookupReturnsSummaryAndUsage(t *testing.T) {
	for _, name := range catalogToolNames {
		entry, ok := toolmeta.Lookup(name)
		require.True(t, ok, "missing catalog entry for %q", name)
		assert.NotEmpty(t, entry.Summary, "empty summary for %q", name)
		assert.NotEmpty(t, entry.Usage, "empty usage for %q", name)
	}
}

func TestLookupUnknownToolIsNotOK(t *testing.T) {
	_, ok := toolmeta.Lookup("bogus")
	assert.False(t, ok)
}

func TestJoinUsageMentionsColumnKeywords(t *testing.T) {
	entry, ok := toolmeta.Lookup("join")
	require.True(t, ok)
	assert.Contains(t, entry.Usage, "cols_lt")
	assert.Contains(t, entry.Usage, "cols_rt")
}
