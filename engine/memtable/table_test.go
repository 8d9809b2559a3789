package memtable_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anvil-lang/anvil/engine"
	"github.com/anvil-lang/anvil/engine/memtable"
)

func ctx() *engine.Context { return engine.NewContext(context.Background(), "test") }

func schema(names ...string) engine.Schema {
	s := make(engine.Schema, len(names))
	for i, n := range names {
		s[i] = &engine.Column{Name: n, Type: "string", Nullable: true}
	}
	return s
}

func rows(t *testing.T, tbl engine.Table) []engine.Row {
	t.Helper()
	iter, err := tbl.Rows(ctx())
	require.NoError(t, err)
	defer iter.Close(ctx())
	var out []engine.Row
	for {
		r, err := iter.Next(ctx())
		if err != nil {
			break
		}
		out = append(out, r)
	}
	return out
}

func TestDistinctDedupsRows(t *testing.T) {
	tbl := memtable.New(schema("a"), []engine.Row{{int64(1)}, {int64(1)}, {int64(2)}})
	out, err := tbl.Distinct(ctx())
	require.NoError(t, err)
	assert.Len(t, rows(t, out), 2)
}

func TestDropColumns(t *testing.T) {
	tbl := memtable.New(schema("a", "b"), []engine.Row{{int64(1), int64(2)}})
	out, err := tbl.DropColumns(ctx(), []string{"a"})
	require.NoError(t, err)
	assert.Len(t, out.Schema(), 1)
	assert.Equal(t, "b", out.Schema()[0].Name)
	assert.Equal(t, engine.Row{int64(2)}, rows(t, out)[0])
}

func TestFillNullTargetsNamedColumns(t *testing.T) {
	tbl := memtable.New(schema("a", "b"), []engine.Row{{nil, nil}})
	out, err := tbl.FillNull(ctx(), 7, []string{"a"})
	require.NoError(t, err)
	row := rows(t, out)[0]
	assert.Equal(t, int64(7), row[0])
	assert.Nil(t, row[1])
}

func TestFillNullTargetsAllColumnsWhenUnspecified(t *testing.T) {
	tbl := memtable.New(schema("a", "b"), []engine.Row{{nil, nil}})
	out, err := tbl.FillNull(ctx(), 7, nil)
	require.NoError(t, err)
	row := rows(t, out)[0]
	assert.Equal(t, int64(7), row[0])
	assert.Equal(t, int64(7), row[1])
}

func TestCountRowsAndColumn(t *testing.T) {
	tbl := memtable.New(schema("a"), []engine.Row{{int64(1)}, {nil}, {int64(3)}})
	out, err := tbl.Count(ctx(), "*")
	require.NoError(t, err)
	assert.Equal(t, engine.Row{int64(3)}, rows(t, out)[0])

	out, err = tbl.Count(ctx(), "a")
	require.NoError(t, err)
	assert.Equal(t, engine.Row{int64(2)}, rows(t, out)[0])
}

func TestLimitSkipAndCount(t *testing.T) {
	tbl := memtable.New(schema("a"), []engine.Row{{int64(1)}, {int64(2)}, {int64(3)}, {int64(4)}})
	count := int64(2)
	out, err := tbl.Limit(ctx(), 1, &count)
	require.NoError(t, err)
	got := rows(t, out)
	require.Len(t, got, 2)
	assert.Equal(t, engine.Row{int64(2)}, got[0])
	assert.Equal(t, engine.Row{int64(3)}, got[1])
}

func TestSortAscendingWithNullsLast(t *testing.T) {
	tbl := memtable.New(schema("a"), []engine.Row{{int64(3)}, {nil}, {int64(1)}})
	out, err := tbl.Sort(ctx(), []engine.SortField{{Column: "a", Ascending: true, NullsFirst: false}})
	require.NoError(t, err)
	got := rows(t, out)
	assert.Equal(t, int64(1), got[0][0])
	assert.Equal(t, int64(3), got[1][0])
	assert.Nil(t, got[2][0])
}

func TestIntersectAndUnion(t *testing.T) {
	a := memtable.New(schema("a"), []engine.Row{{int64(1)}, {int64(2)}})
	b := memtable.New(schema("a"), []engine.Row{{int64(2)}, {int64(3)}})

	inter, err := a.Intersect(ctx(), b)
	require.NoError(t, err)
	assert.Len(t, rows(t, inter), 1)

	union, err := a.Union(ctx(), b)
	require.NoError(t, err)
	assert.Len(t, rows(t, union), 4)
}

func TestJoinLeftOuterProducesNullRightSide(t *testing.T) {
	left := memtable.New(schema("k", "v"), []engine.Row{{int64(1), "a"}, {int64(2), "b"}})
	right := memtable.New(schema("k", "w"), []engine.Row{{int64(1), "x"}})

	out, err := left.Join(ctx(), right, engine.LeftJoin, []string{"k"}, []string{"k"})
	require.NoError(t, err)
	got := rows(t, out)
	require.Len(t, got, 2)
	assert.Equal(t, "x", got[0][3])
	assert.Nil(t, got[1][2])
}

func TestDescribeComputesNumericSummary(t *testing.T) {
	tbl := memtable.New(schema("a"), []engine.Row{{int64(1)}, {int64(3)}})
	out, err := tbl.Describe(ctx())
	require.NoError(t, err)
	got := rows(t, out)[0]
	assert.Equal(t, "a", got[0])
	assert.Equal(t, int64(2), got[1])
	assert.Equal(t, 2.0, got[2])
}

func TestSelect2RenamesAndReorders(t *testing.T) {
	tbl := memtable.New(schema("a", "b"), []engine.Row{{int64(1), int64(2)}})
	out, err := tbl.Select2(ctx(), []engine.SelectColumn{{Name: "b"}, {Name: "a", Rename: "renamed"}})
	require.NoError(t, err)
	assert.Equal(t, "b", out.Schema()[0].Name)
	assert.Equal(t, "renamed", out.Schema()[1].Name)
	got := rows(t, out)[0]
	assert.Equal(t, int64(2), got[0])
	assert.Equal(t, int64(1), got[1])
}
