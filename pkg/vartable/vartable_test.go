package vartable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ratcrunch/ratcrunch/pkg/number"
	"github.com/ratcrunch/ratcrunch/pkg/types"
)

func val(n int64) *types.Node {
	return types.NewNumber(number.FromInt64(n))
}

func TestAddAndGet(t *testing.T) {
	tbl := New()
	require.NoError(t, tbl.Add(Entry{ID: "x", Value: val(1)}))
	require.NoError(t, tbl.Add(Entry{ID: "y", Value: val(2)}))

	e, err := tbl.Get("x")
	require.NoError(t, err)
	assert.True(t, e.Value.Equal(val(1)))

	_, err = tbl.Get("z")
	assert.Error(t, err)
}

func TestAddDuplicate(t *testing.T) {
	tbl := New()
	require.NoError(t, tbl.Add(Entry{ID: "x", Value: val(1)}))
	assert.Error(t, tbl.Add(Entry{ID: "x", Value: val(2)}))

	// The original binding survives the rejected add.
	e, err := tbl.Get("x")
	require.NoError(t, err)
	assert.True(t, e.Value.Equal(val(1)))
}

func TestStoreReplaces(t *testing.T) {
	tbl := New()
	tbl.Store(Entry{ID: "x", Value: val(1)})
	tbl.Store(Entry{ID: "x", Value: val(2)})

	e, err := tbl.Get("x")
	require.NoError(t, err)
	assert.True(t, e.Value.Equal(val(2)))
	assert.Equal(t, 1, tbl.Len())
}

func TestSortedOrder(t *testing.T) {
	tbl := New()
	for _, id := range []string{"zeta", "alpha", "mid", "beta"} {
		tbl.Store(Entry{ID: id, Value: val(0)})
	}
	var ids []string
	for _, e := range tbl.Entries() {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"alpha", "beta", "mid", "zeta"}, ids)
}

func TestRemove(t *testing.T) {
	tbl := New()
	tbl.Store(Entry{ID: "a", Value: val(1)})
	tbl.Store(Entry{ID: "b", Value: val(2)})

	require.NoError(t, tbl.Remove("a"))
	assert.Equal(t, 1, tbl.Len())
	_, err := tbl.Get("a")
	assert.Error(t, err)

	assert.Error(t, tbl.Remove("a"), "double remove")
}

func TestMerge(t *testing.T) {
	a := New()
	a.Store(Entry{ID: "x", Value: val(1)})
	a.Store(Entry{ID: "y", Value: val(2)})

	b := New()
	b.Store(Entry{ID: "y", Value: val(20)})
	b.Store(Entry{ID: "z", Value: val(30)})

	a.Merge(b)
	assert.Equal(t, 3, a.Len())

	e, err := a.Get("y")
	require.NoError(t, err)
	assert.True(t, e.Value.Equal(val(20)), "the merged table wins on conflict")
}

func TestEntriesIsACopy(t *testing.T) {
	tbl := New()
	tbl.Store(Entry{ID: "x", Value: val(1)})

	entries := tbl.Entries()
	entries[0].ID = "mutated"

	_, err := tbl.Get("x")
	assert.NoError(t, err)
}
