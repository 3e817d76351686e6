package history

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ratcrunch/ratcrunch/pkg/number"
	"github.com/ratcrunch/ratcrunch/pkg/session"
	"github.com/ratcrunch/ratcrunch/pkg/types"
)

func testSession(t *testing.T) *session.Session {
	t.Helper()
	root := t.TempDir()
	sess := session.NewAt(root, filepath.Join(root, "data"))
	require.NoError(t, sess.Init())
	return sess
}

func num(n int64) *types.Node {
	return types.NewNumber(number.FromInt64(n))
}

func equality(left, right *types.Node) *types.Node {
	return types.NewBinary(types.KindEquality, left, right)
}

func TestFlushAndReload(t *testing.T) {
	sess := testSession(t)
	log := zaptest.NewLogger(t)

	m, err := NewManager(sess, log)
	require.NoError(t, err)
	m.AddEntry(NewEntry(equality(types.NewBinary(types.KindAdd, num(1), num(2)), num(3)), 6))
	m.AddEntry(NewEntry(num(42), 6))
	require.NoError(t, m.Flush())

	// A second manager in the same session dir sees the flushed entries
	// as previous history.
	m2, err := NewManager(sess, log)
	require.NoError(t, err)
	all := m2.Entries()
	require.Len(t, all, 2)
	assert.Equal(t, "1 + 2 = 3", all[0].Rendition)
	assert.True(t, all[1].Expression.Equal(num(42)))
}

func TestResolveByIndex(t *testing.T) {
	sess := testSession(t)
	m, err := NewManager(sess, zaptest.NewLogger(t))
	require.NoError(t, err)

	first := NewEntry(num(1), 6)
	second := NewEntry(num(2), 6)
	m.AddEntry(first)
	m.AddEntry(second)

	// $1 is the most recent answer, $2 the one before it.
	id, ok := m.ResolveByIndex(1)
	require.True(t, ok)
	assert.Equal(t, second.ID, id)

	id, ok = m.ResolveByIndex(2)
	require.True(t, ok)
	assert.Equal(t, first.ID, id)

	_, ok = m.ResolveByIndex(0)
	assert.False(t, ok)
	_, ok = m.ResolveByIndex(3)
	assert.False(t, ok)
}

func TestResolveAcrossSessions(t *testing.T) {
	sess := testSession(t)
	log := zaptest.NewLogger(t)

	m1, err := NewManager(sess, log)
	require.NoError(t, err)
	old := NewEntry(num(7), 6)
	m1.AddEntry(old)
	require.NoError(t, m1.Flush())

	m2, err := NewManager(sess, log)
	require.NoError(t, err)
	fresh := NewEntry(num(8), 6)
	m2.AddEntry(fresh)

	// Current-session entries are more recent than loaded ones.
	id, ok := m2.ResolveByIndex(1)
	require.True(t, ok)
	assert.Equal(t, fresh.ID, id)

	id, ok = m2.ResolveByIndex(2)
	require.True(t, ok)
	assert.Equal(t, old.ID, id)
}

func TestResolveExpressionStripsEquality(t *testing.T) {
	sess := testSession(t)
	m, err := NewManager(sess, zaptest.NewLogger(t))
	require.NoError(t, err)

	e := NewEntry(equality(types.NewBinary(types.KindAdd, num(1), num(2)), num(3)), 6)
	m.AddEntry(e)

	got, ok := m.ResolveExpression(e.ID)
	require.True(t, ok)
	assert.True(t, got.Equal(num(3)), "an equality resolves to its reduced side, got %s", got.Render(6))

	plain := NewEntry(num(9), 6)
	m.AddEntry(plain)
	got, ok = m.ResolveExpression(plain.ID)
	require.True(t, ok)
	assert.True(t, got.Equal(num(9)))

	_, ok = m.ResolveExpression(types.AnswerID{})
	assert.False(t, ok)
}

func TestCorruptArchiveSkipped(t *testing.T) {
	sess := testSession(t)
	log := zaptest.NewLogger(t)

	m1, err := NewManager(sess, log)
	require.NoError(t, err)
	m1.AddEntry(NewEntry(num(1), 6))
	require.NoError(t, m1.Flush())

	// Truncate a valid archive into garbage.
	require.NoError(t, os.WriteFile(m1.FilePath(), []byte("mangled"), 0o644))

	m2, err := NewManager(sess, log)
	require.NoError(t, err)
	assert.Empty(t, m2.Entries(), "the corrupt archive loads as no entries, not an error")
}

func TestUnrelatedFilesIgnored(t *testing.T) {
	sess := testSession(t)
	require.NoError(t, os.WriteFile(filepath.Join(sess.DataDir, "notes.txt"), []byte("hi"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(sess.DataDir, "history-bogus.cbor.lz4"), []byte("hi"), 0o644))

	m, err := NewManager(sess, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Empty(t, m.Entries())
}

func TestArchiveRoundTrip(t *testing.T) {
	sess := testSession(t)
	m, err := NewManager(sess, zaptest.NewLogger(t))
	require.NoError(t, err)

	third := types.NewNumber(number.FromInt64(1).Div(number.FromInt64(3)))
	m.AddEntry(NewEntry(equality(types.NewBinary(types.KindDivide, num(1), num(3)), third), 6))
	require.NoError(t, m.Flush())

	arch, err := ReadArchive(m.FilePath())
	require.NoError(t, err)
	assert.Equal(t, FormatVersion, arch.Version)
	assert.Equal(t, sess.DecimalPlaces, arch.DecimalPlaces)
	require.Len(t, arch.Entries, 1)

	// The exact rational survives the trip, not just its rendition.
	got := arch.Entries[0].Expression
	require.Equal(t, types.KindEquality, got.Kind)
	assert.Equal(t, "1/3", got.Right.Number.RatString())
}

func TestFlushOverwritesSameSession(t *testing.T) {
	sess := testSession(t)
	m, err := NewManager(sess, zaptest.NewLogger(t))
	require.NoError(t, err)

	m.AddEntry(NewEntry(num(1), 6))
	require.NoError(t, m.Flush())
	m.AddEntry(NewEntry(num(2), 6))
	require.NoError(t, m.Flush())

	arch, err := ReadArchive(m.FilePath())
	require.NoError(t, err)
	assert.Len(t, arch.Entries, 2, "repeated flushes replace the archive, not append to it")
}
