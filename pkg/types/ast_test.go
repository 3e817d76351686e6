package types

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ratcrunch/ratcrunch/pkg/number"
)

func num(t *testing.T, s string) *Node {
	t.Helper()
	n, err := number.FromString(s)
	require.NoError(t, err)
	return NewNumber(n)
}

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		node *Node
		want string
	}{
		{"number", num(t, "42"), "42"},
		{"boolean true", NewBoolean(true), "true"},
		{"boolean false", NewBoolean(false), "false"},
		{"add", NewBinary(KindAdd, num(t, "1"), num(t, "2")), "1 + 2"},
		{"subtract", NewBinary(KindSubtract, num(t, "1"), num(t, "2")), "1 - 2"},
		{"multiply", NewBinary(KindMultiply, num(t, "2"), num(t, "3")), "2 * 3"},
		{"divide", NewBinary(KindDivide, num(t, "1"), num(t, "2")), "1 / 2"},
		{"equality", NewBinary(KindEquality, num(t, "1"), num(t, "1")), "1 = 1"},
		{"exponent is tight", NewBinary(KindExponent, num(t, "2"), num(t, "3")), "2^3"},
		{"paren", &Node{Kind: KindParen, Left: num(t, "7")}, "( 7 )"},
		{"negative is tight", &Node{Kind: KindNegative, Left: num(t, "5")}, "-5"},
		{"store", &Node{Kind: KindStore, Name: "x", Left: num(t, "3")}, "3 -> x"},
		{"variable renders its name", &Node{Kind: KindVariable, Name: "x", Snapshot: num(t, "3")}, "x"},
		{"answer", &Node{Kind: KindAnswer, Answer: uuid.New(), Back: 2}, "$2"},
		{
			"nested",
			NewBinary(KindAdd, num(t, "1"),
				NewBinary(KindMultiply, num(t, "2"),
					&Node{Kind: KindParen, Left: NewBinary(KindSubtract, num(t, "3"), num(t, "4"))})),
			"1 + 2 * ( 3 - 4 )",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.node.Render(6))
		})
	}
}

func TestRenderPrecision(t *testing.T) {
	third := NewNumber(number.FromInt64(1).Div(number.FromInt64(3)))
	assert.Equal(t, "0.333"+number.Ellipsis, third.Render(3))
	assert.Equal(t, "0.333333"+number.Ellipsis, third.Render(6))
}

func TestCloneIsDeep(t *testing.T) {
	orig := NewBinary(KindAdd, num(t, "1"), NewBinary(KindMultiply, num(t, "2"), num(t, "3")))
	cl := orig.Clone()
	require.True(t, orig.Equal(cl))

	// Mutating the clone must not reach the original.
	cl.Right.Left = num(t, "9")
	assert.False(t, orig.Equal(cl))
	assert.Equal(t, "1 + 2 * 3", orig.Render(6))
}

func TestCloneNil(t *testing.T) {
	var n *Node
	assert.Nil(t, n.Clone())
}

func TestEqual(t *testing.T) {
	a := NewBinary(KindAdd, num(t, "1"), num(t, "2"))
	b := NewBinary(KindAdd, num(t, "1"), num(t, "2"))
	c := NewBinary(KindAdd, num(t, "2"), num(t, "1"))

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c), "operand order matters")
	assert.False(t, a.Equal(NewBinary(KindSubtract, num(t, "1"), num(t, "2"))))
	assert.False(t, a.Equal(nil))

	id := uuid.New()
	ans1 := &Node{Kind: KindAnswer, Answer: id, Back: 1}
	ans2 := &Node{Kind: KindAnswer, Answer: id, Back: 1}
	assert.True(t, ans1.Equal(ans2))
	assert.False(t, ans1.Equal(&Node{Kind: KindAnswer, Answer: uuid.New(), Back: 1}))

	v1 := &Node{Kind: KindVariable, Name: "x", Snapshot: num(t, "3")}
	v2 := &Node{Kind: KindVariable, Name: "x", Snapshot: num(t, "3")}
	assert.True(t, v1.Equal(v2))
	assert.False(t, v1.Equal(&Node{Kind: KindVariable, Name: "x", Snapshot: num(t, "4")}),
		"same name, different snapshot")
}

func TestRenderInvalidKindPanics(t *testing.T) {
	assert.Panics(t, func() {
		(&Node{Kind: Kind("bogus")}).Render(6)
	})
}
