// Package types defines the core type system for ratcrunch.
//
// This package contains type definitions for:
//   - Node: expression tree nodes, tagged by Kind
//   - Expression: a parsed expression with its source text
//   - AnswerResolver: the capability used to reach prior answers
//   - Error types: structured errors with codes
//
// Trees are immutable after construction; every non-leaf node owns its
// children exclusively, so reuse always goes through Clone. Comparison is
// structural: two independently built but semantically identical trees
// compare Equal and re-render to the same text.
package types

import (
	"strconv"
	"strings"

	"github.com/ratcrunch/ratcrunch/pkg/number"
)

// Kind identifies the variant of a Node.
type Kind string

// Node kinds. Boolean nodes are result-only: the parser never produces one.
const (
	KindExponent Kind = "exponent" // Left ^ Right
	KindMultiply Kind = "multiply" // Left * Right
	KindDivide   Kind = "divide"   // Left / Right
	KindAdd      Kind = "add"      // Left + Right
	KindSubtract Kind = "subtract" // Left - Right
	KindEquality Kind = "equality" // Left = Right
	KindNegative Kind = "negative" // -Left
	KindParen    Kind = "paren"    // ( Left ), semantically transparent
	KindNumber   Kind = "number"
	KindBoolean  Kind = "boolean"
	KindVariable Kind = "variable" // Name plus parse-time Snapshot of the binding
	KindAnswer   Kind = "answer"   // Answer id resolved externally, Back for display
	KindStore    Kind = "store"    // Left -> Name
)

// Node is a node in an expression tree.
//
// Which fields are meaningful depends on Kind: binary kinds use Left and
// Right; Negative, Paren and Store use Left alone; Store and Variable carry
// Name; Variable additionally carries Snapshot, the owned copy of the bound
// expression taken when the reference was parsed.
type Node struct {
	Kind Kind

	Number   number.Number // KindNumber
	Bool     bool          // KindBoolean
	Name     string        // KindVariable reference, KindStore target
	Snapshot *Node         // KindVariable bound value at parse time
	Answer   AnswerID      // KindAnswer
	Back     uint          // KindAnswer "lines back" display index

	Left  *Node
	Right *Node
}

// NewNumber returns a Number leaf.
func NewNumber(n number.Number) *Node {
	return &Node{Kind: KindNumber, Number: n}
}

// NewBoolean returns a Boolean leaf.
func NewBoolean(b bool) *Node {
	return &Node{Kind: KindBoolean, Bool: b}
}

// NewBinary returns a binary node of the given kind over two owned children.
func NewBinary(kind Kind, left, right *Node) *Node {
	return &Node{Kind: kind, Left: left, Right: right}
}

// Clone returns a deep copy of the tree rooted at n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	return &Node{
		Kind:     n.Kind,
		Number:   n.Number.Clone(),
		Bool:     n.Bool,
		Name:     n.Name,
		Answer:   n.Answer,
		Back:     n.Back,
		Snapshot: n.Snapshot.Clone(),
		Left:     n.Left.Clone(),
		Right:    n.Right.Clone(),
	}
}

// Equal reports deep structural equality by variant and children.
func (n *Node) Equal(o *Node) bool {
	if n == nil || o == nil {
		return n == o
	}
	if n.Kind != o.Kind {
		return false
	}
	switch n.Kind {
	case KindNumber:
		return n.Number.Equal(o.Number)
	case KindBoolean:
		return n.Bool == o.Bool
	case KindVariable:
		return n.Name == o.Name && n.Snapshot.Equal(o.Snapshot)
	case KindAnswer:
		return n.Answer == o.Answer
	case KindStore:
		return n.Name == o.Name && n.Left.Equal(o.Left)
	case KindNegative, KindParen:
		return n.Left.Equal(o.Left)
	}
	return n.Left.Equal(o.Left) && n.Right.Equal(o.Right)
}

// Render reconstructs the textual form of the tree, formatting numeric
// leaves to prec decimal digits.
func (n *Node) Render(prec int) string {
	var b strings.Builder
	n.render(&b, prec)
	return b.String()
}

func (n *Node) render(b *strings.Builder, prec int) {
	switch n.Kind {
	case KindExponent:
		n.Left.render(b, prec)
		b.WriteByte('^')
		n.Right.render(b, prec)
	case KindMultiply:
		n.binary(b, " * ", prec)
	case KindDivide:
		n.binary(b, " / ", prec)
	case KindAdd:
		n.binary(b, " + ", prec)
	case KindSubtract:
		n.binary(b, " - ", prec)
	case KindEquality:
		n.binary(b, " = ", prec)
	case KindNegative:
		b.WriteByte('-')
		n.Left.render(b, prec)
	case KindParen:
		b.WriteString("( ")
		n.Left.render(b, prec)
		b.WriteString(" )")
	case KindNumber:
		b.WriteString(n.Number.Render(prec))
	case KindBoolean:
		b.WriteString(strconv.FormatBool(n.Bool))
	case KindVariable:
		b.WriteString(n.Name)
	case KindAnswer:
		b.WriteByte('$')
		b.WriteString(strconv.FormatUint(uint64(n.Back), 10))
	case KindStore:
		n.Left.render(b, prec)
		b.WriteString(" -> ")
		b.WriteString(n.Name)
	default:
		panic("types: invalid node kind " + string(n.Kind))
	}
}

func (n *Node) binary(b *strings.Builder, op string, prec int) {
	n.Left.render(b, prec)
	b.WriteString(op)
	n.Right.render(b, prec)
}
