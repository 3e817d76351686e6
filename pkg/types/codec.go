package types

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"

	"github.com/ratcrunch/ratcrunch/pkg/number"
)

// wireNode is the CBOR shape of a Node. Numbers travel as exact RatString
// text, answer ids as 16-byte uuids.
type wireNode struct {
	Kind     Kind      `cbor:"k"`
	Number   string    `cbor:"n,omitempty"`
	Bool     bool      `cbor:"b,omitempty"`
	Name     string    `cbor:"v,omitempty"`
	Snapshot *wireNode `cbor:"s,omitempty"`
	Answer   []byte    `cbor:"id,omitempty"`
	Back     uint      `cbor:"x,omitempty"`
	Left     *wireNode `cbor:"l,omitempty"`
	Right    *wireNode `cbor:"r,omitempty"`
}

// EncodeNode serializes a tree to CBOR. DecodeNode(EncodeNode(n)) is
// structurally equal to n and re-renders to the same text.
func EncodeNode(n *Node) ([]byte, error) {
	if n == nil {
		return nil, fmt.Errorf("types: encode of nil node")
	}
	return cbor.Marshal(toWire(n))
}

// DecodeNode deserializes a tree produced by EncodeNode.
func DecodeNode(data []byte) (*Node, error) {
	var w wireNode
	if err := cbor.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	return fromWire(&w)
}

func toWire(n *Node) *wireNode {
	if n == nil {
		return nil
	}
	w := &wireNode{
		Kind:     n.Kind,
		Bool:     n.Bool,
		Name:     n.Name,
		Back:     n.Back,
		Snapshot: toWire(n.Snapshot),
		Left:     toWire(n.Left),
		Right:    toWire(n.Right),
	}
	if n.Kind == KindNumber {
		w.Number = n.Number.RatString()
	}
	if n.Kind == KindAnswer {
		id := n.Answer
		w.Answer = id[:]
	}
	return w
}

func fromWire(w *wireNode) (*Node, error) {
	if w == nil {
		return nil, nil
	}
	n := &Node{
		Kind: w.Kind,
		Bool: w.Bool,
		Name: w.Name,
		Back: w.Back,
	}
	if w.Kind == KindNumber {
		num, err := number.FromRatString(w.Number)
		if err != nil {
			return nil, err
		}
		n.Number = num
	}
	if w.Kind == KindAnswer {
		id, err := uuid.FromBytes(w.Answer)
		if err != nil {
			return nil, fmt.Errorf("types: bad answer id: %w", err)
		}
		n.Answer = id
	}
	var err error
	if n.Snapshot, err = fromWire(w.Snapshot); err != nil {
		return nil, err
	}
	if n.Left, err = fromWire(w.Left); err != nil {
		return nil, err
	}
	if n.Right, err = fromWire(w.Right); err != nil {
		return nil, err
	}
	return n, nil
}
