// Package parser converts calculator input text into expression trees.
//
// There is no tokenizer stage. The parser scans the cleaned input for
// operator symbols in reverse precedence order, splitting at the leftmost
// occurrence found outside balanced parentheses; the fragments on either
// side are parsed recursively. The lowest-precedence operator found outside
// parentheses therefore always becomes the root of its subexpression.
//
// Variable references are resolved against the symbol table at parse time
// and the bound value is snapshotted into the tree; answer-reference
// markers ($n) are resolved to opaque ids through the caller's
// AnswerResolver.
package parser

import (
	"github.com/ratcrunch/ratcrunch/pkg/types"
	"github.com/ratcrunch/ratcrunch/pkg/vartable"
)

// DefaultMaxDepth bounds parse recursion.
const DefaultMaxDepth = 512

// Parse parses input text into an Expression.
//
// The symbol table is consulted for variable references; resolver is
// consulted for answer-reference markers and may be a types.NopResolver
// when no history exists. All failures are *types.Error values.
func Parse(text string, table *vartable.Table, resolver types.AnswerResolver, opts ...Option) (*types.Expression, error) {
	o := Options{MaxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(&o)
	}
	p := &parser{table: table, resolver: resolver, maxDepth: o.MaxDepth}
	root, err := p.run(text)
	if err != nil {
		return nil, err
	}
	return types.NewExpression(root, text), nil
}

// Option configures parsing behavior.
type Option func(*Options)

// Options holds parser configuration.
type Options struct {
	// MaxDepth limits recursion depth to prevent stack overflow.
	MaxDepth int
}

// WithMaxDepth sets the maximum parsing depth.
func WithMaxDepth(depth int) Option {
	return func(o *Options) {
		if depth > 0 {
			o.MaxDepth = depth
		}
	}
}
