// Package ratcrunch is an arbitrary-precision calculator built on exact
// rational arithmetic.
//
// Expressions are parsed into trees and folded to exact values where
// possible. Results are rendered as decimals at a configurable number of
// places, with a trailing ellipsis whenever the printed digits do not
// capture the exact value.
//
// # Quick Start
//
//	// Parse once, evaluate many times
//	table := vartable.New()
//	expr, err := ratcrunch.Parse("1 + 2 * 3", table, nil)
//	result, _ := ratcrunch.Evaluate(expr, table, nil)
//
//	// One-shot evaluation
//	out, err := ratcrunch.EvalString("2^0.5", table, nil, 20)
//
// # More Information
//
// For detailed documentation, see:
//   - Parser: github.com/ratcrunch/ratcrunch/pkg/parser
//   - Evaluator: github.com/ratcrunch/ratcrunch/pkg/evaluator
//   - Numbers: github.com/ratcrunch/ratcrunch/pkg/number
//   - Types: github.com/ratcrunch/ratcrunch/pkg/types
package ratcrunch

import (
	"github.com/ratcrunch/ratcrunch/pkg/evaluator"
	"github.com/ratcrunch/ratcrunch/pkg/parser"
	"github.com/ratcrunch/ratcrunch/pkg/types"
	"github.com/ratcrunch/ratcrunch/pkg/vartable"
)

// Version returns the current version of ratcrunch.
func Version() string {
	return "v0.1.0-dev"
}

// Parse parses an expression against a variable table and an answer
// resolver. Either may be nil when the expression uses no variables or
// answer references.
func Parse(text string, table *vartable.Table, resolver types.AnswerResolver, opts ...parser.Option) (*types.Expression, error) {
	return parser.Parse(text, table, resolver, opts...)
}

// Evaluate reduces a parsed expression and returns it as an equality of
// the input and its simplified form.
func Evaluate(expr *types.Expression, table *vartable.Table, resolver types.AnswerResolver, opts ...evaluator.Option) (*types.Node, error) {
	eval := evaluator.New(opts...)
	return eval.GetEquality(expr.AST(), table, resolver)
}

// EvalString parses and evaluates an expression in a single call,
// returning the rendition at the given number of decimal places.
//
// Example:
//
//	out, err := ratcrunch.EvalString("1/3", nil, nil, 6)
//	// out == "1 / 3 = 0.333333…"
func EvalString(text string, table *vartable.Table, resolver types.AnswerResolver, prec int) (string, error) {
	if table == nil {
		table = vartable.New()
	}
	expr, err := Parse(text, table, resolver)
	if err != nil {
		return "", err
	}
	result, err := Evaluate(expr, table, resolver, evaluator.WithPrecision(prec))
	if err != nil {
		return "", err
	}
	return result.Render(prec), nil
}
