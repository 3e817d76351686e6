// Package evaluator reduces expression trees to normal form.
//
// Evaluation is a single bottom-up constant-folding pass: a binary
// arithmetic node whose children both reduce to numeric leaves is folded
// through the number engine, anything else is rebuilt around its simplified
// children. There are no rewriting rules beyond the special forms (store,
// variable snapshot, answer reference, equality, parenthesis, negation);
// x*0 is not folded unless x is itself already numeric.
//
// # Example
//
//	ev := evaluator.New(evaluator.WithPrecision(12))
//	result, err := ev.GetEquality(expr.AST(), table, resolver)
//	fmt.Println(result.Render(12)) // "2 + 2 = 4"
package evaluator

import (
	"log/slog"

	"github.com/ratcrunch/ratcrunch/pkg/number"
	"github.com/ratcrunch/ratcrunch/pkg/types"
	"github.com/ratcrunch/ratcrunch/pkg/vartable"
)

// DefaultPrecision is the decimal-place budget used when no option is given.
const DefaultPrecision = 6

// Evaluator simplifies expression trees. Not safe for concurrent use with a
// shared symbol table; hosts serialize access per logical session.
type Evaluator struct {
	prec   int
	logger *slog.Logger
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithPrecision sets the decimal precision threaded into exponent folding
// and used when rendering intermediate renditions.
func WithPrecision(prec int) Option {
	return func(e *Evaluator) {
		if prec >= 0 {
			e.prec = prec
		}
	}
}

// WithLogger sets the logger used for debug tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Evaluator) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates a new Evaluator with default options.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{prec: DefaultPrecision, logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Precision returns the evaluator's decimal-place budget.
func (e *Evaluator) Precision() int {
	return e.prec
}

// GetEquality wraps the input and its simplification in an equality node,
// constructing the "input = result" pair callers render.
func (e *Evaluator) GetEquality(n *types.Node, table *vartable.Table, resolver types.AnswerResolver) (*types.Node, error) {
	result, err := e.Simplify(n, table, resolver)
	if err != nil {
		return nil, err
	}
	return types.NewBinary(types.KindEquality, n.Clone(), result), nil
}

// Simplify recursively reduces a tree to normal form. A failed evaluation
// never mutates the symbol table: stores bind only after their value
// simplified cleanly.
func (e *Evaluator) Simplify(n *types.Node, table *vartable.Table, resolver types.AnswerResolver) (*types.Node, error) {
	if table == nil {
		table = vartable.New()
	}
	if resolver == nil {
		resolver = types.NopResolver{}
	}
	return e.simplify(n, table, resolver)
}

func (e *Evaluator) simplify(n *types.Node, table *vartable.Table, resolver types.AnswerResolver) (*types.Node, error) {
	switch n.Kind {
	case types.KindAdd, types.KindSubtract, types.KindMultiply, types.KindDivide, types.KindExponent:
		left, err := e.simplify(n.Left, table, resolver)
		if err != nil {
			return nil, err
		}
		right, err := e.simplify(n.Right, table, resolver)
		if err != nil {
			return nil, err
		}
		if left.Kind == types.KindNumber && right.Kind == types.KindNumber {
			return types.NewNumber(e.fold(n.Kind, left, right)), nil
		}
		// Cannot be reduced further; rebuild around the simplified sides.
		return types.NewBinary(n.Kind, left, right), nil
	case types.KindEquality:
		left, err := e.simplify(n.Left, table, resolver)
		if err != nil {
			return nil, err
		}
		right, err := e.simplify(n.Right, table, resolver)
		if err != nil {
			return nil, err
		}
		return types.NewBoolean(left.Equal(right)), nil
	case types.KindParen:
		return e.simplify(n.Left, table, resolver)
	case types.KindNegative:
		child, err := e.simplify(n.Left, table, resolver)
		if err != nil {
			return nil, err
		}
		if child.Kind == types.KindNumber {
			return types.NewNumber(child.Number.Neg()), nil
		}
		return &types.Node{Kind: types.KindNegative, Left: child}, nil
	case types.KindNumber, types.KindBoolean:
		return n.Clone(), nil
	case types.KindVariable:
		// The snapshot was stored pre-simplified; no re-simplification
		// needed.
		return n.Snapshot.Clone(), nil
	case types.KindStore:
		value, err := e.simplify(n.Left, table, resolver)
		if err != nil {
			return nil, err
		}
		table.Store(vartable.Entry{ID: n.Name, Value: value.Clone()})
		e.logger.Debug("stored variable", "id", n.Name)
		// Assignment is an expression: it yields its own value.
		return value, nil
	case types.KindAnswer:
		prior, ok := resolver.ResolveExpression(n.Answer)
		if !ok {
			return nil, types.NewError(types.ErrUnresolvableAnswer, "answer cannot be resolved").WithContext(n.Render(e.prec))
		}
		return e.simplify(prior, table, resolver)
	}
	panic("evaluator: invalid node kind " + string(n.Kind))
}

// fold applies the numeric operation for an arithmetic kind. Exponent
// folding threads the evaluator's precision: root extraction is
// precision-parameterized.
func (e *Evaluator) fold(kind types.Kind, left, right *types.Node) number.Number {
	switch kind {
	case types.KindAdd:
		return left.Number.Add(right.Number)
	case types.KindSubtract:
		return left.Number.Sub(right.Number)
	case types.KindMultiply:
		return left.Number.Mul(right.Number)
	case types.KindDivide:
		return left.Number.Div(right.Number)
	case types.KindExponent:
		return left.Number.Pow(right.Number, e.prec)
	}
	panic("evaluator: fold on non-arithmetic kind " + string(kind))
}
