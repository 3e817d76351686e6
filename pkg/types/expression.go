package types

// Expression represents a parsed expression.
//
// An Expression pairs the root of the tree with the source text it was
// parsed from. The tree is immutable; evaluating an Expression never
// modifies it.
type Expression struct {
	ast    *Node
	source string
}

// NewExpression creates a new Expression from a tree root.
func NewExpression(ast *Node, source string) *Expression {
	return &Expression{ast: ast, source: source}
}

// AST returns the root node of the expression.
func (e *Expression) AST() *Node {
	return e.ast
}

// Source returns the original source text of the expression.
func (e *Expression) Source() string {
	return e.source
}

// Render reconstructs the expression's textual form at the given precision.
func (e *Expression) Render(prec int) string {
	return e.ast.Render(prec)
}

// String returns the original source text.
func (e *Expression) String() string {
	return e.source
}
