package fuzz

import (
	"testing"

	"github.com/ratcrunch/ratcrunch/pkg/evaluator"
	"github.com/ratcrunch/ratcrunch/pkg/parser"
	"github.com/ratcrunch/ratcrunch/pkg/vartable"
)

func FuzzEvaluator(f *testing.F) {
	seeds := []string{
		`1 + 2 * 3`,
		`1/0`,
		`0/0`,
		`16^0.5`,
		`2^(-3)`,
		`1+2*3-4/-5^(6+7)`,
		`1/3`,
		`42 -> x`,
		`1 = 1`,
	}
	for _, s := range seeds {
		f.Add(s)
	}
	ev := evaluator.New(evaluator.WithPrecision(6))
	f.Fuzz(func(t *testing.T, input string) {
		table := vartable.New()
		expr, err := parser.Parse(input, table, nil)
		if err != nil {
			return
		}
		result, err := ev.GetEquality(expr.AST(), table, nil)
		if err != nil {
			return
		}
		// Every successful evaluation must re-render without panicking.
		_ = result.Render(6)
	})
}
