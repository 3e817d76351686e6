package parser

import (
	"errors"
	"strconv"
	"strings"
	"unicode"

	"github.com/ratcrunch/ratcrunch/pkg/number"
	"github.com/ratcrunch/ratcrunch/pkg/types"
	"github.com/ratcrunch/ratcrunch/pkg/vartable"
)

// negMarker is the internal unary-negative marker. The preprocessor
// rewrites every minus sign in unary position to this byte, so the operator
// scan never special-cases leading minus signs. The byte is unreachable
// from keyboard input.
const negMarker = "\x01"

const (
	opStore  = "->"
	opAnswer = "$"
	// commentByte starts a trailing comment running to end of line.
	commentByte = '#'
)

// opOrder lists operator symbols from lowest to highest binding precedence.
// The first symbol found outside parentheses becomes the root of its
// subexpression.
var opOrder = []string{opStore, "=", "-", "+", "/", "*", negMarker, "^", opAnswer}

var binaryKinds = map[string]types.Kind{
	"=": types.KindEquality,
	"-": types.KindSubtract,
	"+": types.KindAdd,
	"/": types.KindDivide,
	"*": types.KindMultiply,
	"^": types.KindExponent,
}

var (
	errUnclosed       = errors.New("unclosed parenthesis")
	errTooManyClosing = errors.New("too many closing parentheses")
)

type parser struct {
	table    *vartable.Table
	resolver types.AnswerResolver
	maxDepth int
}

func (p *parser) run(text string) (*types.Node, error) {
	if p.table == nil {
		p.table = vartable.New()
	}
	if p.resolver == nil {
		p.resolver = types.NopResolver{}
	}
	cleaned := clean(text)
	if cleaned == "" {
		return nil, types.NewError(types.ErrEmptyExpression, "empty expression")
	}
	return p.parse(rewriteNegatives(cleaned), 0)
}

// clean strips the trailing comment and all whitespace.
func clean(text string) string {
	if i := strings.IndexByte(text, commentByte); i >= 0 {
		text = text[:i]
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text)
}

// rewriteNegatives replaces each minus sign in unary position (first
// character, or directly after another operator or an opening parenthesis)
// with the internal marker byte. The minus that opens the store operator is
// left alone.
func rewriteNegatives(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '-' && (i+1 >= len(s) || s[i+1] != '>') && unaryPosition(out) {
			out = append(out, negMarker[0])
			continue
		}
		out = append(out, c)
	}
	return string(out)
}

func unaryPosition(out []byte) bool {
	if len(out) == 0 {
		return true
	}
	switch out[len(out)-1] {
	case '=', '-', '+', '*', '/', '^', '(', '>', '$', negMarker[0]:
		return true
	}
	return false
}

// matchOutsideParens returns the index of the leftmost occurrence of op in
// s that lies outside balanced parentheses, or -1. Characters are only
// compared while the nesting depth is zero; unbalanced input is an error.
func matchOutsideParens(s, op string) (int, error) {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
			continue
		case ')':
			depth--
			if depth < 0 {
				return -1, errTooManyClosing
			}
			continue
		}
		if depth == 0 && strings.HasPrefix(s[i:], op) {
			return i, nil
		}
	}
	if depth > 0 {
		return -1, errUnclosed
	}
	return -1, nil
}

func (p *parser) parse(s string, depth int) (*types.Node, error) {
	if depth > p.maxDepth {
		return nil, types.NewError(types.ErrInvalidExpression, "expression nests too deeply").WithContext(s)
	}
	if s == "" {
		return nil, types.NewError(types.ErrIncompleteExpression, "missing operand")
	}
	for _, op := range opOrder {
		i, err := matchOutsideParens(s, op)
		if err != nil {
			return nil, types.NewError(types.ErrUnmatchedParenthesis, err.Error()).WithContext(s)
		}
		if i < 0 {
			continue
		}
		left, right := s[:i], s[i+len(op):]
		switch op {
		case opStore:
			return p.parseStore(s, left, right, depth)
		case negMarker:
			if left != "" || right == "" {
				return nil, incomplete(s)
			}
			child, err := p.parse(right, depth+1)
			if err != nil {
				return nil, err
			}
			return &types.Node{Kind: types.KindNegative, Left: child}, nil
		case opAnswer:
			if left != "" || right == "" {
				return nil, incomplete(s)
			}
			return p.parseAnswer(s, right)
		default:
			if left == "" || right == "" {
				return nil, incomplete(s)
			}
			l, err := p.parse(left, depth+1)
			if err != nil {
				return nil, err
			}
			r, err := p.parse(right, depth+1)
			if err != nil {
				return nil, err
			}
			return types.NewBinary(binaryKinds[op], l, r), nil
		}
	}
	return p.atom(s, depth)
}

func (p *parser) parseStore(s, left, right string, depth int) (*types.Node, error) {
	if left == "" || right == "" {
		return nil, incomplete(s)
	}
	// Storage targets are syntactic: a target containing operator
	// characters is a parse error, not a run-time one.
	if !validIdentifier(right) {
		return nil, types.NewError(types.ErrInvalidIdentifier, "store target must be a bare identifier").WithContext(right)
	}
	value, err := p.parse(left, depth+1)
	if err != nil {
		return nil, err
	}
	return &types.Node{Kind: types.KindStore, Name: right, Left: value}, nil
}

func (p *parser) parseAnswer(s, right string) (*types.Node, error) {
	back, err := strconv.ParseUint(right, 10, 32)
	if err != nil {
		return nil, types.NewError(types.ErrInvalidExpression, "answer reference needs an unsigned index").WithContext(s)
	}
	id, ok := p.resolver.ResolveByIndex(uint(back))
	if !ok {
		return nil, types.NewError(types.ErrUnknownAnswerIndex, "no answer that many lines back").WithContext(s)
	}
	return &types.Node{Kind: types.KindAnswer, Answer: id, Back: uint(back)}, nil
}

// atom classifies an operator-free fragment.
func (p *parser) atom(s string, depth int) (*types.Node, error) {
	c := s[0]
	switch {
	case c >= '0' && c <= '9':
		num, err := number.FromString(s)
		if err != nil {
			return nil, types.NewError(types.ErrMalformedNumber, "malformed numeric literal").WithContext(s).WithCause(err)
		}
		return types.NewNumber(num), nil
	case isLetter(c):
		entry, err := p.table.Get(s)
		if err != nil {
			return nil, types.NewError(types.ErrUnknownVariable, "unknown variable").WithContext(s)
		}
		// Snapshot the current binding so later renders and evaluations
		// stay stable even if the table changes.
		return &types.Node{Kind: types.KindVariable, Name: s, Snapshot: entry.Value.Clone()}, nil
	case c == '(':
		// Strip one pair; malformed nesting surfaces from the recursive
		// parse of the inner fragment.
		child, err := p.parse(s[1:len(s)-1], depth+1)
		if err != nil {
			return nil, err
		}
		return &types.Node{Kind: types.KindParen, Left: child}, nil
	}
	return nil, types.NewError(types.ErrInvalidExpression, "unrecognized expression").WithContext(s)
}

func incomplete(s string) *types.Error {
	return types.NewError(types.ErrIncompleteExpression, "operator is missing an operand").WithContext(strings.ReplaceAll(s, negMarker, "-"))
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func validIdentifier(s string) bool {
	if s == "" || !isLetter(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		c := s[i]
		if !isLetter(c) && !(c >= '0' && c <= '9') && c != '_' {
			return false
		}
	}
	return true
}
