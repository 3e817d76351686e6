package types

import "github.com/google/uuid"

// AnswerID is the opaque 128-bit identifier of a previously computed answer.
// The core never inspects it; resolution is delegated to the collaborator
// implementing AnswerResolver.
type AnswerID = uuid.UUID

// AnswerResolver is the capability through which the core reaches prior
// answers. It is threaded explicitly through parse and evaluation calls
// rather than stored, keeping the history dependency narrow and mockable.
type AnswerResolver interface {
	// ResolveByIndex maps a "lines back" index (1 is the most recent
	// answer) to an answer id. Used only while parsing an answer-reference
	// marker.
	ResolveByIndex(back uint) (AnswerID, bool)

	// ResolveExpression returns the expression recorded under id, with any
	// outer equality wrapper already stripped to its reduced side. Used
	// only while evaluating an answer-reference node.
	ResolveExpression(id AnswerID) (*Node, bool)
}

// NopResolver is an AnswerResolver that resolves nothing. It serves callers
// that evaluate expressions outside any session history.
type NopResolver struct{}

// ResolveByIndex always reports no answer.
func (NopResolver) ResolveByIndex(uint) (AnswerID, bool) { return AnswerID{}, false }

// ResolveExpression always reports no answer.
func (NopResolver) ResolveExpression(AnswerID) (*Node, bool) { return nil, false }
