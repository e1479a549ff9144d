package query

import (
	"errors"
	"fmt"
)

// UsageHint is the answer to a question that does not match the grammar.
const UsageHint = "Try: 'How many away games in last 20 has Giannis Antetokounmpo scored 30+ points?'"

// ConditionError reports a condition clause that could not be parsed.
type ConditionError struct {
	Clause string
}

func (e *ConditionError) Error() string {
	return fmt.Sprintf("Couldn't understand: %s", e.Clause)
}

// PlayerNotFoundError reports a name no directory entry matches.
type PlayerNotFoundError struct {
	Name string
}

func (e *PlayerNotFoundError) Error() string {
	return fmt.Sprintf("Player '%s' not found", e.Name)
}

// Kind classifies the outcome of a question for API callers.
type Kind string

const (
	KindAnswered       Kind = "answered"
	KindUsage          Kind = "usage"
	KindBadCondition   Kind = "bad_condition"
	KindPlayerNotFound Kind = "player_not_found"
	KindError          Kind = "error"
)

// Describe maps an Evaluate error to its kind and the message shown to the user.
func Describe(err error) (Kind, string) {
	var (
		condErr   *ConditionError
		playerErr *PlayerNotFoundError
	)
	switch {
	case err == nil:
		return KindAnswered, ""
	case errors.Is(err, ErrGrammarMismatch):
		return KindUsage, UsageHint
	case errors.As(err, &condErr):
		return KindBadCondition, condErr.Error()
	case errors.As(err, &playerErr):
		return KindPlayerNotFound, playerErr.Error()
	default:
		return KindError, "Error: " + err.Error()
	}
}
