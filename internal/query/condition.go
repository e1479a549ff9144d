package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fortuna/courtside/internal/store"
)

// Comparator is the relation a stat value must have with the threshold.
type Comparator int

const (
	GTE Comparator = iota
	LTE
	GT
	LT
	EQ
)

// Apply evaluates lhs <comparator> rhs.
func (c Comparator) Apply(lhs, rhs int) bool {
	switch c {
	case GTE:
		return lhs >= rhs
	case LTE:
		return lhs <= rhs
	case GT:
		return lhs > rhs
	case LT:
		return lhs < rhs
	case EQ:
		return lhs == rhs
	}
	return false
}

func (c Comparator) String() string {
	switch c {
	case GTE:
		return ">="
	case LTE:
		return "<="
	case GT:
		return ">"
	case LT:
		return "<"
	case EQ:
		return "="
	}
	return "?"
}

// MarshalText renders the comparator symbol in JSON responses.
func (c Comparator) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// comparatorTokens are tried longest first at each scan position. "+" is the
// inclusive marker that "at least" is rewritten to.
var comparatorTokens = [...]struct {
	token      string
	comparator Comparator
}{
	{">=", GTE},
	{"<=", LTE},
	{">", GT},
	{"<", LT},
	{"=", EQ},
	{"+", GTE},
}

// synonyms are rewritten, in order, before scanning. Only the lowercase
// phrases are rewritten; "Less than 5" keeps the default comparator.
var synonyms = [...]struct{ phrase, token string }{
	{"less than", "<"},
	{"fewer than", "<"},
	{"at least", "+"},
}

// Condition is a parsed stat predicate such as "30+ points".
type Condition struct {
	Comparator Comparator `json:"comparator"`
	Threshold  int        `json:"threshold"`
	Stat       store.Stat `json:"stat"`
}

// Matches reports whether the game satisfies the condition.
func (c Condition) Matches(game store.GameRow) (bool, error) {
	value, err := game.Value(c.Stat)
	if err != nil {
		return false, err
	}
	return c.Comparator.Apply(value, c.Threshold), nil
}

func (c Condition) String() string {
	return fmt.Sprintf("%s %d %s", c.Comparator, c.Threshold, StatPhrase(c.Stat))
}

// ParseCondition extracts the first "<op> N [+] <stat>" pattern from text.
//
// The comparator is the explicit leading token when there is one, otherwise a
// trailing "+" or, failing both, >=. A clause like "scored 30 points" therefore
// means at least 30; strict equality has to be written "=30".
func ParseCondition(text string) (Condition, bool) {
	for _, syn := range synonyms {
		text = strings.ReplaceAll(text, syn.phrase, syn.token)
	}

	for i := range text {
		m, ok := conditionAt(text, i)
		if !ok {
			continue
		}
		threshold, err := strconv.Atoi(m.digits)
		if err != nil {
			return Condition{}, false
		}
		return Condition{Comparator: m.comparator, Threshold: threshold, Stat: m.stat}, true
	}
	return Condition{}, false
}

type conditionMatch struct {
	comparator Comparator
	digits     string
	stat       store.Stat
}

// conditionAt tries to match the condition pattern starting exactly at i.
func conditionAt(s string, i int) (conditionMatch, bool) {
	for _, ct := range comparatorTokens {
		if hasPrefixFold(s[i:], ct.token) {
			if m, ok := conditionFrom(s, i+len(ct.token)); ok {
				m.comparator = ct.comparator
				return m, true
			}
		}
	}
	// No leading comparator; a trailing "+" or the default decides
	return conditionFrom(s, i)
}

// conditionFrom matches `\s* N \s* [+] \s* stat` at i. The comparator is GTE
// whether or not the trailing marker is present.
func conditionFrom(s string, i int) (conditionMatch, bool) {
	start := skipSpace(s, i)
	end := skipDigits(s, start)
	if end == start {
		return conditionMatch{}, false
	}

	j := skipSpace(s, end)
	if j < len(s) && s[j] == '+' {
		j = skipSpace(s, j+1)
	}

	stat, _, ok := matchStat(s[j:])
	if !ok {
		return conditionMatch{}, false
	}
	return conditionMatch{comparator: GTE, digits: s[start:end], stat: stat}, true
}
