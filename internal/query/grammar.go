package query

import (
	"errors"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/fortuna/courtside/internal/store"
)

// ErrGrammarMismatch is returned when a question does not have the shape
// "how many [home|away] games [in last N|this season] ... has <player> scored|made|had <clause>".
var ErrGrammarMismatch = errors.New("question does not match the expected grammar")

// Facets are the four parts a question is split into.
type Facets struct {
	// Location is empty when the question does not restrict home/away.
	Location store.Location `json:"location,omitempty"`
	// Window is the number of most recent games to consider; 0 means the whole season.
	Window        int    `json:"window,omitempty"`
	PlayerName    string `json:"player_name"`
	ConditionText string `json:"condition"`
}

var verbs = [...]string{"scored", "made", "had"}

// ParseQuestion splits a question into its facets. The grammar is searched
// for anywhere in the text and matched case-insensitively.
func ParseQuestion(question string) (Facets, error) {
	for i := range question {
		if facets, ok := questionAt(question, i); ok {
			return facets, nil
		}
	}
	return Facets{}, ErrGrammarMismatch
}

func questionAt(s string, i int) (Facets, bool) {
	var facets Facets

	if !wordBoundary(s, i) || !hasPrefixFold(s[i:], "how many ") {
		return facets, false
	}
	j := i + len("how many ")

	for _, loc := range [...]store.Location{store.LocationHome, store.LocationAway} {
		if hasPrefixFold(s[j:], string(loc)) {
			facets.Location = loc
			j += len(loc)
			break
		}
	}

	j = skipSpace(s, j)
	if !hasPrefixFold(s[j:], "games") {
		return facets, false
	}
	j = skipSpace(s, j+len("games"))

	if window, next, ok := windowAt(s, j); ok {
		facets.Window = window
		j = next
	} else if next, ok := thisSeasonAt(s, j); ok {
		j = next
	}

	// Lazily skip to each "has" on the current line and try the tail there
	for k := j; k < len(s) && s[k] != '\n'; k++ {
		if !hasPrefixFold(s[k:], "has") {
			continue
		}
		if name, clause, ok := tailAt(s, k+len("has")); ok {
			facets.PlayerName = name
			facets.ConditionText = clause
			return facets, true
		}
	}
	return facets, false
}

// windowAt matches `in\s+last\s+(\d+)\s*`.
func windowAt(s string, i int) (int, int, bool) {
	if !hasPrefixFold(s[i:], "in") {
		return 0, i, false
	}
	j, ok := requireSpace(s, i+len("in"))
	if !ok || !hasPrefixFold(s[j:], "last") {
		return 0, i, false
	}
	j, ok = requireSpace(s, j+len("last"))
	if !ok {
		return 0, i, false
	}
	end := skipDigits(s, j)
	if end == j {
		return 0, i, false
	}
	n, err := strconv.Atoi(s[j:end])
	if err != nil {
		return 0, i, false
	}
	return n, skipSpace(s, end), true
}

// thisSeasonAt matches `this\s+season`.
func thisSeasonAt(s string, i int) (int, bool) {
	if !hasPrefixFold(s[i:], "this") {
		return i, false
	}
	j, ok := requireSpace(s, i+len("this"))
	if !ok || !hasPrefixFold(s[j:], "season") {
		return i, false
	}
	return j + len("season"), true
}

// requireSpace matches `\s+` at i.
func requireSpace(s string, i int) (int, bool) {
	j := skipSpace(s, i)
	return j, j > i
}

// tailAt matches `\s+(name+?)\s+(scored|made|had)\s+(.+)` right after "has".
// The whitespace before the name is greedy and gives back runes only when the
// name cannot end otherwise; the name itself is the shortest span that works.
func tailAt(s string, i int) (string, string, bool) {
	wsEnd := skipSpace(s, i)
	for start := wsEnd; start > i; start = prevRune(s, start) {
		for end := start; end < len(s); {
			r, size := utf8.DecodeRuneInString(s[end:])
			if !isNameRune(r) {
				break
			}
			end += size
			if clause, ok := verbClauseAt(s, end); ok {
				return strings.TrimSpace(s[start:end]), clause, true
			}
		}
	}
	return "", "", false
}

// verbClauseAt matches `\s+(scored|made|had)\s+(.+)` and returns the trimmed clause.
func verbClauseAt(s string, i int) (string, bool) {
	j, ok := requireSpace(s, i)
	if !ok {
		return "", false
	}

	verbEnd := -1
	for _, v := range verbs {
		if hasPrefixFold(s[j:], v) {
			verbEnd = j + len(v)
			break
		}
	}
	if verbEnd < 0 {
		return "", false
	}

	// \s+ is greedy but must leave at least one non-newline rune for (.+)
	wsEnd := skipSpace(s, verbEnd)
	for start := wsEnd; start > verbEnd; start = prevRune(s, start) {
		if start < len(s) && s[start] != '\n' {
			clause := s[start:]
			if nl := strings.IndexByte(clause, '\n'); nl >= 0 {
				clause = clause[:nl]
			}
			return strings.TrimSpace(clause), true
		}
	}
	return "", false
}

func prevRune(s string, i int) int {
	_, size := utf8.DecodeLastRuneInString(s[:i])
	return i - size
}

// isNameRune accepts letters (accented ones included), combining marks,
// whitespace and hyphens.
func isNameRune(r rune) bool {
	return r == '-' || unicode.IsSpace(r) || unicode.IsLetter(r) || unicode.Is(unicode.Mn, r)
}
