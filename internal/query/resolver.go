package query

import (
	"strings"

	"github.com/fortuna/courtside/internal/store"
)

// nicknames are substituted for the whole (lowercased, trimmed) name before lookup.
var nicknames = map[string]string{
	"kd":     "kevin durant",
	"steph":  "stephen curry",
	"lebron": "lebron james",
	"jokic":  "nikola jokić",
	"luka":   "luka doncic",
}

// ResolvePlayer finds the directory entry a free-text name refers to.
//
// Entries are checked in directory order and the first one that satisfies any
// rule wins: exact (case-insensitive) equality, the entry's name containing the
// text, or equality once both sides are reduced to letters and digits with
// diacritics removed. Containment is one way only, so "curry" finds
// "Stephen Curry" but "stephen curry jr" finds nothing.
func ResolvePlayer(name string, directory []store.Player) (store.Player, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if full, ok := nicknames[name]; ok {
		name = full
	}
	if name == "" {
		return store.Player{}, false
	}

	compact := store.CompactName(name)
	for _, p := range directory {
		fullName := strings.ToLower(p.FullName)
		if name == fullName ||
			strings.Contains(fullName, name) ||
			(compact != "" && compact == store.CompactName(fullName)) {
			return p, true
		}
	}
	return store.Player{}, false
}
