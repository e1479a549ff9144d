package query

import "github.com/fortuna/courtside/internal/store"

// statPhrase maps a stat phrase of a condition clause to its column.
type statPhrase struct {
	phrase string
	stat   store.Stat
}

// statVocabulary is matched in this order at each scan position.
var statVocabulary = [...]statPhrase{
	{"three pointers", store.StatThreePointersMade},
	{"points", store.StatPoints},
	{"rebounds", store.StatRebounds},
	{"assists", store.StatAssists},
	{"steals", store.StatSteals},
	{"blocks", store.StatBlocks},
}

// matchStat returns the stat whose phrase starts s (ASCII case-insensitive)
// and the phrase length.
func matchStat(s string) (store.Stat, int, bool) {
	for _, v := range statVocabulary {
		if hasPrefixFold(s, v.phrase) {
			return v.stat, len(v.phrase), true
		}
	}
	return "", 0, false
}

// StatPhrase returns the vocabulary phrase of a stat column ("FG3M" -> "three pointers").
func StatPhrase(stat store.Stat) string {
	for _, v := range statVocabulary {
		if v.stat == stat {
			return v.phrase
		}
	}
	return string(stat)
}
