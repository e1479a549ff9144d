package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortuna/courtside/internal/store"
)

func TestParseQuestionFullForm(t *testing.T) {
	facets, err := ParseQuestion("How many away games in last 20 has Giannis Antetokounmpo scored 30+ points?")
	require.NoError(t, err)
	assert.Equal(t, Facets{
		Location:      store.LocationAway,
		Window:        20,
		PlayerName:    "Giannis Antetokounmpo",
		ConditionText: "30+ points?",
	}, facets)
}

func TestParseQuestionThisSeason(t *testing.T) {
	facets, err := ParseQuestion("How many home games this season has Stephen Curry made <5 three pointers")
	require.NoError(t, err)
	assert.Equal(t, store.LocationHome, facets.Location)
	assert.Equal(t, 0, facets.Window)
	assert.Equal(t, "Stephen Curry", facets.PlayerName)
	assert.Equal(t, "<5 three pointers", facets.ConditionText)
}

func TestParseQuestionNoQualifiers(t *testing.T) {
	facets, err := ParseQuestion("How many games has Luka made >=9 assists")
	require.NoError(t, err)
	assert.Equal(t, store.Location(""), facets.Location)
	assert.Equal(t, 0, facets.Window)
	assert.Equal(t, "Luka", facets.PlayerName)
	assert.Equal(t, ">=9 assists", facets.ConditionText)
}

func TestParseQuestionCaseInsensitive(t *testing.T) {
	facets, err := ParseQuestion("HOW MANY AWAY GAMES IN LAST 5 HAS KD HAD 10 REBOUNDS")
	require.NoError(t, err)
	assert.Equal(t, store.LocationAway, facets.Location)
	assert.Equal(t, 5, facets.Window)
	assert.Equal(t, "KD", facets.PlayerName)
	assert.Equal(t, "10 REBOUNDS", facets.ConditionText)
}

func TestParseQuestionEmbeddedInText(t *testing.T) {
	facets, err := ParseQuestion("Quick one: how many games in last 10 has Nikola Jokić had 10+ assists")
	require.NoError(t, err)
	assert.Equal(t, 10, facets.Window)
	assert.Equal(t, "Nikola Jokić", facets.PlayerName)
}

func TestParseQuestionHyphenatedName(t *testing.T) {
	facets, err := ParseQuestion("how many games has Shai Gilgeous-Alexander scored 35 points")
	require.NoError(t, err)
	assert.Equal(t, "Shai Gilgeous-Alexander", facets.PlayerName)
	assert.Equal(t, "35 points", facets.ConditionText)
}

func TestParseQuestionSkipsFillerBeforeHas(t *testing.T) {
	facets, err := ParseQuestion("how many games in last 15 so far has Kevin Durant scored 25+ points")
	require.NoError(t, err)
	assert.Equal(t, 15, facets.Window)
	assert.Equal(t, "Kevin Durant", facets.PlayerName)
}

func TestParseQuestionShortestName(t *testing.T) {
	// The name stops at the first verb that leaves a clause behind
	facets, err := ParseQuestion("how many games has Curry made made 5 three pointers")
	require.NoError(t, err)
	assert.Equal(t, "Curry", facets.PlayerName)
	assert.Equal(t, "made 5 three pointers", facets.ConditionText)
}

func TestParseQuestionMismatch(t *testing.T) {
	for _, q := range []string{
		"blah blah",
		"",
		"how many games has",
		"how many games has Stephen Curry",
		"how many games has Stephen Curry scored",
		"how many games has 42 scored 30 points",
		"showhow many games has Curry scored 30 points",
		"how many matches has Curry scored 30 points",
	} {
		_, err := ParseQuestion(q)
		assert.ErrorIs(t, err, ErrGrammarMismatch, q)
	}
}

func TestParseQuestionWindowZeroMeansSeason(t *testing.T) {
	facets, err := ParseQuestion("how many games in last 0 has Curry scored 30 points")
	require.NoError(t, err)
	assert.Equal(t, 0, facets.Window)
}
