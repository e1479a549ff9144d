package bbref

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortuna/courtside/internal/store"
)

const gameLogPage = `<html><body>
<table id="player_game_log_reg">
<thead><tr><th data-stat="ranker">Rk</th><th data-stat="date">Date</th></tr></thead>
<tbody>
<tr>
  <th data-stat="ranker">1</th>
  <td data-stat="date"><a href="/boxscores/202410230POR.html">2024-10-23</a></td>
  <td data-stat="team_name_abbr">GSW</td>
  <td data-stat="game_location">@</td>
  <td data-stat="opp_name_abbr">POR</td>
  <td data-stat="fg3">1</td><td data-stat="trb">3</td><td data-stat="ast">7</td>
  <td data-stat="stl">1</td><td data-stat="blk">0</td><td data-stat="pts">17</td>
</tr>
<tr class="thead"><th data-stat="ranker">Rk</th></tr>
<tr>
  <th data-stat="ranker">2</th>
  <td data-stat="date"><a href="/boxscores/202410270GSW.html">2024-10-27</a></td>
  <td data-stat="team_name_abbr">GSW</td>
  <td data-stat="game_location"></td>
  <td data-stat="opp_name_abbr">LAC</td>
  <td data-stat="reason">Inactive</td>
</tr>
<tr>
  <th data-stat="ranker">3</th>
  <td data-stat="date"><a href="/boxscores/202410300GSW.html">2024-10-30</a></td>
  <td data-stat="team_name_abbr">GSW</td>
  <td data-stat="game_location"></td>
  <td data-stat="opp_name_abbr">PHO</td>
  <td data-stat="fg3">8</td><td data-stat="trb">5</td><td data-stat="ast">4</td>
  <td data-stat="stl">2</td><td data-stat="blk"></td><td data-stat="pts">38</td>
</tr>
</tbody>
</table>
</body></html>`

const legacyGameLogPage = `<html><body>
<table id="pgl_basic"><tbody>
<tr>
  <td data-stat="date_game"><a href="/boxscores/202104010GSW.html">2021-04-01</a></td>
  <td data-stat="team_id">GSW</td>
  <td data-stat="game_location"></td>
  <td data-stat="opp_id">BRK</td>
  <td data-stat="fg3">5</td><td data-stat="trb">6</td><td data-stat="ast">4</td>
  <td data-stat="stl">1</td><td data-stat="blk">0</td><td data-stat="pts">31</td>
</tr>
</tbody></table>
</body></html>`

func TestParseGameLog(t *testing.T) {
	doc, err := ParseHTML(gameLogPage)
	require.NoError(t, err)

	games, err := ParseGameLog(doc)
	require.NoError(t, err)
	require.Len(t, games, 2)

	newest := games[0]
	assert.Equal(t, "202410300GSW", newest.GameID)
	assert.Equal(t, time.Date(2024, time.October, 30, 0, 0, 0, 0, time.UTC), newest.GameDate)
	assert.Equal(t, "GSW vs. PHX", newest.Matchup)
	assert.Equal(t, store.LocationHome, newest.Location())
	assert.Equal(t, 38, newest.Points)
	assert.Equal(t, 8, newest.ThreePointersMade)
	assert.Equal(t, 5, newest.Rebounds)
	assert.Equal(t, 4, newest.Assists)
	assert.Equal(t, 2, newest.Steals)
	assert.Equal(t, 0, newest.Blocks)

	oldest := games[1]
	assert.Equal(t, "GSW @ POR", oldest.Matchup)
	assert.Equal(t, store.LocationAway, oldest.Location())
	assert.Equal(t, 17, oldest.Points)
}

func TestParseGameLogLegacyTable(t *testing.T) {
	doc, err := ParseHTML(legacyGameLogPage)
	require.NoError(t, err)

	games, err := ParseGameLog(doc)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "GSW vs. BKN", games[0].Matchup)
	assert.Equal(t, 31, games[0].Points)
}

func TestParseGameLogMissingTable(t *testing.T) {
	doc, err := ParseHTML(`<html><body><p>Page not found</p></body></html>`)
	require.NoError(t, err)

	_, err = ParseGameLog(doc)
	assert.Error(t, err)
}

func TestParseGameLogBadNumber(t *testing.T) {
	doc, err := ParseHTML(`<table id="pgl_basic"><tbody><tr>
		<td data-stat="date_game">2021-04-01</td><td data-stat="pts">thirty</td>
	</tr></tbody></table>`)
	require.NoError(t, err)

	_, err = ParseGameLog(doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pts")
}
