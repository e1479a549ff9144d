package bbref

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/fortuna/courtside/internal/store"
)

// The game log table and its cells were renamed in the 2024 site redesign;
// both generations are accepted.
const gameLogTables = "table#player_game_log_reg, table#pgl_basic"

var statAliases = map[string][]string{
	"date":     {"date", "date_game"},
	"team":     {"team_name_abbr", "team_id"},
	"opponent": {"opp_name_abbr", "opp_id"},
	"location": {"game_location"},
	"pts":      {"pts"},
	"trb":      {"trb"},
	"ast":      {"ast"},
	"stl":      {"stl"},
	"blk":      {"blk"},
	"fg3":      {"fg3"},
}

// teamAbbreviations maps Basketball-Reference team codes that differ from
// the stats.nba.com ones.
var teamAbbreviations = map[string]string{
	"BRK": "BKN",
	"CHO": "CHA",
	"PHO": "PHX",
}

// ParseGameLog extracts the regular-season games of a game log page, newest
// first. Rows of games the player did not play in are skipped.
func ParseGameLog(doc *goquery.Document) ([]store.GameRow, error) {
	table := doc.Find(gameLogTables).First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("game log table not found")
	}

	var (
		games    []store.GameRow
		parseErr error
	)
	table.Find("tbody tr").EachWithBreak(func(i int, row *goquery.Selection) bool {
		if row.HasClass("thead") || row.HasClass("spacer") {
			return true
		}
		game, ok, err := parseRow(row)
		if err != nil {
			parseErr = fmt.Errorf("row %d: %w", i, err)
			return false
		}
		if ok {
			games = append(games, game)
		}
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	sort.SliceStable(games, func(i, j int) bool {
		return games[i].GameDate.After(games[j].GameDate)
	})
	return games, nil
}

func parseRow(row *goquery.Selection) (store.GameRow, bool, error) {
	var g store.GameRow

	// Inactive and DNP rows have no box score
	if cell(row, "pts") == "" {
		return g, false, nil
	}

	dateCell, ok := cellSelection(row, "date")
	if !ok {
		return g, false, fmt.Errorf("no date cell")
	}
	date, err := time.Parse("2006-01-02", strings.TrimSpace(dateCell.Text()))
	if err != nil {
		return g, false, fmt.Errorf("invalid game date: %w", err)
	}
	g.GameDate = date
	g.GameID = boxScoreID(dateCell)
	if g.GameID == "" {
		g.GameID = date.Format("20060102") + cell(row, "team")
	}

	isHome := cell(row, "location") != "@"
	g.Matchup = store.Matchup(teamCode(cell(row, "team")), teamCode(cell(row, "opponent")), isHome)

	counts := []struct {
		stat string
		dst  *int
	}{
		{"pts", &g.Points},
		{"trb", &g.Rebounds},
		{"ast", &g.Assists},
		{"stl", &g.Steals},
		{"blk", &g.Blocks},
		{"fg3", &g.ThreePointersMade},
	}
	for _, c := range counts {
		v := cell(row, c.stat)
		if v == "" {
			*c.dst = 0
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return g, false, fmt.Errorf("column %s: %w", c.stat, err)
		}
		*c.dst = n
	}
	return g, true, nil
}

func cellSelection(row *goquery.Selection, stat string) (*goquery.Selection, bool) {
	for _, name := range statAliases[stat] {
		if s := row.Find(fmt.Sprintf(`[data-stat="%s"]`, name)); s.Length() > 0 {
			return s.First(), true
		}
	}
	return nil, false
}

func cell(row *goquery.Selection, stat string) string {
	s, ok := cellSelection(row, stat)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s.Text())
}

// boxScoreID reads "202504130GSW" from a /boxscores/202504130GSW.html link.
func boxScoreID(s *goquery.Selection) string {
	href, ok := s.Find("a").Attr("href")
	if !ok || !strings.Contains(href, "/boxscores/") {
		return ""
	}
	id := href[strings.LastIndex(href, "/")+1:]
	return strings.TrimSuffix(id, ".html")
}

func teamCode(code string) string {
	if nba, ok := teamAbbreviations[code]; ok {
		return nba
	}
	return code
}

// ParseHTML converts raw HTML to a goquery Document for parsing
func ParseHTML(htmlContent string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}
