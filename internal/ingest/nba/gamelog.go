package nba

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/fortuna/courtside/internal/store"
)

// GameDateLayout is the GAME_DATE format of playergamelog ("APR 13, 2025").
const GameDateLayout = "Jan 2, 2006"

var gameLogColumns = []string{"Game_ID", "GAME_DATE", "MATCHUP", "PTS", "REB", "AST", "STL", "BLK", "FG3M"}

// GameLog fetches a player's regular-season game log, newest game first.
func (c *Client) GameLog(ctx context.Context, player store.Player, season string) ([]store.GameRow, error) {
	params := url.Values{}
	params.Set("PlayerID", player.ID)
	params.Set("Season", season)
	params.Set("SeasonType", SeasonTypeRegular)
	params.Set("LeagueID", "00")

	resp, err := c.fetch(ctx, "playergamelog", params)
	if err != nil {
		return nil, err
	}

	games, err := parseGameLog(resp)
	if err != nil {
		return nil, fmt.Errorf("parsing game log of %s: %w", player.FullName, err)
	}

	c.logger.Debug("fetched game log", "player", player.FullName, "season", season, "games", len(games))
	return games, nil
}

func parseGameLog(resp *response) ([]store.GameRow, error) {
	t, err := resp.table("PlayerGameLog")
	if err != nil {
		return nil, err
	}
	if err := t.require(gameLogColumns...); err != nil {
		return nil, err
	}

	games := make([]store.GameRow, 0, t.rows())
	for i := 0; i < t.rows(); i++ {
		g, err := parseGameRow(t, i)
		if err != nil {
			return nil, err
		}
		games = append(games, g)
	}

	sort.SliceStable(games, func(i, j int) bool {
		return games[i].GameDate.After(games[j].GameDate)
	})
	return games, nil
}

func parseGameRow(t *table, i int) (store.GameRow, error) {
	var (
		g   store.GameRow
		err error
	)

	if g.GameID, err = t.str(i, "Game_ID"); err != nil {
		return g, err
	}
	date, err := t.str(i, "GAME_DATE")
	if err != nil {
		return g, err
	}
	if g.GameDate, err = parseGameDate(date); err != nil {
		return g, fmt.Errorf("row %d: %w", i, err)
	}
	if g.Matchup, err = t.str(i, "MATCHUP"); err != nil {
		return g, err
	}

	counts := []struct {
		column string
		dst    *int
	}{
		{"PTS", &g.Points},
		{"REB", &g.Rebounds},
		{"AST", &g.Assists},
		{"STL", &g.Steals},
		{"BLK", &g.Blocks},
		{"FG3M", &g.ThreePointersMade},
	}
	for _, c := range counts {
		if *c.dst, err = t.int(i, c.column); err != nil {
			return g, err
		}
	}
	return g, nil
}

// parseGameDate accepts both "APR 13, 2025" and "Apr 13, 2025".
func parseGameDate(s string) (time.Time, error) {
	d, err := time.Parse(GameDateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid game date %q: %w", s, err)
	}
	return d, nil
}
