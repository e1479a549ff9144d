package store

import (
	"fmt"
	"strings"
	"time"
)

// Player is an entry of the player directory. Resolution only ever reads it.
type Player struct {
	ID       string `json:"id" db:"player_id"`
	FullName string `json:"full_name" db:"full_name"`
}

// Stat identifies a per-game stat column
type Stat string

const (
	StatPoints            Stat = "PTS"
	StatRebounds          Stat = "REB"
	StatAssists           Stat = "AST"
	StatSteals            Stat = "STL"
	StatBlocks            Stat = "BLK"
	StatThreePointersMade Stat = "FG3M"
)

// Location is where a game was played from the player's point of view
type Location string

const (
	LocationHome Location = "home"
	LocationAway Location = "away"
)

// homeMarker appears in a matchup descriptor only for home games ("GSW vs. LAL").
// Away games use "@" ("GSW @ LAL").
const homeMarker = "vs."

// GameRow is one regular-season game of a player's game log
type GameRow struct {
	GameID            string    `json:"game_id" db:"external_id"`
	GameDate          time.Time `json:"game_date" db:"game_date"`
	Matchup           string    `json:"matchup"`
	Points            int       `json:"points" db:"points"`
	Rebounds          int       `json:"rebounds" db:"rebounds"`
	Assists           int       `json:"assists" db:"assists"`
	Steals            int       `json:"steals" db:"steals"`
	Blocks            int       `json:"blocks" db:"blocks"`
	ThreePointersMade int       `json:"three_pointers_made" db:"three_pointers_made"`
}

// Location derives home/away from the matchup descriptor.
func (g GameRow) Location() Location {
	if strings.Contains(g.Matchup, homeMarker) {
		return LocationHome
	}
	return LocationAway
}

// Value returns the value of the given stat column for this game.
func (g GameRow) Value(stat Stat) (int, error) {
	switch stat {
	case StatPoints:
		return g.Points, nil
	case StatRebounds:
		return g.Rebounds, nil
	case StatAssists:
		return g.Assists, nil
	case StatSteals:
		return g.Steals, nil
	case StatBlocks:
		return g.Blocks, nil
	case StatThreePointersMade:
		return g.ThreePointersMade, nil
	}
	return 0, fmt.Errorf("unknown stat column %q", string(stat))
}

// Matchup builds a matchup descriptor in the stats.nba.com format.
func Matchup(team, opponent string, isHome bool) string {
	if isHome {
		return fmt.Sprintf("%s %s %s", team, homeMarker, opponent)
	}
	return fmt.Sprintf("%s @ %s", team, opponent)
}

// ParseMatchup splits a stats.nba.com matchup ("GSW vs. LAL" or "GSW @ LAL")
// into the player's team, the opponent and whether the player was at home.
func ParseMatchup(matchup string) (team, opponent string, isHome bool, err error) {
	for _, sep := range []string{" " + homeMarker + " ", " @ "} {
		t, o, ok := strings.Cut(matchup, sep)
		if !ok {
			continue
		}
		t, o = strings.TrimSpace(t), strings.TrimSpace(o)
		if t == "" || o == "" {
			break
		}
		return t, o, sep != " @ ", nil
	}
	return "", "", false, fmt.Errorf("invalid matchup %q", matchup)
}

// Game is a row of the Atlas games table
type Game struct {
	GameID     int       `db:"game_id"`
	SeasonID   int       `db:"season_id"`
	ExternalID string    `db:"external_id"`
	GameDate   time.Time `db:"game_date"`
	HomeTeamID int       `db:"home_team_id"`
	AwayTeamID int       `db:"away_team_id"`
	Status     string    `db:"status"`
}

// GameStatusFinal marks a completed game
const GameStatusFinal = "final"
