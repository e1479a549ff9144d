package nba

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/fortuna/courtside/internal/store"
)

// AllPlayers lists every player in league history, in the order the
// commonallplayers endpoint returns them.
func (c *Client) AllPlayers(ctx context.Context, season string) ([]store.Player, error) {
	return c.listPlayers(ctx, season, false)
}

// ActivePlayers lists the players on a roster during the season.
func (c *Client) ActivePlayers(ctx context.Context, season string) ([]store.Player, error) {
	return c.listPlayers(ctx, season, true)
}

func (c *Client) listPlayers(ctx context.Context, season string, onlyCurrent bool) ([]store.Player, error) {
	params := url.Values{}
	params.Set("LeagueID", "00")
	params.Set("Season", season)
	params.Set("IsOnlyCurrentSeason", "0")
	if onlyCurrent {
		params.Set("IsOnlyCurrentSeason", "1")
	}

	resp, err := c.fetch(ctx, "commonallplayers", params)
	if err != nil {
		return nil, err
	}

	t, err := resp.table("CommonAllPlayers")
	if err != nil {
		return nil, err
	}
	if err := t.require("PERSON_ID", "DISPLAY_FIRST_LAST"); err != nil {
		return nil, err
	}

	players := make([]store.Player, 0, t.rows())
	for i := 0; i < t.rows(); i++ {
		id, err := t.str(i, "PERSON_ID")
		if err != nil {
			return nil, err
		}
		name, err := t.str(i, "DISPLAY_FIRST_LAST")
		if err != nil {
			return nil, err
		}
		name = strings.TrimSpace(name)
		if id == "" || name == "" {
			continue
		}
		players = append(players, store.Player{ID: id, FullName: name})
	}

	if len(players) == 0 {
		return nil, fmt.Errorf("commonallplayers returned no players")
	}

	c.logger.Info("loaded player list", "source", "nba", "players", len(players), "only_current", onlyCurrent)
	return players, nil
}
