package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/fortuna/courtside/internal/store"
)

// regularSeason is the season_type value of regular-season rows in seasons
const regularSeason = "regular"

// ErrGameLogNotSynced is returned for a player whose season game log was
// never written by a sync, as opposed to one who played no games.
var ErrGameLogNotSynced = errors.New("game log not synced")

// StatsRepository handles player game log data access
type StatsRepository struct {
	db *store.Database
}

// NewStatsRepository creates a new stats repository
func NewStatsRepository(db *store.Database) *StatsRepository {
	return &StatsRepository{db: db}
}

// GameLog returns a player's final regular-season games for the season,
// newest first. It satisfies the interpreter's game log provider contract.
func (r *StatsRepository) GameLog(ctx context.Context, player store.Player, season string) ([]store.GameRow, error) {
	playerID, err := strconv.Atoi(player.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid atlas player id %q: %w", player.ID, err)
	}

	if err := r.checkSynced(ctx, playerID, season); err != nil {
		if errors.Is(err, ErrGameLogNotSynced) {
			return nil, fmt.Errorf("%w for %s in %s (run courtside atlas sync-games)", err, player.FullName, season)
		}
		return nil, err
	}

	query := `
		SELECT
			g.external_id, g.game_date,
			team.abbreviation, opp.abbreviation,
			pgs.team_id = g.home_team_id AS is_home,
			pgs.points, pgs.rebounds, pgs.assists, pgs.steals, pgs.blocks, pgs.three_pointers_made
		FROM player_game_stats pgs
		JOIN games g ON pgs.game_id = g.game_id
		JOIN seasons s ON g.season_id = s.season_id
		JOIN teams team ON team.team_id = pgs.team_id
		JOIN teams opp ON opp.team_id = CASE WHEN pgs.team_id = g.home_team_id THEN g.away_team_id ELSE g.home_team_id END
		WHERE pgs.player_id = $1
		  AND s.season_year = $2
		  AND s.season_type = $3
		  AND g.status = 'final'
		ORDER BY g.game_date DESC
	`

	rows, err := r.db.DB().QueryContext(ctx, query, playerID, season, regularSeason)
	if err != nil {
		return nil, fmt.Errorf("querying game log: %w", err)
	}
	defer rows.Close()

	var games []store.GameRow
	for rows.Next() {
		var (
			game          store.GameRow
			teamAbbr, opp string
			isHome        bool
		)
		err := rows.Scan(
			&game.GameID, &game.GameDate, &teamAbbr, &opp, &isHome,
			&game.Points, &game.Rebounds, &game.Assists, &game.Steals, &game.Blocks,
			&game.ThreePointersMade,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning game log row: %w", err)
		}
		game.Matchup = store.Matchup(teamAbbr, opp, isHome)
		games = append(games, game)
	}

	return games, rows.Err()
}

func (r *StatsRepository) checkSynced(ctx context.Context, playerID int, season string) error {
	query := `
		SELECT 1
		FROM game_log_syncs gls
		JOIN seasons s ON gls.season_id = s.season_id
		WHERE gls.player_id = $1
		  AND s.season_year = $2
		  AND s.season_type = $3
	`

	var one int
	err := r.db.DB().QueryRowContext(ctx, query, playerID, season, regularSeason).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrGameLogNotSynced
	}
	if err != nil {
		return fmt.Errorf("checking game log sync: %w", err)
	}
	return nil
}

// UpsertGameStats writes one player's box score line for a game
func (r *StatsRepository) UpsertGameStats(ctx context.Context, gameID, playerID, teamID int, row store.GameRow) error {
	query := `
		INSERT INTO player_game_stats (game_id, player_id, team_id,
			points, rebounds, assists, steals, blocks, three_pointers_made)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (game_id, player_id) DO UPDATE SET
			team_id = EXCLUDED.team_id,
			points = EXCLUDED.points,
			rebounds = EXCLUDED.rebounds,
			assists = EXCLUDED.assists,
			steals = EXCLUDED.steals,
			blocks = EXCLUDED.blocks,
			three_pointers_made = EXCLUDED.three_pointers_made
	`

	_, err := r.db.DB().ExecContext(ctx, query,
		gameID, playerID, teamID,
		row.Points, row.Rebounds, row.Assists, row.Steals, row.Blocks, row.ThreePointersMade,
	)
	if err != nil {
		return fmt.Errorf("upserting stats of game %d: %w", gameID, err)
	}
	return nil
}

// MarkSynced records that a player's game log for the season is complete
func (r *StatsRepository) MarkSynced(ctx context.Context, playerID, seasonID, games int) error {
	query := `
		INSERT INTO game_log_syncs (player_id, season_id, games, synced_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (player_id, season_id) DO UPDATE SET
			games = EXCLUDED.games,
			synced_at = EXCLUDED.synced_at
	`

	if _, err := r.db.DB().ExecContext(ctx, query, playerID, seasonID, games); err != nil {
		return fmt.Errorf("marking game log synced: %w", err)
	}
	return nil
}
