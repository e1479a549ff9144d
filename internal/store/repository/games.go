package repository

import (
	"context"
	"fmt"

	"github.com/fortuna/courtside/internal/store"
)

// GameRepository handles game data access
type GameRepository struct {
	db *store.Database
}

// NewGameRepository creates a new game repository
func NewGameRepository(db *store.Database) *GameRepository {
	return &GameRepository{db: db}
}

// Upsert inserts or updates a game keyed by external ID and sets game.GameID
func (r *GameRepository) Upsert(ctx context.Context, game *store.Game) error {
	query := `
		INSERT INTO games (sport, season_id, external_id, game_date,
			home_team_id, away_team_id, status)
		VALUES ('basketball_nba', $1, $2, $3, $4, $5, $6)
		ON CONFLICT (sport, external_id) DO UPDATE SET
			season_id = EXCLUDED.season_id,
			game_date = EXCLUDED.game_date,
			home_team_id = EXCLUDED.home_team_id,
			away_team_id = EXCLUDED.away_team_id,
			status = EXCLUDED.status
		RETURNING game_id
	`

	err := r.db.DB().QueryRowContext(ctx, query,
		game.SeasonID, game.ExternalID, game.GameDate,
		game.HomeTeamID, game.AwayTeamID, game.Status,
	).Scan(&game.GameID)

	if err != nil {
		return fmt.Errorf("upserting game %s: %w", game.ExternalID, err)
	}

	return nil
}
