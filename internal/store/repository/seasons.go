package repository

import (
	"context"
	"fmt"

	"github.com/fortuna/courtside/internal/store"
)

// SeasonRepository handles season data access
type SeasonRepository struct {
	db *store.Database
}

// NewSeasonRepository creates a new season repository
func NewSeasonRepository(db *store.Database) *SeasonRepository {
	return &SeasonRepository{db: db}
}

// UpsertRegular returns the ID of the regular season for seasonYear ("2024-25"),
// creating the row when needed.
func (r *SeasonRepository) UpsertRegular(ctx context.Context, seasonYear string) (int, error) {
	query := `
		INSERT INTO seasons (sport, season_year, season_type)
		VALUES ('basketball_nba', $1, $2)
		ON CONFLICT (sport, season_year, season_type) DO UPDATE SET
			season_year = EXCLUDED.season_year
		RETURNING season_id
	`

	var seasonID int
	if err := r.db.DB().QueryRowContext(ctx, query, seasonYear, regularSeason).Scan(&seasonID); err != nil {
		return 0, fmt.Errorf("upserting season %s: %w", seasonYear, err)
	}

	return seasonID, nil
}
