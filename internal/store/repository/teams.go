package repository

import (
	"context"
	"fmt"

	"github.com/fortuna/courtside/internal/store"
)

// TeamRepository handles team data access
type TeamRepository struct {
	db *store.Database
}

// NewTeamRepository creates a new team repository
func NewTeamRepository(db *store.Database) *TeamRepository {
	return &TeamRepository{db: db}
}

// UpsertByAbbreviation returns the ID of the team with the given tricode.
// Game logs only carry tricodes, so the tricode doubles as external ID and
// name until a richer source fills them in.
func (r *TeamRepository) UpsertByAbbreviation(ctx context.Context, abbreviation string) (int, error) {
	query := `
		INSERT INTO teams (sport, external_id, abbreviation, full_name)
		VALUES ('basketball_nba', $1, $1, $1)
		ON CONFLICT (sport, external_id) DO UPDATE SET
			abbreviation = EXCLUDED.abbreviation
		RETURNING team_id
	`

	var teamID int
	if err := r.db.DB().QueryRowContext(ctx, query, abbreviation).Scan(&teamID); err != nil {
		return 0, fmt.Errorf("upserting team %s: %w", abbreviation, err)
	}

	return teamID, nil
}
