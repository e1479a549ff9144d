package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/fortuna/courtside/internal/store"
)

// PlayerRepository handles player data access
type PlayerRepository struct {
	db *store.Database
}

// NewPlayerRepository creates a new player repository
func NewPlayerRepository(db *store.Database) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// GetAll returns every NBA player ordered by player_id. The order is the
// directory iteration order used by name resolution.
func (r *PlayerRepository) GetAll(ctx context.Context) ([]store.Player, error) {
	query := `
		SELECT player_id, full_name
		FROM players
		WHERE sport = 'basketball_nba'
		ORDER BY player_id
	`

	rows, err := r.db.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying players: %w", err)
	}
	defer rows.Close()

	return r.scanPlayers(rows)
}

// Upsert inserts or updates a player keyed by external ID and returns its Atlas ID
func (r *PlayerRepository) Upsert(ctx context.Context, externalID, fullName string) (string, error) {
	query := `
		INSERT INTO players (sport, external_id, full_name)
		VALUES ('basketball_nba', $1, $2)
		ON CONFLICT (sport, external_id) DO UPDATE SET
			full_name = EXCLUDED.full_name
		RETURNING player_id
	`

	var playerID int
	if err := r.db.DB().QueryRowContext(ctx, query, externalID, fullName).Scan(&playerID); err != nil {
		return "", fmt.Errorf("upserting player: %w", err)
	}

	return strconv.Itoa(playerID), nil
}

// ExternalID returns the stats.nba.com person ID of an Atlas player
func (r *PlayerRepository) ExternalID(ctx context.Context, atlasID string) (string, error) {
	query := `
		SELECT COALESCE(external_id, '')
		FROM players
		WHERE sport = 'basketball_nba' AND player_id = $1
	`

	var externalID string
	if err := r.db.DB().QueryRowContext(ctx, query, atlasID).Scan(&externalID); err != nil {
		return "", fmt.Errorf("looking up external id of player %s: %w", atlasID, err)
	}
	if externalID == "" {
		return "", fmt.Errorf("player %s has no external id", atlasID)
	}

	return externalID, nil
}

// scanPlayers is a helper to scan multiple player rows
func (r *PlayerRepository) scanPlayers(rows *sql.Rows) ([]store.Player, error) {
	var players []store.Player
	for rows.Next() {
		var (
			playerID int
			player   store.Player
		)
		if err := rows.Scan(&playerID, &player.FullName); err != nil {
			return nil, fmt.Errorf("scanning player: %w", err)
		}
		player.ID = strconv.Itoa(playerID)
		players = append(players, player)
	}

	return players, rows.Err()
}
