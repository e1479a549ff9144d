package backfill

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/fortuna/courtside/internal/logging"
	"github.com/fortuna/courtside/internal/store"
	"github.com/fortuna/courtside/internal/store/repository"
)

// GameLogSource fetches a player's regular-season game log by stats.nba.com ID
type GameLogSource interface {
	GameLog(ctx context.Context, player store.Player, season string) ([]store.GameRow, error)
}

// Target is a player to sync: its Atlas ID and its stats.nba.com identity
type Target struct {
	AtlasID string
	Player  store.Player
}

// Reporter receives progress updates
type Reporter interface {
	OnPlayerStart(player store.Player, idx, total int)
	OnPlayerSynced(player store.Player, games int)
}

// Runner copies single-season game logs into the Atlas store so the atlas
// provider can answer from them.
type Runner struct {
	source  GameLogSource
	seasons *repository.SeasonRepository
	teams   *repository.TeamRepository
	games   *repository.GameRepository
	stats   *repository.StatsRepository
	logger  logging.Logger

	teamIDs map[string]int
}

// NewRunner constructs a runner writing to db
func NewRunner(db *store.Database, source GameLogSource, logger logging.Logger) *Runner {
	return &Runner{
		source:  source,
		seasons: repository.NewSeasonRepository(db),
		teams:   repository.NewTeamRepository(db),
		games:   repository.NewGameRepository(db),
		stats:   repository.NewStatsRepository(db),
		logger:  logger.With("component", "backfill"),
		teamIDs: make(map[string]int),
	}
}

// Run syncs every target's game log for the season and returns the number of
// games written. It stops at the first failing player; players synced before
// it stay synced.
func (r *Runner) Run(ctx context.Context, season string, targets []Target, reporter Reporter) (int, error) {
	seasonID, err := r.seasons.UpsertRegular(ctx, season)
	if err != nil {
		return 0, err
	}

	start := time.Now()
	written := 0
	for idx, target := range targets {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		if reporter != nil {
			reporter.OnPlayerStart(target.Player, idx, len(targets))
		}

		n, err := r.syncPlayer(ctx, seasonID, season, target)
		if err != nil {
			return written, fmt.Errorf("syncing %s: %w", target.Player.FullName, err)
		}
		written += n

		if reporter != nil {
			reporter.OnPlayerSynced(target.Player, n)
		}
	}

	r.logger.Info("game log sync completed",
		"season", season,
		"players", len(targets),
		"games", written,
		"elapsed", time.Since(start))
	return written, nil
}

func (r *Runner) syncPlayer(ctx context.Context, seasonID int, season string, target Target) (int, error) {
	playerID, err := strconv.Atoi(target.AtlasID)
	if err != nil {
		return 0, fmt.Errorf("invalid atlas player id %q: %w", target.AtlasID, err)
	}

	rows, err := r.source.GameLog(ctx, target.Player, season)
	if err != nil {
		return 0, err
	}

	for _, row := range rows {
		team, opponent, isHome, err := store.ParseMatchup(row.Matchup)
		if err != nil {
			return 0, fmt.Errorf("game %s: %w", row.GameID, err)
		}
		teamID, err := r.teamID(ctx, team)
		if err != nil {
			return 0, err
		}
		opponentID, err := r.teamID(ctx, opponent)
		if err != nil {
			return 0, err
		}

		game := &store.Game{
			SeasonID:   seasonID,
			ExternalID: row.GameID,
			GameDate:   row.GameDate,
			HomeTeamID: opponentID,
			AwayTeamID: teamID,
			// Game logs only list games that were played
			Status: store.GameStatusFinal,
		}
		if isHome {
			game.HomeTeamID, game.AwayTeamID = teamID, opponentID
		}
		if err := r.games.Upsert(ctx, game); err != nil {
			return 0, err
		}

		if err := r.stats.UpsertGameStats(ctx, game.GameID, playerID, teamID, row); err != nil {
			return 0, err
		}
	}

	if err := r.stats.MarkSynced(ctx, playerID, seasonID, len(rows)); err != nil {
		return 0, err
	}

	r.logger.Debug("synced player game log", "player", target.Player.FullName, "games", len(rows))
	return len(rows), nil
}

func (r *Runner) teamID(ctx context.Context, abbreviation string) (int, error) {
	if id, ok := r.teamIDs[abbreviation]; ok {
		return id, nil
	}
	id, err := r.teams.UpsertByAbbreviation(ctx, abbreviation)
	if err != nil {
		return 0, err
	}
	r.teamIDs[abbreviation] = id
	return id, nil
}
