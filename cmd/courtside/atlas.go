package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/fortuna/courtside/internal/backfill"
	"github.com/fortuna/courtside/internal/ingest/nba"
	"github.com/fortuna/courtside/internal/query"
	"github.com/fortuna/courtside/internal/store"
	"github.com/fortuna/courtside/internal/store/repository"
)

var atlasCmd = &cobra.Command{
	Use:   "atlas",
	Short: "Manage the Atlas Postgres store",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := rootCmd.PersistentPreRunE(cmd, args); err != nil {
			return err
		}
		if cfg.AtlasDSN == "" {
			return fmt.Errorf("atlas-dsn is required")
		}
		return nil
	},
}

var atlasMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.NewDatabase(cmd.Context(), cfg.AtlasDSN, logger)
		if err != nil {
			return err
		}
		defer db.Close()

		return db.RunMigrations(cmd.Context())
	},
}

var atlasSyncPlayersCmd = &cobra.Command{
	Use:   "sync-players",
	Short: "Copy the stats.nba.com player list into the Atlas players table",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		db, err := store.NewDatabase(ctx, cfg.AtlasDSN, logger)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.RunMigrations(ctx); err != nil {
			return err
		}

		players, err := nba.New(cfg.NBAAPIBase, cfg.HTTPTimeout, logger).AllPlayers(ctx, cfg.Season)
		if err != nil {
			return err
		}

		start := time.Now()
		repo := repository.NewPlayerRepository(db)
		for _, p := range players {
			if _, err := repo.Upsert(ctx, p.ID, p.FullName); err != nil {
				return fmt.Errorf("syncing %s: %w", p.FullName, err)
			}
		}

		logger.Info("synced players", "players", len(players), "elapsed", time.Since(start))
		fmt.Fprintf(cmd.OutOrStdout(), "Synced %d players\n", len(players))
		return nil
	},
}

var syncActive bool

var atlasSyncGamesCmd = &cobra.Command{
	Use:   "sync-games [player name...]",
	Short: "Copy season game logs from stats.nba.com into the Atlas store",
	Long: "Copy the configured season's regular-season game logs of the named players " +
		"(resolved against the Atlas players table) or, with --active, of every player " +
		"on a roster that season. The atlas provider only answers for synced players.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 && !syncActive {
			return fmt.Errorf("name at least one player or pass --active")
		}
		ctx := cmd.Context()

		db, err := store.NewDatabase(ctx, cfg.AtlasDSN, logger)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.RunMigrations(ctx); err != nil {
			return err
		}

		client := nba.New(cfg.NBAAPIBase, cfg.HTTPTimeout, logger)
		repo := repository.NewPlayerRepository(db)

		var targets []backfill.Target
		if syncActive {
			active, err := client.ActivePlayers(ctx, cfg.Season)
			if err != nil {
				return err
			}
			for _, p := range active {
				atlasID, err := repo.Upsert(ctx, p.ID, p.FullName)
				if err != nil {
					return fmt.Errorf("syncing %s: %w", p.FullName, err)
				}
				targets = append(targets, backfill.Target{AtlasID: atlasID, Player: p})
			}
		}

		if len(args) > 0 {
			named, err := resolveTargets(ctx, repo, args)
			if err != nil {
				return err
			}
			targets = append(targets, named...)
		}

		out := cmd.OutOrStdout()
		written, err := backfill.NewRunner(db, client, logger).Run(ctx, cfg.Season, targets, progressPrinter{out: out})
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "Synced %d games for %d players\n", written, len(targets))
		return nil
	},
}

// resolveTargets maps names to Atlas players the same way questions do
func resolveTargets(ctx context.Context, repo *repository.PlayerRepository, names []string) ([]backfill.Target, error) {
	all, err := repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("atlas has no players; run courtside atlas sync-players first")
	}

	targets := make([]backfill.Target, 0, len(names))
	for _, name := range names {
		player, ok := query.ResolvePlayer(name, all)
		if !ok {
			return nil, &query.PlayerNotFoundError{Name: name}
		}
		externalID, err := repo.ExternalID(ctx, player.ID)
		if err != nil {
			return nil, err
		}
		targets = append(targets, backfill.Target{
			AtlasID: player.ID,
			Player:  store.Player{ID: externalID, FullName: player.FullName},
		})
	}
	return targets, nil
}

type progressPrinter struct {
	out io.Writer
}

func (p progressPrinter) OnPlayerStart(player store.Player, idx, total int) {
	fmt.Fprintf(p.out, "[%d/%d] %s\n", idx+1, total, player.FullName)
}

func (p progressPrinter) OnPlayerSynced(player store.Player, games int) {
	fmt.Fprintf(p.out, "  %d games\n", games)
}

func init() {
	atlasSyncGamesCmd.Flags().BoolVar(&syncActive, "active", false, "sync every player on a roster this season")
	atlasCmd.AddCommand(atlasMigrateCmd, atlasSyncPlayersCmd, atlasSyncGamesCmd)
}
