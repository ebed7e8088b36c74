package app

import (
	"context"
	"fmt"

	"github.com/riskibarqy/survivor-pool/internal/config"
	"github.com/riskibarqy/survivor-pool/internal/domain/entry"
	"github.com/riskibarqy/survivor-pool/internal/domain/pick"
	"github.com/riskibarqy/survivor-pool/internal/domain/result"
	"github.com/riskibarqy/survivor-pool/internal/domain/team"
	"github.com/riskibarqy/survivor-pool/internal/domain/user"
	"github.com/riskibarqy/survivor-pool/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/survivor-pool/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/survivor-pool/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/survivor-pool/internal/platform/logging"
)

type repositories struct {
	users   user.Repository
	teams   team.Repository
	entries entry.Repository
	picks   pick.Repository
	results result.Repository
	close   func() error
}

func openRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, error) {
	var (
		repos repositories
		err   error
	)
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		repos, err = openPostgres(ctx, cfg, logger)
	default:
		repos = openMemory(cfg)
	}
	if err != nil {
		return repositories{}, err
	}

	if cfg.CacheEnabled {
		repos.teams = cache.NewTeamRepository(repos.teams, cfg.CacheTTL)
	}
	return repos, nil
}

func openMemory(cfg config.Config) repositories {
	var seed []team.Team
	if cfg.SeedTeams {
		seed = memory.SeedTeams()
	}

	return repositories{
		users:   memory.NewUserRepository(),
		teams:   memory.NewTeamRepository(seed),
		entries: memory.NewEntryRepository(),
		picks:   memory.NewPickRepository(),
		results: memory.NewResultRepository(),
		close:   func() error { return nil },
	}
}

func openPostgres(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, error) {
	db, err := OpenDB(ctx, cfg.DBURL, cfg.DBDisablePreparedBinary)
	if err != nil {
		return repositories{}, err
	}

	teams := postgres.NewTeamRepository(db)
	if cfg.SeedTeams {
		if err := teams.UpsertSeed(ctx, memory.SeedTeams()); err != nil {
			_ = db.Close()
			return repositories{}, fmt.Errorf("seed teams: %w", err)
		}
	}

	logger.Info("postgres connected", "db_name", dbNameFromURL(cfg.DBURL))

	return repositories{
		users:   postgres.NewUserRepository(db),
		teams:   teams,
		entries: postgres.NewEntryRepository(db),
		picks:   postgres.NewPickRepository(db),
		results: postgres.NewResultRepository(db),
		close:   db.Close,
	}, nil
}

// SeedTeams upserts the default roster into postgres and returns its size.
func SeedTeams(ctx context.Context, dbURL string, disablePreparedBinary bool) (int, error) {
	db, err := OpenDB(ctx, dbURL, disablePreparedBinary)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	seed := memory.SeedTeams()
	if err := postgres.NewTeamRepository(db).UpsertSeed(ctx, seed); err != nil {
		return 0, fmt.Errorf("seed teams: %w", err)
	}
	return len(seed), nil
}
