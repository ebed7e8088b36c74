package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/riskibarqy/survivor-pool/internal/config"
	"github.com/riskibarqy/survivor-pool/internal/domain/schedule"
	"github.com/riskibarqy/survivor-pool/internal/infrastructure/account"
	"github.com/riskibarqy/survivor-pool/internal/interfaces/httpapi"
	idgen "github.com/riskibarqy/survivor-pool/internal/platform/id"
	"github.com/riskibarqy/survivor-pool/internal/platform/logging"
	"github.com/riskibarqy/survivor-pool/internal/usecase"
)

// NewHTTPServer wires storage, services and the router. The returned cleanup
// releases storage and must run after the server has shut down.
func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	repos, err := openRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	calendar := schedule.NewCalendar(cfg.SeasonBaseDeadline, cfg.SeasonStart)
	roster := usecase.NewRosterGuard()
	ids := idgen.NewUUIDGenerator()

	userSvc := usecase.NewUserService(
		repos.users,
		repos.entries,
		repos.picks,
		account.NewBcryptHasher(cfg.BcryptCost),
		account.NewTokenIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL),
		logger,
	)
	teamSvc := usecase.NewTeamService(repos.teams, repos.picks, repos.results, roster, ids, logger)
	entrySvc := usecase.NewEntryService(repos.users, repos.entries, ids, logger)
	pickSvc := usecase.NewPickService(repos.entries, repos.teams, repos.picks, calendar, roster, ids, logger)
	resultSvc := usecase.NewResultService(repos.teams, repos.results, repos.entries, repos.picks, roster, logger)
	standingSvc := usecase.NewStandingService(repos.entries, repos.picks, repos.results, cfg.StandingsWorkers, logger)

	if cfg.AdminEmail != "" {
		if err := userSvc.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			_ = repos.close()
			return nil, nil, fmt.Errorf("bootstrap admin: %w", err)
		}
	}

	handler := httpapi.NewHandler(userSvc, teamSvc, entrySvc, pickSvc, resultSvc, standingSvc, calendar, logger)
	router := httpapi.NewRouter(handler, userSvc, httpapi.RouterConfig{
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		LoginLimiter:       httpapi.NewClientRateLimiter(cfg.LoginRateLimit, cfg.LoginRateBurst),
	}, logger)

	logger.Info("survivor pool wired",
		"storage", cfg.StorageDriver,
		"cache_enabled", cfg.CacheEnabled,
		"base_deadline", calendar.BaseDeadline,
	)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return server, repos.close, nil
}
