package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/riskibarqy/survivor-pool/internal/domain/access"
	"github.com/riskibarqy/survivor-pool/internal/domain/entry"
	"github.com/riskibarqy/survivor-pool/internal/domain/pick"
	"github.com/riskibarqy/survivor-pool/internal/domain/result"
	"github.com/riskibarqy/survivor-pool/internal/domain/schedule"
	"github.com/riskibarqy/survivor-pool/internal/domain/team"
	"github.com/riskibarqy/survivor-pool/internal/platform/logging"
)

type ResultService struct {
	teamRepo   team.Repository
	resultRepo result.Repository
	entryRepo  entry.Repository
	pickRepo   pick.Repository
	roster     *RosterGuard
	logger     *logging.Logger
	now        func() time.Time
}

func NewResultService(
	teamRepo team.Repository,
	resultRepo result.Repository,
	entryRepo entry.Repository,
	pickRepo pick.Repository,
	roster *RosterGuard,
	logger *logging.Logger,
) *ResultService {
	if logger == nil {
		logger = logging.Default()
	}

	return &ResultService{
		teamRepo:   teamRepo,
		resultRepo: resultRepo,
		entryRepo:  entryRepo,
		pickRepo:   pickRepo,
		roster:     roster,
		logger:     logger,
		now:        time.Now,
	}
}

// RecordResult upserts the outcome of teamName in week. A later call for the same
// (week, team) replaces the earlier outcome.
func (s *ResultService) RecordResult(ctx context.Context, actor access.Actor, week int, teamName, outcome string) (result.Result, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResultService.RecordResult")
	defer span.End()

	if err := authorize(actor, access.OpRecordResult, ""); err != nil {
		return result.Result{}, err
	}
	if week <= 0 {
		return result.Result{}, fmt.Errorf("%w: %d", schedule.ErrInvalidWeek, week)
	}

	teamName = team.NormalizeName(teamName)

	release := s.roster.share()
	defer release()

	if err := teamExists(ctx, s.teamRepo, teamName); err != nil {
		return result.Result{}, err
	}

	parsed, err := result.ParseOutcome(outcome)
	if err != nil {
		return result.Result{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	item := result.Result{
		Week:       week,
		TeamName:   teamName,
		Outcome:    parsed,
		RecordedAt: s.now().UTC(),
	}
	if err := s.resultRepo.Upsert(ctx, item); err != nil {
		return result.Result{}, fmt.Errorf("upsert result: %w", err)
	}

	s.logger.InfoContext(ctx, "result recorded",
		"week", item.Week,
		"team", item.TeamName,
		"outcome", string(item.Outcome),
		"actor", actor.Email,
	)

	return item, nil
}

// ListResults returns results for week, or the whole season when week is 0.
func (s *ResultService) ListResults(ctx context.Context, week int) ([]result.Result, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResultService.ListResults")
	defer span.End()

	var (
		items []result.Result
		err   error
	)
	switch {
	case week < 0:
		return nil, fmt.Errorf("%w: %d", schedule.ErrInvalidWeek, week)
	case week == 0:
		items, err = s.resultRepo.List(ctx)
	default:
		items, err = s.resultRepo.ListByWeek(ctx, week)
	}
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Week != items[j].Week {
			return items[i].Week < items[j].Week
		}
		return items[i].TeamName < items[j].TeamName
	})
	return items, nil
}

// EliminationStatus evaluates one entry. Owners see their own entries, managers any.
func (s *ResultService) EliminationStatus(ctx context.Context, actor access.Actor, entryID string) (result.Status, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResultService.EliminationStatus")
	defer span.End()

	owner, err := loadEntry(ctx, s.entryRepo, entryID)
	if err != nil {
		return result.Status{}, err
	}
	if err := authorize(actor, access.OpViewOwn, owner.OwnerEmail); err != nil {
		return result.Status{}, err
	}

	picks, err := s.pickRepo.ListByEntry(ctx, owner.ID)
	if err != nil {
		return result.Status{}, fmt.Errorf("list entry picks: %w", err)
	}
	results, err := s.resultRepo.List(ctx)
	if err != nil {
		return result.Status{}, fmt.Errorf("list results: %w", err)
	}

	return result.Evaluate(owner.ID, picks, results), nil
}
