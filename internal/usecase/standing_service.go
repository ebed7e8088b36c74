package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/riskibarqy/survivor-pool/internal/domain/access"
	"github.com/riskibarqy/survivor-pool/internal/domain/entry"
	"github.com/riskibarqy/survivor-pool/internal/domain/pick"
	"github.com/riskibarqy/survivor-pool/internal/domain/result"
	"github.com/riskibarqy/survivor-pool/internal/platform/logging"
)

const defaultStandingWorkers = 4

type Standing struct {
	Entry  entry.Entry
	Status result.Status
}

type StandingService struct {
	entryRepo  entry.Repository
	pickRepo   pick.Repository
	resultRepo result.Repository
	workers    int
	logger     *logging.Logger
}

func NewStandingService(
	entryRepo entry.Repository,
	pickRepo pick.Repository,
	resultRepo result.Repository,
	workers int,
	logger *logging.Logger,
) *StandingService {
	if logger == nil {
		logger = logging.Default()
	}
	if workers <= 0 {
		workers = defaultStandingWorkers
	}

	return &StandingService{
		entryRepo:  entryRepo,
		pickRepo:   pickRepo,
		resultRepo: resultRepo,
		workers:    workers,
		logger:     logger,
	}
}

// ListStandings evaluates every entry, surviving entries first.
func (s *StandingService) ListStandings(ctx context.Context, actor access.Actor) ([]Standing, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingService.ListStandings")
	defer span.End()

	if err := authorize(actor, access.OpViewAll, ""); err != nil {
		return nil, err
	}

	entries, err := s.entryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	if len(entries) == 0 {
		return []Standing{}, nil
	}

	results, err := s.resultRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}

	workerPool, err := ants.NewPool(s.workers)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer workerPool.Release()

	out := make([]Standing, len(entries))
	var (
		wg       sync.WaitGroup
		errMu    sync.Mutex
		firstErr error
	)
	for i, item := range entries {
		wg.Add(1)
		if err := workerPool.Submit(func() {
			defer wg.Done()

			picks, err := s.pickRepo.ListByEntry(ctx, item.ID)
			if err != nil {
				errMu.Lock()
				if firstErr == nil {
					firstErr = fmt.Errorf("list picks for entry %s: %w", item.ID, err)
				}
				errMu.Unlock()
				return
			}
			out[i] = Standing{Entry: item, Status: result.Evaluate(item.ID, picks, results)}
		}); err != nil {
			wg.Done()
			wg.Wait()
			return nil, fmt.Errorf("submit standing task to worker pool: %w", err)
		}
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Status.Eliminated != b.Status.Eliminated {
			return !a.Status.Eliminated
		}
		if a.Entry.Nickname != b.Entry.Nickname {
			return a.Entry.Nickname < b.Entry.Nickname
		}
		return a.Entry.ID < b.Entry.ID
	})

	s.logger.DebugContext(ctx, "standings evaluated", "entries", len(out))
	return out, nil
}
