package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/survivor-pool/internal/domain/access"
	"github.com/riskibarqy/survivor-pool/internal/domain/pick"
	"github.com/riskibarqy/survivor-pool/internal/domain/result"
	"github.com/riskibarqy/survivor-pool/internal/domain/schedule"
	"github.com/riskibarqy/survivor-pool/internal/infrastructure/repository/memory"
)

func TestPickService_SurvivorFlow(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newPoolFixture(t)
	player := f.mustPlayer(t, "e1@pool.test")
	e1 := f.mustVerifiedEntry(t, player, "E1")

	if _, err := f.pickSvc.SubmitPick(ctx, player, e1.ID, 1, "Jets"); err != nil {
		t.Fatalf("pick Jets week 1: %v", err)
	}
	if _, err := f.pickSvc.SubmitPick(ctx, player, e1.ID, 2, "Jets"); !errors.Is(err, pick.ErrTeamAlreadyUsed) {
		t.Fatalf("expected ErrTeamAlreadyUsed, got %v", err)
	}
	if _, err := f.pickSvc.SubmitPick(ctx, player, e1.ID, 2, "Giants"); err != nil {
		t.Fatalf("pick Giants week 2: %v", err)
	}

	if _, err := f.resultSvc.RecordResult(ctx, f.manager, 1, "Jets", "loss"); err != nil {
		t.Fatalf("record result: %v", err)
	}

	status, err := f.resultSvc.EliminationStatus(ctx, player, e1.ID)
	if err != nil {
		t.Fatalf("elimination status: %v", err)
	}
	if !status.Eliminated || status.EliminatedWeek != 1 {
		t.Fatalf("expected elimination in week 1, got %+v", status)
	}

	again, err := f.resultSvc.EliminationStatus(ctx, player, e1.ID)
	if err != nil {
		t.Fatalf("elimination status again: %v", err)
	}
	if again != status {
		t.Fatalf("elimination status must be stable: %+v vs %+v", status, again)
	}
}

func TestPickService_SubmitPickRejections(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newPoolFixture(t)
	owner := f.mustPlayer(t, "owner@pool.test")
	other := f.mustPlayer(t, "other@pool.test")
	verified := f.mustVerifiedEntry(t, owner, "Verified")

	unverified, err := f.entrySvc.CreateEntry(ctx, owner, "", "Unverified")
	if err != nil {
		t.Fatalf("create unverified entry: %v", err)
	}

	tests := []struct {
		name      string
		actor     func() error
		targetErr error
	}{
		{
			name:      "missing entry",
			actor:     func() error { _, err := f.pickSvc.SubmitPick(ctx, owner, "missing", 1, "Jets"); return err },
			targetErr: ErrNotFound,
		},
		{
			name:      "not the owner",
			actor:     func() error { _, err := f.pickSvc.SubmitPick(ctx, other, verified.ID, 1, "Jets"); return err },
			targetErr: ErrForbidden,
		},
		{
			name:      "admin acting for owner",
			actor:     func() error { _, err := f.pickSvc.SubmitPick(ctx, f.admin, verified.ID, 1, "Jets"); return err },
			targetErr: ErrForbidden,
		},
		{
			name:      "unverified entry",
			actor:     func() error { _, err := f.pickSvc.SubmitPick(ctx, owner, unverified.ID, 1, "Jets"); return err },
			targetErr: pick.ErrEntryNotVerified,
		},
		{
			name:      "unknown team",
			actor:     func() error { _, err := f.pickSvc.SubmitPick(ctx, owner, verified.ID, 1, "Sharks"); return err },
			targetErr: pick.ErrUnknownTeam,
		},
		{
			name:      "team match is case sensitive",
			actor:     func() error { _, err := f.pickSvc.SubmitPick(ctx, owner, verified.ID, 1, "jets"); return err },
			targetErr: pick.ErrUnknownTeam,
		},
		{
			name:      "negative week",
			actor:     func() error { _, err := f.pickSvc.SubmitPick(ctx, owner, verified.ID, -1, "Jets"); return err },
			targetErr: schedule.ErrInvalidWeek,
		},
		{
			name:      "anonymous actor",
			actor:     func() error { _, err := f.pickSvc.SubmitPick(ctx, access.Actor{Email: owner.Email}, verified.ID, 1, "Jets"); return err },
			targetErr: ErrUnauthorized,
		},
	}

	for _, tt := range tests {
		if err := tt.actor(); !errors.Is(err, tt.targetErr) {
			t.Fatalf("%s: expected %v, got %v", tt.name, tt.targetErr, err)
		}
	}

	picks, _ := f.picks.List(ctx)
	if len(picks) != 0 {
		t.Fatalf("rejected submissions must not persist picks, got %d", len(picks))
	}
}

func TestPickService_SubmitPickDefaultsToCurrentWeek(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newPoolFixture(t)
	player := f.mustPlayer(t, "p@pool.test")
	item := f.mustVerifiedEntry(t, player, "Current")

	f.setNow(schedule.DefaultBaseDeadline.Add(time.Hour))

	got, err := f.pickSvc.SubmitPick(ctx, player, item.ID, 0, "Bills")
	if err != nil {
		t.Fatalf("submit with default week: %v", err)
	}
	if got.Week != 2 {
		t.Fatalf("expected week 2, got %d", got.Week)
	}

	if _, err := f.pickSvc.SubmitPick(ctx, player, item.ID, 1, "Bears"); !errors.Is(err, pick.ErrWeekLocked) {
		t.Fatalf("expected ErrWeekLocked for week 1, got %v", err)
	}
}

func TestPickService_ConcurrentSubmitSameWeek(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newPoolFixture(t)
	player := f.mustPlayer(t, "e3@pool.test")
	e3 := f.mustVerifiedEntry(t, player, "E3")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, teamName := range []string{"Bears", "Bills"} {
		wg.Add(1)
		go func(i int, teamName string) {
			defer wg.Done()
			_, errs[i] = f.pickSvc.SubmitPick(ctx, player, e3.ID, 3, teamName)
		}(i, teamName)
	}
	wg.Wait()

	committed := 0
	for _, err := range errs {
		switch {
		case err == nil:
			committed++
		case errors.Is(err, pick.ErrPickAlreadyExists), errors.Is(err, ErrConflict):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if committed != 1 {
		t.Fatalf("expected exactly one commit, got %d", committed)
	}

	picks, _ := f.picks.ListByEntry(ctx, e3.ID)
	if len(picks) != 1 || picks[0].Week != 3 {
		t.Fatalf("expected exactly one pick for week 3, got %+v", picks)
	}
}

func TestPickService_ConcurrentSubmitsNeverDuplicateTeams(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newPoolFixture(t)
	player := f.mustPlayer(t, "p@pool.test")
	item := f.mustVerifiedEntry(t, player, "Racer")

	var wg sync.WaitGroup
	for week := 1; week <= 8; week++ {
		wg.Add(1)
		go func(week int) {
			defer wg.Done()
			_, _ = f.pickSvc.SubmitPick(ctx, player, item.ID, week, "Chiefs")
		}(week)
	}
	wg.Wait()

	picks, _ := f.picks.ListByEntry(ctx, item.ID)
	if len(picks) != 1 {
		t.Fatalf("expected Chiefs picked exactly once, got %d picks", len(picks))
	}
}

func TestPickService_EditPick(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newPoolFixture(t)
	player := f.mustPlayer(t, "p@pool.test")
	other := f.mustPlayer(t, "o@pool.test")
	item := f.mustVerifiedEntry(t, player, "Editor")

	first, err := f.pickSvc.SubmitPick(ctx, player, item.ID, 2, "Jets")
	if err != nil {
		t.Fatalf("submit week 2: %v", err)
	}
	if _, err := f.pickSvc.SubmitPick(ctx, player, item.ID, 3, "Bears"); err != nil {
		t.Fatalf("submit week 3: %v", err)
	}

	if _, err := f.pickSvc.EditPick(ctx, other, first.ID, 0, "Bills"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := f.pickSvc.EditPick(ctx, player, "missing", 0, "Bills"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := f.pickSvc.EditPick(ctx, player, first.ID, 0, "Bears"); !errors.Is(err, pick.ErrTeamAlreadyUsed) {
		t.Fatalf("expected ErrTeamAlreadyUsed, got %v", err)
	}
	if _, err := f.pickSvc.EditPick(ctx, player, first.ID, 3, ""); !errors.Is(err, pick.ErrPickAlreadyExists) {
		t.Fatalf("expected ErrPickAlreadyExists, got %v", err)
	}
	if _, err := f.pickSvc.EditPick(ctx, player, first.ID, 0, "Sharks"); !errors.Is(err, pick.ErrUnknownTeam) {
		t.Fatalf("expected ErrUnknownTeam, got %v", err)
	}

	edited, err := f.pickSvc.EditPick(ctx, player, first.ID, 4, "Bills")
	if err != nil {
		t.Fatalf("edit pick: %v", err)
	}
	if edited.ID != first.ID || edited.Week != 4 || edited.TeamName != "Bills" {
		t.Fatalf("unexpected edited pick %+v", edited)
	}

	// Jets is free again after the edit.
	if _, err := f.pickSvc.SubmitPick(ctx, player, item.ID, 5, "Jets"); err != nil {
		t.Fatalf("reuse released team: %v", err)
	}
}

func TestPickService_EditPickStoredWeekLocked(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newPoolFixture(t)
	player := f.mustPlayer(t, "p@pool.test")
	item := f.mustVerifiedEntry(t, player, "Late")

	stored, err := f.pickSvc.SubmitPick(ctx, player, item.ID, 1, "Jets")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	f.setNow(schedule.DefaultBaseDeadline.Add(time.Minute))

	_, err = f.pickSvc.EditPick(ctx, player, stored.ID, 6, "Bills")
	if !errors.Is(err, pick.ErrWeekLocked) {
		t.Fatalf("expected ErrWeekLocked, got %v", err)
	}

	unchanged, _, _ := f.picks.GetByID(ctx, stored.ID)
	if unchanged.Week != 1 || unchanged.TeamName != "Jets" {
		t.Fatalf("locked pick must not change, got %+v", unchanged)
	}
}

func TestPickService_ListPicks(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newPoolFixture(t)
	player := f.mustPlayer(t, "p@pool.test")
	other := f.mustPlayer(t, "o@pool.test")
	a := f.mustVerifiedEntry(t, player, "A")
	b := f.mustVerifiedEntry(t, player, "B")

	for _, submit := range []struct {
		entryID string
		week    int
		team    string
	}{
		{entryID: a.ID, week: 2, team: "Jets"},
		{entryID: a.ID, week: 1, team: "Bears"},
		{entryID: b.ID, week: 1, team: "Jets"},
	} {
		if _, err := f.pickSvc.SubmitPick(ctx, player, submit.entryID, submit.week, submit.team); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}

	mine, err := f.pickSvc.ListPicksFor(ctx, player, "")
	if err != nil {
		t.Fatalf("list own picks: %v", err)
	}
	if len(mine) != 3 {
		t.Fatalf("expected 3 picks, got %d", len(mine))
	}

	if _, err := f.pickSvc.ListPicksFor(ctx, other, player.Email); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	byEntry, err := f.pickSvc.ListPicksForEntry(ctx, f.manager, a.ID)
	if err != nil {
		t.Fatalf("manager list entry picks: %v", err)
	}
	if len(byEntry) != 2 || byEntry[0].Week != 1 || byEntry[1].Week != 2 {
		t.Fatalf("expected entry picks ordered by week, got %+v", byEntry)
	}
}

func TestResultService_RecordResultUpserts(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newPoolFixture(t)

	if _, err := f.resultSvc.RecordResult(ctx, f.manager, 4, "Bills", "win"); err != nil {
		t.Fatalf("record win: %v", err)
	}
	if _, err := f.resultSvc.RecordResult(ctx, f.manager, 4, "Bills", "loss"); err != nil {
		t.Fatalf("record loss: %v", err)
	}

	items, err := f.resultSvc.ListResults(ctx, 4)
	if err != nil {
		t.Fatalf("list results: %v", err)
	}
	if len(items) != 1 || items[0].Outcome != result.OutcomeLoss {
		t.Fatalf("expected one loss result, got %+v", items)
	}
}

func TestResultService_RecordResultRejections(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newPoolFixture(t)
	player := f.mustPlayer(t, "p@pool.test")

	tests := []struct {
		name      string
		call      func() error
		targetErr error
	}{
		{
			name:      "player",
			call:      func() error { _, err := f.resultSvc.RecordResult(ctx, player, 1, "Jets", "win"); return err },
			targetErr: ErrForbidden,
		},
		{
			name:      "invalid week",
			call:      func() error { _, err := f.resultSvc.RecordResult(ctx, f.manager, 0, "Jets", "win"); return err },
			targetErr: schedule.ErrInvalidWeek,
		},
		{
			name:      "unknown team",
			call:      func() error { _, err := f.resultSvc.RecordResult(ctx, f.manager, 1, "Sharks", "win"); return err },
			targetErr: pick.ErrUnknownTeam,
		},
		{
			name:      "bad outcome",
			call:      func() error { _, err := f.resultSvc.RecordResult(ctx, f.manager, 1, "Jets", "tie"); return err },
			targetErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		if err := tt.call(); !errors.Is(err, tt.targetErr) {
			t.Fatalf("%s: expected %v, got %v", tt.name, tt.targetErr, err)
		}
	}

	items, _ := f.resultSvc.ListResults(ctx, 0)
	if len(items) != 0 {
		t.Fatalf("rejected results must not persist, got %+v", items)
	}
}

type staleUpdatePicks struct {
	*memory.PickRepository
}

func (staleUpdatePicks) Update(context.Context, pick.Pick, pick.Pick) error {
	return pick.ErrStaleWrite
}

func TestPickService_EditPickLostRaceIsRetryable(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newPoolFixture(t)
	player := f.mustPlayer(t, "p@pool.test")
	item := f.mustVerifiedEntry(t, player, "Racer")

	stored, err := f.pickSvc.SubmitPick(ctx, player, item.ID, 2, "Jets")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	racy := NewPickService(f.entries, f.teams, staleUpdatePicks{f.picks}, schedule.DefaultCalendar(), NewRosterGuard(), &sequenceIDs{prefix: "pick"}, nil)
	racy.now = func() time.Time { return fixtureNow }

	_, err = racy.EditPick(ctx, player, stored.ID, 0, "Bills")
	if !errors.Is(err, ErrConflict) || !IsRetryable(err) {
		t.Fatalf("expected retryable ErrConflict, got %v", err)
	}
}
