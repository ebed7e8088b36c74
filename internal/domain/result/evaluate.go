package result

import (
	"sort"

	"github.com/riskibarqy/survivor-pool/internal/domain/pick"
)

// Status is the derived survival state of one entry.
type Status struct {
	EntryID          string
	Eliminated       bool
	EliminatedWeek   int
	SurvivedWeeks    int
	PendingWeeks     int
	LastResolvedWeek int
}

type key struct {
	week int
	team string
}

// Evaluate derives an entry's status from its picks and the season results. An entry is
// eliminated iff one of its picks names a team whose result for that same week is a loss.
// Picks without a recorded result count as pending.
func Evaluate(entryID string, picks []pick.Pick, results []Result) Status {
	outcomes := make(map[key]Outcome, len(results))
	for _, r := range results {
		outcomes[key{week: r.Week, team: r.TeamName}] = r.Outcome
	}

	ordered := make([]pick.Pick, 0, len(picks))
	for _, p := range picks {
		if entryID != "" && p.EntryID != entryID {
			continue
		}
		ordered = append(ordered, p)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Week < ordered[j].Week })

	status := Status{EntryID: entryID}
	for _, p := range ordered {
		outcome, ok := outcomes[key{week: p.Week, team: p.TeamName}]
		if !ok {
			status.PendingWeeks++
			continue
		}
		status.LastResolvedWeek = p.Week
		switch outcome {
		case OutcomeWin:
			status.SurvivedWeeks++
		case OutcomeLoss:
			if !status.Eliminated {
				status.Eliminated = true
				status.EliminatedWeek = p.Week
			}
		}
	}

	return status
}
