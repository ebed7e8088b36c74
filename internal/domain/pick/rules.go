package pick

import (
	"errors"
	"fmt"
)

var (
	ErrEntryNotVerified  = errors.New("entry is not verified")
	ErrUnknownTeam       = errors.New("unknown team")
	ErrWeekLocked        = errors.New("week is locked")
	ErrPickAlreadyExists = errors.New("entry already has a pick for this week")
	ErrTeamAlreadyUsed   = errors.New("team already used by this entry")
)

// CheckNewPick validates a fresh (week, team) selection against the entry's existing picks.
// The week slot is checked before team reuse.
func CheckNewPick(existing []Pick, week int, teamName string) error {
	for _, p := range existing {
		if p.Week == week {
			return fmt.Errorf("%w: week=%d", ErrPickAlreadyExists, week)
		}
	}
	for _, p := range existing {
		if p.TeamName == teamName {
			return fmt.Errorf("%w: team=%s week=%d", ErrTeamAlreadyUsed, teamName, p.Week)
		}
	}

	return nil
}

// CheckWeekChange ensures no other pick of the entry occupies week.
func CheckWeekChange(existing []Pick, pickID string, week int) error {
	for _, p := range existing {
		if p.ID != pickID && p.Week == week {
			return fmt.Errorf("%w: week=%d", ErrPickAlreadyExists, week)
		}
	}
	return nil
}

// CheckTeamChange ensures no other pick of the entry already uses teamName.
func CheckTeamChange(existing []Pick, pickID, teamName string) error {
	for _, p := range existing {
		if p.ID != pickID && p.TeamName == teamName {
			return fmt.Errorf("%w: team=%s week=%d", ErrTeamAlreadyUsed, teamName, p.Week)
		}
	}
	return nil
}

// UsedTeams returns the set of team names the picks reference.
func UsedTeams(picks []Pick) map[string]struct{} {
	out := make(map[string]struct{}, len(picks))
	for _, p := range picks {
		out[p.TeamName] = struct{}{}
	}
	return out
}
