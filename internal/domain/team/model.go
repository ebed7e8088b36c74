package team

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrDuplicateTeam = errors.New("team name already exists")
	ErrTeamInUse     = errors.New("team is referenced by picks or results")
)

// Team is one entry of the season roster. Picks and results reference it by name.
type Team struct {
	ID   string
	Name string
}

func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if NormalizeName(t.Name) == "" {
		return fmt.Errorf("team name is required")
	}

	return nil
}
