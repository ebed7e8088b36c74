package pick

import (
	"fmt"
	"time"
)

// Pick is an entry's survivor selection for one week.
type Pick struct {
	ID        string
	EntryID   string
	Week      int
	TeamName  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p Pick) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("pick id is required")
	}
	if p.EntryID == "" {
		return fmt.Errorf("pick entry id is required")
	}
	if p.Week <= 0 {
		return fmt.Errorf("pick week must be positive: %d", p.Week)
	}
	if p.TeamName == "" {
		return fmt.Errorf("pick team name is required")
	}

	return nil
}
