package result

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidOutcome = errors.New("invalid outcome")

type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
)

func ParseOutcome(raw string) (Outcome, error) {
	switch Outcome(strings.ToLower(strings.TrimSpace(raw))) {
	case OutcomeWin:
		return OutcomeWin, nil
	case OutcomeLoss:
		return OutcomeLoss, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidOutcome, raw)
	}
}

// Result is the recorded outcome of one team in one week. (Week, TeamName) is unique.
type Result struct {
	Week       int
	TeamName   string
	Outcome    Outcome
	RecordedAt time.Time
}

func (r Result) Validate() error {
	if r.Week <= 0 {
		return fmt.Errorf("result week must be positive: %d", r.Week)
	}
	if r.TeamName == "" {
		return fmt.Errorf("result team name is required")
	}
	if _, err := ParseOutcome(string(r.Outcome)); err != nil {
		return err
	}

	return nil
}
