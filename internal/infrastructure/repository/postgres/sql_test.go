package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"

	"github.com/riskibarqy/survivor-pool/internal/domain/pick"
	"github.com/riskibarqy/survivor-pool/internal/domain/team"
	"github.com/riskibarqy/survivor-pool/internal/domain/user"
)

func TestMapConstraintError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		targetErr error
	}{
		{
			name:      "duplicate email",
			err:       &pq.Error{Code: pqUniqueViolation, Constraint: constraintUsersEmail},
			targetErr: user.ErrEmailTaken,
		},
		{
			name:      "duplicate team name",
			err:       &pq.Error{Code: pqUniqueViolation, Constraint: constraintTeamsName},
			targetErr: team.ErrDuplicateTeam,
		},
		{
			name:      "second pick in week",
			err:       fmt.Errorf("exec: %w", &pq.Error{Code: pqUniqueViolation, Constraint: constraintPicksWeek}),
			targetErr: pick.ErrPickAlreadyExists,
		},
		{
			name:      "team reuse",
			err:       &pq.Error{Code: pqUniqueViolation, Constraint: constraintPicksTeam},
			targetErr: pick.ErrTeamAlreadyUsed,
		},
		{
			name: "delete referenced team",
			err: &pq.Error{
				Code:       pqForeignKeyViolation,
				Constraint: constraintPicksTeamFK,
				Message:    `update or delete on table "teams" violates foreign key constraint "picks_team_name_fkey" on table "picks"`,
			},
			targetErr: team.ErrTeamInUse,
		},
		{
			name: "insert pick for missing team",
			err: &pq.Error{
				Code:       pqForeignKeyViolation,
				Constraint: constraintPicksTeamFK,
				Message:    `insert or update on table "picks" violates foreign key constraint "picks_team_name_fkey"`,
			},
			targetErr: pick.ErrUnknownTeam,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapConstraintError(tt.err, "op")
			if !errors.Is(got, tt.targetErr) {
				t.Fatalf("expected %v, got %v", tt.targetErr, got)
			}
		})
	}
}

func TestMapConstraintErrorPassesThroughUnknown(t *testing.T) {
	base := errors.New("connection refused")
	got := mapConstraintError(base, "insert pick")
	if !errors.Is(got, base) {
		t.Fatalf("expected wrapped base error, got %v", got)
	}

	other := &pq.Error{Code: "42P01", Message: "relation does not exist"}
	if got := mapConstraintError(other, "insert pick"); !errors.Is(got, other) {
		t.Fatalf("expected wrapped pq error, got %v", got)
	}

	if mapConstraintError(nil, "noop") != nil {
		t.Fatalf("nil must stay nil")
	}
}

func TestIsNotFound(t *testing.T) {
	if !isNotFound(fmt.Errorf("get: %w", sql.ErrNoRows)) {
		t.Fatalf("expected wrapped ErrNoRows to be not found")
	}
	if isNotFound(errors.New("boom")) {
		t.Fatalf("unexpected not found")
	}
}
