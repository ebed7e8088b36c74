package postgres

import (
	"database/sql"
	"errors"
	"strings"

	crerr "github.com/cockroachdb/errors"
	"github.com/lib/pq"

	"github.com/riskibarqy/survivor-pool/internal/domain/pick"
	"github.com/riskibarqy/survivor-pool/internal/domain/team"
	"github.com/riskibarqy/survivor-pool/internal/domain/user"
)

const (
	pqUniqueViolation     pq.ErrorCode = "23505"
	pqForeignKeyViolation pq.ErrorCode = "23503"
)

const (
	constraintUsersEmail    = "users_email_key"
	constraintTeamsName     = "teams_name_key"
	constraintPicksWeek     = "picks_entry_week_key"
	constraintPicksTeam     = "picks_entry_team_key"
	constraintPicksTeamFK   = "picks_team_name_fkey"
	constraintResultsTeamFK = "results_team_name_fkey"
)

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func pqError(err error) (*pq.Error, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr, true
	}
	return nil, false
}

// mapConstraintError turns known constraint violations into domain errors and wraps
// everything else with the operation name.
func mapConstraintError(err error, op string) error {
	if err == nil {
		return nil
	}

	pqErr, ok := pqError(err)
	if !ok {
		return crerr.Wrap(err, op)
	}

	switch pqErr.Code {
	case pqUniqueViolation:
		switch pqErr.Constraint {
		case constraintUsersEmail:
			return crerr.Wrap(user.ErrEmailTaken, op)
		case constraintTeamsName:
			return crerr.Wrap(team.ErrDuplicateTeam, op)
		case constraintPicksWeek:
			return crerr.Wrap(pick.ErrPickAlreadyExists, op)
		case constraintPicksTeam:
			return crerr.Wrap(pick.ErrTeamAlreadyUsed, op)
		}
	case pqForeignKeyViolation:
		switch pqErr.Constraint {
		case constraintPicksTeamFK, constraintResultsTeamFK:
			// The referenced side reports "update or delete on table ...".
			if strings.HasPrefix(pqErr.Message, "update or delete") {
				return crerr.Wrap(team.ErrTeamInUse, op)
			}
			return crerr.Wrap(pick.ErrUnknownTeam, op)
		}
	}

	return crerr.Wrapf(err, "%s (code=%s constraint=%s)", op, pqErr.Code, pqErr.Constraint)
}
