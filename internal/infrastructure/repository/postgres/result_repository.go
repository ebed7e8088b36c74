package postgres

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/survivor-pool/internal/domain/result"
)

type ResultRepository struct {
	db *sqlx.DB
}

func NewResultRepository(db *sqlx.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

const resultColumns = `week, team_name, outcome, recorded_at`

func (r *ResultRepository) Upsert(ctx context.Context, item result.Result) error {
	const query = `
INSERT INTO results (week, team_name, outcome, recorded_at)
VALUES (:week, :team_name, :outcome, :recorded_at)
ON CONFLICT (week, team_name)
DO UPDATE SET
    outcome = EXCLUDED.outcome,
    recorded_at = EXCLUDED.recorded_at`

	_, err := r.db.NamedExecContext(ctx, query, resultTableModel{
		Week:       item.Week,
		TeamName:   item.TeamName,
		Outcome:    string(item.Outcome),
		RecordedAt: item.RecordedAt,
	})
	return mapConstraintError(err, "upsert result")
}

func (r *ResultRepository) Get(ctx context.Context, week int, teamName string) (result.Result, bool, error) {
	query := `SELECT ` + resultColumns + ` FROM results WHERE week = $1 AND team_name = $2`

	var row resultTableModel
	if err := r.db.GetContext(ctx, &row, query, week, teamName); err != nil {
		if isNotFound(err) {
			return result.Result{}, false, nil
		}
		return result.Result{}, false, crerr.Wrap(err, "get result")
	}
	return resultFromRow(row), true, nil
}

func (r *ResultRepository) List(ctx context.Context) ([]result.Result, error) {
	query := `SELECT ` + resultColumns + ` FROM results ORDER BY week, team_name`

	var rows []resultTableModel
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, crerr.Wrap(err, "list results")
	}
	return resultsFromRows(rows), nil
}

func (r *ResultRepository) ListByWeek(ctx context.Context, week int) ([]result.Result, error) {
	query := `SELECT ` + resultColumns + ` FROM results WHERE week = $1 ORDER BY team_name`

	var rows []resultTableModel
	if err := r.db.SelectContext(ctx, &rows, query, week); err != nil {
		return nil, crerr.Wrap(err, "list results by week")
	}
	return resultsFromRows(rows), nil
}

func (r *ResultRepository) ReferencesTeam(ctx context.Context, teamName string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM results WHERE team_name = $1)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, teamName); err != nil {
		return false, crerr.Wrap(err, "check result team reference")
	}
	return exists, nil
}

func resultFromRow(row resultTableModel) result.Result {
	return result.Result{
		Week:       row.Week,
		TeamName:   row.TeamName,
		Outcome:    result.Outcome(row.Outcome),
		RecordedAt: row.RecordedAt,
	}
}

func resultsFromRows(rows []resultTableModel) []result.Result {
	out := make([]result.Result, 0, len(rows))
	for _, row := range rows {
		out = append(out, resultFromRow(row))
	}
	return out
}
