package postgres

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/survivor-pool/internal/domain/pick"
)

type PickRepository struct {
	db *sqlx.DB
}

func NewPickRepository(db *sqlx.DB) *PickRepository {
	return &PickRepository{db: db}
}

const pickColumns = `public_id, entry_public_id, week, team_name, created_at, updated_at`

func (r *PickRepository) Create(ctx context.Context, item pick.Pick) error {
	const query = `
INSERT INTO picks (public_id, entry_public_id, week, team_name, created_at, updated_at)
VALUES (:public_id, :entry_public_id, :week, :team_name, :created_at, :updated_at)`

	_, err := r.db.NamedExecContext(ctx, query, pickToRow(item))
	return mapConstraintError(err, "insert pick")
}

func (r *PickRepository) GetByID(ctx context.Context, pickID string) (pick.Pick, bool, error) {
	query := `SELECT ` + pickColumns + ` FROM picks WHERE public_id = $1`

	var row pickTableModel
	if err := r.db.GetContext(ctx, &row, query, pickID); err != nil {
		if isNotFound(err) {
			return pick.Pick{}, false, nil
		}
		return pick.Pick{}, false, crerr.Wrap(err, "get pick by id")
	}
	return pickFromRow(row), true, nil
}

func (r *PickRepository) ListByEntry(ctx context.Context, entryID string) ([]pick.Pick, error) {
	query := `SELECT ` + pickColumns + ` FROM picks WHERE entry_public_id = $1 ORDER BY week`

	var rows []pickTableModel
	if err := r.db.SelectContext(ctx, &rows, query, entryID); err != nil {
		return nil, crerr.Wrap(err, "list picks by entry")
	}
	return picksFromRows(rows), nil
}

func (r *PickRepository) List(ctx context.Context) ([]pick.Pick, error) {
	query := `SELECT ` + pickColumns + ` FROM picks ORDER BY entry_public_id, week`

	var rows []pickTableModel
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, crerr.Wrap(err, "list picks")
	}
	return picksFromRows(rows), nil
}

// Update is a compare-and-set on (week, team_name, updated_at).
func (r *PickRepository) Update(ctx context.Context, expected, next pick.Pick) error {
	const query = `
UPDATE picks
SET week = $2, team_name = $3, updated_at = $4
WHERE public_id = $1
  AND week = $5
  AND team_name = $6
  AND updated_at = $7`

	res, err := r.db.ExecContext(ctx, query,
		expected.ID,
		next.Week,
		next.TeamName,
		next.UpdatedAt,
		expected.Week,
		expected.TeamName,
		expected.UpdatedAt,
	)
	if err != nil {
		return mapConstraintError(err, "update pick")
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return crerr.Wrap(err, "update pick rows affected")
	}
	if affected == 0 {
		return crerr.Wrapf(pick.ErrStaleWrite, "update pick %s", expected.ID)
	}
	return nil
}

func (r *PickRepository) ReferencesTeam(ctx context.Context, teamName string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM picks WHERE team_name = $1)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, teamName); err != nil {
		return false, crerr.Wrap(err, "check pick team reference")
	}
	return exists, nil
}

func pickToRow(item pick.Pick) pickTableModel {
	return pickTableModel{
		PublicID:      item.ID,
		EntryPublicID: item.EntryID,
		Week:          item.Week,
		TeamName:      item.TeamName,
		CreatedAt:     item.CreatedAt,
		UpdatedAt:     item.UpdatedAt,
	}
}

func pickFromRow(row pickTableModel) pick.Pick {
	return pick.Pick{
		ID:        row.PublicID,
		EntryID:   row.EntryPublicID,
		Week:      row.Week,
		TeamName:  row.TeamName,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func picksFromRows(rows []pickTableModel) []pick.Pick {
	out := make([]pick.Pick, 0, len(rows))
	for _, row := range rows {
		out = append(out, pickFromRow(row))
	}
	return out
}
