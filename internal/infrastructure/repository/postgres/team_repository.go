package postgres

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/survivor-pool/internal/domain/team"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	const query = `
SELECT public_id, name
FROM teams
ORDER BY name`

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, crerr.Wrap(err, "list teams")
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, team.Team{ID: row.PublicID, Name: row.Name})
	}
	return out, nil
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	const query = `
SELECT public_id, name
FROM teams
WHERE public_id = $1`

	return r.getOne(ctx, query, teamID, "get team by id")
}

func (r *TeamRepository) GetByName(ctx context.Context, name string) (team.Team, bool, error) {
	const query = `
SELECT public_id, name
FROM teams
WHERE name = $1`

	return r.getOne(ctx, query, name, "get team by name")
}

func (r *TeamRepository) Create(ctx context.Context, item team.Team) error {
	const query = `
INSERT INTO teams (public_id, name)
VALUES (:public_id, :name)`

	_, err := r.db.NamedExecContext(ctx, query, teamTableModel{PublicID: item.ID, Name: item.Name})
	return mapConstraintError(err, "insert team")
}

func (r *TeamRepository) Rename(ctx context.Context, teamID, name string) error {
	const query = `
UPDATE teams
SET name = $2, updated_at = NOW()
WHERE public_id = $1`

	_, err := r.db.ExecContext(ctx, query, teamID, name)
	return mapConstraintError(err, "rename team")
}

func (r *TeamRepository) Delete(ctx context.Context, teamID string) error {
	const query = `DELETE FROM teams WHERE public_id = $1`

	_, err := r.db.ExecContext(ctx, query, teamID)
	return mapConstraintError(err, "delete team")
}

// UpsertSeed inserts the roster names that are missing and leaves existing rows untouched.
func (r *TeamRepository) UpsertSeed(ctx context.Context, items []team.Team) error {
	const query = `
INSERT INTO teams (public_id, name)
VALUES (:public_id, :name)
ON CONFLICT DO NOTHING`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return crerr.Wrap(err, "begin tx for team seed")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range items {
		if _, err := tx.NamedExecContext(ctx, query, teamTableModel{PublicID: item.ID, Name: item.Name}); err != nil {
			return crerr.Wrapf(err, "seed team %s", item.Name)
		}
	}

	if err := tx.Commit(); err != nil {
		return crerr.Wrap(err, "commit team seed tx")
	}
	return nil
}

func (r *TeamRepository) getOne(ctx context.Context, query, arg, op string) (team.Team, bool, error) {
	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, arg); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, crerr.Wrap(err, op)
	}
	return team.Team{ID: row.PublicID, Name: row.Name}, true, nil
}
