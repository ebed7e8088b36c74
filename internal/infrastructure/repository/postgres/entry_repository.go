package postgres

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/survivor-pool/internal/domain/entry"
)

type EntryRepository struct {
	db *sqlx.DB
}

func NewEntryRepository(db *sqlx.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

const entryColumns = `public_id, owner_email, nickname, verified, created_at`

func (r *EntryRepository) Create(ctx context.Context, item entry.Entry) error {
	const query = `
INSERT INTO entries (public_id, owner_email, nickname, verified, created_at)
VALUES (:public_id, :owner_email, :nickname, :verified, :created_at)`

	_, err := r.db.NamedExecContext(ctx, query, entryTableModel{
		PublicID:   item.ID,
		OwnerEmail: item.OwnerEmail,
		Nickname:   item.Nickname,
		Verified:   item.Verified,
		CreatedAt:  item.CreatedAt,
	})
	return mapConstraintError(err, "insert entry")
}

func (r *EntryRepository) GetByID(ctx context.Context, entryID string) (entry.Entry, bool, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE public_id = $1`

	var row entryTableModel
	if err := r.db.GetContext(ctx, &row, query, entryID); err != nil {
		if isNotFound(err) {
			return entry.Entry{}, false, nil
		}
		return entry.Entry{}, false, crerr.Wrap(err, "get entry by id")
	}
	return entryFromRow(row), true, nil
}

func (r *EntryRepository) ListByOwner(ctx context.Context, ownerEmail string) ([]entry.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE owner_email = $1 ORDER BY id`

	var rows []entryTableModel
	if err := r.db.SelectContext(ctx, &rows, query, ownerEmail); err != nil {
		return nil, crerr.Wrap(err, "list entries by owner")
	}
	return entriesFromRows(rows), nil
}

func (r *EntryRepository) List(ctx context.Context) ([]entry.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries ORDER BY id`

	var rows []entryTableModel
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, crerr.Wrap(err, "list entries")
	}
	return entriesFromRows(rows), nil
}

func (r *EntryRepository) MarkVerified(ctx context.Context, entryID string) (bool, error) {
	const query = `UPDATE entries SET verified = TRUE WHERE public_id = $1`

	res, err := r.db.ExecContext(ctx, query, entryID)
	if err != nil {
		return false, crerr.Wrap(err, "mark entry verified")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, crerr.Wrap(err, "mark entry verified rows affected")
	}
	return affected > 0, nil
}

func entryFromRow(row entryTableModel) entry.Entry {
	return entry.Entry{
		ID:         row.PublicID,
		OwnerEmail: row.OwnerEmail,
		Nickname:   row.Nickname,
		Verified:   row.Verified,
		CreatedAt:  row.CreatedAt,
	}
}

func entriesFromRows(rows []entryTableModel) []entry.Entry {
	out := make([]entry.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, entryFromRow(row))
	}
	return out
}
