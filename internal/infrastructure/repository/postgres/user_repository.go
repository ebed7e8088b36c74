package postgres

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/survivor-pool/internal/domain/access"
	"github.com/riskibarqy/survivor-pool/internal/domain/user"
)

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, item user.User) error {
	const query = `
INSERT INTO users (email, password_hash, role, created_at)
VALUES (:email, :password_hash, :role, :created_at)`

	_, err := r.db.NamedExecContext(ctx, query, userTableModel{
		Email:        item.Email,
		PasswordHash: item.PasswordHash,
		Role:         string(item.Role),
		CreatedAt:    item.CreatedAt,
	})
	return mapConstraintError(err, "insert user")
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (user.User, bool, error) {
	const query = `
SELECT email, password_hash, role, created_at
FROM users
WHERE email = $1`

	var row userTableModel
	if err := r.db.GetContext(ctx, &row, query, email); err != nil {
		if isNotFound(err) {
			return user.User{}, false, nil
		}
		return user.User{}, false, crerr.Wrap(err, "get user by email")
	}

	return userFromRow(row), true, nil
}

func (r *UserRepository) List(ctx context.Context) ([]user.User, error) {
	const query = `
SELECT email, password_hash, role, created_at
FROM users
ORDER BY email`

	var rows []userTableModel
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, crerr.Wrap(err, "list users")
	}

	out := make([]user.User, 0, len(rows))
	for _, row := range rows {
		out = append(out, userFromRow(row))
	}
	return out, nil
}

func (r *UserRepository) UpdateRole(ctx context.Context, email string, role access.Role) (bool, error) {
	const query = `
UPDATE users
SET role = $2
WHERE email = $1`

	res, err := r.db.ExecContext(ctx, query, email, string(role))
	if err != nil {
		return false, crerr.Wrap(err, "update user role")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, crerr.Wrap(err, "update user role rows affected")
	}
	return affected > 0, nil
}

func userFromRow(row userTableModel) user.User {
	return user.User{
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		Role:         access.Role(row.Role),
		CreatedAt:    row.CreatedAt,
	}
}
