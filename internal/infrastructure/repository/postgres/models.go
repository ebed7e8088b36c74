package postgres

import "time"

type userTableModel struct {
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Role         string    `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
}

type teamTableModel struct {
	PublicID string `db:"public_id"`
	Name     string `db:"name"`
}

type entryTableModel struct {
	PublicID   string    `db:"public_id"`
	OwnerEmail string    `db:"owner_email"`
	Nickname   string    `db:"nickname"`
	Verified   bool      `db:"verified"`
	CreatedAt  time.Time `db:"created_at"`
}

type pickTableModel struct {
	PublicID      string    `db:"public_id"`
	EntryPublicID string    `db:"entry_public_id"`
	Week          int       `db:"week"`
	TeamName      string    `db:"team_name"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

type resultTableModel struct {
	Week       int       `db:"week"`
	TeamName   string    `db:"team_name"`
	Outcome    string    `db:"outcome"`
	RecordedAt time.Time `db:"recorded_at"`
}
