package pick

import (
	"context"
	"errors"
)

// ErrStaleWrite is returned by Update when the stored pick no longer matches the expected version.
var ErrStaleWrite = errors.New("pick changed since it was read")

// Repository describes pick ledger persistence needs from use cases.
type Repository interface {
	// Create returns ErrPickAlreadyExists or ErrTeamAlreadyUsed when the insert would break
	// per-entry uniqueness.
	Create(ctx context.Context, p Pick) error
	GetByID(ctx context.Context, pickID string) (Pick, bool, error)
	ListByEntry(ctx context.Context, entryID string) ([]Pick, error)
	List(ctx context.Context) ([]Pick, error)
	// Update overwrites expected.ID with next when the stored row still equals expected.
	Update(ctx context.Context, expected, next Pick) error
	ReferencesTeam(ctx context.Context, teamName string) (bool, error)
}
