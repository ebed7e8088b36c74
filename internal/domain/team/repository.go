package team

import "context"

// Repository describes team persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]Team, error)
	GetByID(ctx context.Context, teamID string) (Team, bool, error)
	GetByName(ctx context.Context, name string) (Team, bool, error)
	// Create and Rename return ErrDuplicateTeam when the name is taken.
	Create(ctx context.Context, t Team) error
	Rename(ctx context.Context, teamID, name string) error
	// Delete returns ErrTeamInUse when the store still holds references.
	Delete(ctx context.Context, teamID string) error
}
