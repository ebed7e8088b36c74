package result

import "context"

// Repository describes result persistence needs from use cases.
type Repository interface {
	// Upsert replaces any stored result for (r.Week, r.TeamName).
	Upsert(ctx context.Context, r Result) error
	Get(ctx context.Context, week int, teamName string) (Result, bool, error)
	List(ctx context.Context) ([]Result, error)
	ListByWeek(ctx context.Context, week int) ([]Result, error)
	ReferencesTeam(ctx context.Context, teamName string) (bool, error)
}
