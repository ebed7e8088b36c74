package entry

import "context"

// Repository describes entry persistence needs from use cases.
type Repository interface {
	Create(ctx context.Context, e Entry) error
	GetByID(ctx context.Context, entryID string) (Entry, bool, error)
	ListByOwner(ctx context.Context, ownerEmail string) ([]Entry, error)
	List(ctx context.Context) ([]Entry, error)
	// MarkVerified sets the flag; it never clears it.
	MarkVerified(ctx context.Context, entryID string) (bool, error)
}
