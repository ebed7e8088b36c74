package cache

import (
	"context"
	"time"

	"github.com/riskibarqy/survivor-pool/internal/domain/team"
	basecache "github.com/riskibarqy/survivor-pool/internal/platform/cache"
)

const teamKeyPrefix = "team:"

type cachedTeam struct {
	value  team.Team
	exists bool
}

// TeamRepository is a read-through roster cache. Every mutation clears the roster keys.
type TeamRepository struct {
	next  team.Repository
	list  *basecache.Store[[]team.Team]
	items *basecache.Store[cachedTeam]
}

func NewTeamRepository(next team.Repository, ttl time.Duration) *TeamRepository {
	return &TeamRepository{
		next:  next,
		list:  basecache.NewStore[[]team.Team](ttl),
		items: basecache.NewStore[cachedTeam](ttl),
	}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	items, err := r.list.GetOrLoad(ctx, teamKeyPrefix+"list", func(ctx context.Context) ([]team.Team, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]team.Team(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	return append([]team.Team(nil), items...), nil
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	cached, err := r.items.GetOrLoad(ctx, teamKeyPrefix+"id:"+teamID, func(ctx context.Context) (cachedTeam, error) {
		item, exists, err := r.next.GetByID(ctx, teamID)
		if err != nil {
			return cachedTeam{}, err
		}
		return cachedTeam{value: item, exists: exists}, nil
	})
	if err != nil {
		return team.Team{}, false, err
	}

	return cached.value, cached.exists, nil
}

func (r *TeamRepository) GetByName(ctx context.Context, name string) (team.Team, bool, error) {
	cached, err := r.items.GetOrLoad(ctx, teamKeyPrefix+"name:"+name, func(ctx context.Context) (cachedTeam, error) {
		item, exists, err := r.next.GetByName(ctx, name)
		if err != nil {
			return cachedTeam{}, err
		}
		return cachedTeam{value: item, exists: exists}, nil
	})
	if err != nil {
		return team.Team{}, false, err
	}

	return cached.value, cached.exists, nil
}

func (r *TeamRepository) Create(ctx context.Context, item team.Team) error {
	defer r.invalidate()
	return r.next.Create(ctx, item)
}

func (r *TeamRepository) Rename(ctx context.Context, teamID, name string) error {
	defer r.invalidate()
	return r.next.Rename(ctx, teamID, name)
}

func (r *TeamRepository) Delete(ctx context.Context, teamID string) error {
	defer r.invalidate()
	return r.next.Delete(ctx, teamID)
}

func (r *TeamRepository) invalidate() {
	r.list.InvalidatePrefix(teamKeyPrefix)
	r.items.InvalidatePrefix(teamKeyPrefix)
}
