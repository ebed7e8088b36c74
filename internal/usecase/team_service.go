package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/riskibarqy/survivor-pool/internal/domain/access"
	"github.com/riskibarqy/survivor-pool/internal/domain/pick"
	"github.com/riskibarqy/survivor-pool/internal/domain/result"
	"github.com/riskibarqy/survivor-pool/internal/domain/team"
	idgen "github.com/riskibarqy/survivor-pool/internal/platform/id"
	"github.com/riskibarqy/survivor-pool/internal/platform/logging"
)

type TeamService struct {
	teamRepo   team.Repository
	pickRepo   pick.Repository
	resultRepo result.Repository
	roster     *RosterGuard
	idGen      idgen.Generator
	logger     *logging.Logger
}

func NewTeamService(
	teamRepo team.Repository,
	pickRepo pick.Repository,
	resultRepo result.Repository,
	roster *RosterGuard,
	idGen idgen.Generator,
	logger *logging.Logger,
) *TeamService {
	if logger == nil {
		logger = logging.Default()
	}

	return &TeamService{
		teamRepo:   teamRepo,
		pickRepo:   pickRepo,
		resultRepo: resultRepo,
		roster:     roster,
		idGen:      idGen,
		logger:     logger,
	}
}

func (s *TeamService) ListTeams(ctx context.Context) ([]team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.ListTeams")
	defer span.End()

	items, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

func (s *TeamService) CreateTeam(ctx context.Context, actor access.Actor, name string) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.CreateTeam")
	defer span.End()

	if err := authorize(actor, access.OpManageTeams, ""); err != nil {
		return team.Team{}, err
	}

	name = team.NormalizeName(name)
	if name == "" {
		return team.Team{}, fmt.Errorf("%w: team name is required", ErrInvalidInput)
	}

	unlock := s.roster.exclusive()
	defer unlock()

	if _, exists, err := s.teamRepo.GetByName(ctx, name); err != nil {
		return team.Team{}, fmt.Errorf("get team by name: %w", err)
	} else if exists {
		return team.Team{}, fmt.Errorf("%w: %s", team.ErrDuplicateTeam, name)
	}

	teamID, err := s.idGen.NewID()
	if err != nil {
		return team.Team{}, fmt.Errorf("generate team id: %w", err)
	}

	item := team.Team{ID: teamID, Name: name}
	if err := item.Validate(); err != nil {
		return team.Team{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.teamRepo.Create(ctx, item); err != nil {
		return team.Team{}, fmt.Errorf("create team: %w", err)
	}

	s.logger.InfoContext(ctx, "team created",
		"team_id", item.ID,
		"team_name", item.Name,
		"actor", actor.Email,
	)

	return item, nil
}

func (s *TeamService) RenameTeam(ctx context.Context, actor access.Actor, teamID, name string) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.RenameTeam")
	defer span.End()

	if err := authorize(actor, access.OpManageTeams, ""); err != nil {
		return team.Team{}, err
	}

	name = team.NormalizeName(name)
	if name == "" {
		return team.Team{}, fmt.Errorf("%w: team name is required", ErrInvalidInput)
	}

	unlock := s.roster.exclusive()
	defer unlock()

	current, err := s.getTeam(ctx, teamID)
	if err != nil {
		return team.Team{}, err
	}
	if current.Name == name {
		return current, nil
	}

	if holder, exists, err := s.teamRepo.GetByName(ctx, name); err != nil {
		return team.Team{}, fmt.Errorf("get team by name: %w", err)
	} else if exists && holder.ID != current.ID {
		return team.Team{}, fmt.Errorf("%w: %s", team.ErrDuplicateTeam, name)
	}

	if err := s.ensureUnreferenced(ctx, current.Name); err != nil {
		return team.Team{}, err
	}

	if err := s.teamRepo.Rename(ctx, current.ID, name); err != nil {
		return team.Team{}, fmt.Errorf("rename team: %w", err)
	}

	s.logger.InfoContext(ctx, "team renamed",
		"team_id", current.ID,
		"from", current.Name,
		"to", name,
		"actor", actor.Email,
	)

	current.Name = name
	return current, nil
}

func (s *TeamService) DeleteTeam(ctx context.Context, actor access.Actor, teamID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.DeleteTeam")
	defer span.End()

	if err := authorize(actor, access.OpManageTeams, ""); err != nil {
		return err
	}

	unlock := s.roster.exclusive()
	defer unlock()

	current, err := s.getTeam(ctx, teamID)
	if err != nil {
		return err
	}
	if err := s.ensureUnreferenced(ctx, current.Name); err != nil {
		return err
	}

	if err := s.teamRepo.Delete(ctx, current.ID); err != nil {
		return fmt.Errorf("delete team: %w", err)
	}

	s.logger.InfoContext(ctx, "team deleted",
		"team_id", current.ID,
		"team_name", current.Name,
		"actor", actor.Email,
	)
	return nil
}

func (s *TeamService) getTeam(ctx context.Context, teamID string) (team.Team, error) {
	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return team.Team{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	item, exists, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return team.Team{}, fmt.Errorf("get team by id: %w", err)
	}
	if !exists {
		return team.Team{}, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}

	return item, nil
}

func (s *TeamService) ensureUnreferenced(ctx context.Context, name string) error {
	picked, err := s.pickRepo.ReferencesTeam(ctx, name)
	if err != nil {
		return fmt.Errorf("check pick references: %w", err)
	}
	if picked {
		return fmt.Errorf("%w: %s has picks", team.ErrTeamInUse, name)
	}

	recorded, err := s.resultRepo.ReferencesTeam(ctx, name)
	if err != nil {
		return fmt.Errorf("check result references: %w", err)
	}
	if recorded {
		return fmt.Errorf("%w: %s has results", team.ErrTeamInUse, name)
	}

	return nil
}

// teamExists resolves an exact roster name.
func teamExists(ctx context.Context, repo team.Repository, name string) error {
	if name == "" {
		return fmt.Errorf("%w: team name is empty", pick.ErrUnknownTeam)
	}
	_, exists, err := repo.GetByName(ctx, name)
	if err != nil {
		return fmt.Errorf("get team by name: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: %s", pick.ErrUnknownTeam, name)
	}
	return nil
}
