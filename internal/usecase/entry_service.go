package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/survivor-pool/internal/domain/access"
	"github.com/riskibarqy/survivor-pool/internal/domain/entry"
	"github.com/riskibarqy/survivor-pool/internal/domain/user"
	idgen "github.com/riskibarqy/survivor-pool/internal/platform/id"
	"github.com/riskibarqy/survivor-pool/internal/platform/logging"
)

type EntryService struct {
	userRepo  user.Repository
	entryRepo entry.Repository
	idGen     idgen.Generator
	logger    *logging.Logger
	now       func() time.Time
}

func NewEntryService(
	userRepo user.Repository,
	entryRepo entry.Repository,
	idGen idgen.Generator,
	logger *logging.Logger,
) *EntryService {
	if logger == nil {
		logger = logging.Default()
	}

	return &EntryService{
		userRepo:  userRepo,
		entryRepo: entryRepo,
		idGen:     idGen,
		logger:    logger,
		now:       time.Now,
	}
}

// CreateEntry registers a new unverified entry. An empty ownerEmail means the actor.
func (s *EntryService) CreateEntry(ctx context.Context, actor access.Actor, ownerEmail, nickname string) (entry.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EntryService.CreateEntry")
	defer span.End()

	ownerEmail = user.NormalizeEmail(ownerEmail)
	if ownerEmail == "" {
		ownerEmail = user.NormalizeEmail(actor.Email)
	}
	if err := authorize(actor, access.OpCreateEntry, ownerEmail); err != nil {
		return entry.Entry{}, err
	}

	nickname, err := entry.NormalizeNickname(nickname)
	if err != nil {
		return entry.Entry{}, err
	}

	if _, exists, err := s.userRepo.GetByEmail(ctx, ownerEmail); err != nil {
		return entry.Entry{}, fmt.Errorf("get owner: %w", err)
	} else if !exists {
		return entry.Entry{}, fmt.Errorf("%w: user=%s", ErrNotFound, ownerEmail)
	}

	entryID, err := s.idGen.NewID()
	if err != nil {
		return entry.Entry{}, fmt.Errorf("generate entry id: %w", err)
	}

	item := entry.Entry{
		ID:         entryID,
		OwnerEmail: ownerEmail,
		Nickname:   nickname,
		CreatedAt:  s.now().UTC(),
	}
	if err := item.Validate(); err != nil {
		return entry.Entry{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.entryRepo.Create(ctx, item); err != nil {
		return entry.Entry{}, fmt.Errorf("create entry: %w", err)
	}

	s.logger.InfoContext(ctx, "entry created",
		"entry_id", item.ID,
		"owner", item.OwnerEmail,
	)

	return item, nil
}

// VerifyEntry marks an entry eligible to pick. Verifying twice is a no-op.
func (s *EntryService) VerifyEntry(ctx context.Context, actor access.Actor, entryID string) (entry.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EntryService.VerifyEntry")
	defer span.End()

	if err := authorize(actor, access.OpVerifyEntry, ""); err != nil {
		return entry.Entry{}, err
	}

	item, err := s.getEntry(ctx, entryID)
	if err != nil {
		return entry.Entry{}, err
	}
	if item.Verified {
		return item, nil
	}

	updated, err := s.entryRepo.MarkVerified(ctx, item.ID)
	if err != nil {
		return entry.Entry{}, fmt.Errorf("mark entry verified: %w", err)
	}
	if !updated {
		return entry.Entry{}, fmt.Errorf("%w: entry=%s", ErrNotFound, item.ID)
	}

	s.logger.InfoContext(ctx, "entry verified",
		"entry_id", item.ID,
		"owner", item.OwnerEmail,
		"actor", actor.Email,
	)

	item.Verified = true
	return item, nil
}

func (s *EntryService) ListEntriesFor(ctx context.Context, actor access.Actor, email string) ([]entry.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EntryService.ListEntriesFor")
	defer span.End()

	email = user.NormalizeEmail(email)
	if email == "" {
		email = user.NormalizeEmail(actor.Email)
	}
	if err := authorize(actor, access.OpViewOwn, email); err != nil {
		return nil, err
	}

	items, err := s.entryRepo.ListByOwner(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("list entries by owner: %w", err)
	}

	sortEntries(items)
	return items, nil
}

func (s *EntryService) ListAll(ctx context.Context, actor access.Actor) ([]entry.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EntryService.ListAll")
	defer span.End()

	if err := authorize(actor, access.OpViewAll, ""); err != nil {
		return nil, err
	}

	items, err := s.entryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	sortEntries(items)
	return items, nil
}

func (s *EntryService) getEntry(ctx context.Context, entryID string) (entry.Entry, error) {
	return loadEntry(ctx, s.entryRepo, entryID)
}

func loadEntry(ctx context.Context, repo entry.Repository, entryID string) (entry.Entry, error) {
	entryID = strings.TrimSpace(entryID)
	if entryID == "" {
		return entry.Entry{}, fmt.Errorf("%w: entry id is required", ErrInvalidInput)
	}

	item, exists, err := repo.GetByID(ctx, entryID)
	if err != nil {
		return entry.Entry{}, fmt.Errorf("get entry by id: %w", err)
	}
	if !exists {
		return entry.Entry{}, fmt.Errorf("%w: entry=%s", ErrNotFound, entryID)
	}

	return item, nil
}

func sortEntries(items []entry.Entry) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].OwnerEmail != items[j].OwnerEmail {
			return items[i].OwnerEmail < items[j].OwnerEmail
		}
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].ID < items[j].ID
	})
}
