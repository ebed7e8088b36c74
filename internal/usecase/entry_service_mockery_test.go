package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/riskibarqy/survivor-pool/internal/domain/access"
	"github.com/riskibarqy/survivor-pool/internal/domain/entry"
	"github.com/riskibarqy/survivor-pool/internal/infrastructure/repository/memory"
	entrymock "github.com/riskibarqy/survivor-pool/internal/mocks/domain/entry"
)

func TestEntryService_VerifyEntry_IdempotentUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.WithValue(context.Background(), "trace_id", "trace-verify")
	entryRepo := entrymock.NewRepository(t)
	service := NewEntryService(memory.NewUserRepository(), entryRepo, &sequenceIDs{prefix: "entry"}, nil)
	manager := access.Actor{Email: "manager@pool.test", Role: access.RoleManager}

	entryRepo.
		On("GetByID", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), "entry-7").
		Return(entry.Entry{ID: "entry-7", OwnerEmail: "p@pool.test", Nickname: "Seven", Verified: true}, true, nil).
		Once()

	got, err := service.VerifyEntry(ctx, manager, "entry-7")
	if err != nil {
		t.Fatalf("verify entry: %v", err)
	}
	if !got.Verified {
		t.Fatalf("expected verified entry")
	}
	entryRepo.AssertNotCalled(t, "MarkVerified", mock.Anything, mock.Anything)
}

func TestEntryService_VerifyEntry_NotFoundUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	entryRepo := entrymock.NewRepository(t)
	service := NewEntryService(memory.NewUserRepository(), entryRepo, &sequenceIDs{prefix: "entry"}, nil)
	manager := access.Actor{Email: "manager@pool.test", Role: access.RoleManager}

	entryRepo.
		On("GetByID", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), "missing").
		Return(entry.Entry{}, false, nil).
		Once()

	_, err := service.VerifyEntry(ctx, manager, "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEntryService_ListAll_ForbiddenForPlayerUsingMockery(t *testing.T) {
	t.Parallel()

	entryRepo := entrymock.NewRepository(t)
	service := NewEntryService(memory.NewUserRepository(), entryRepo, &sequenceIDs{prefix: "entry"}, nil)
	player := access.Actor{Email: "p@pool.test", Role: access.RolePlayer}

	_, err := service.ListAll(context.Background(), player)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	entryRepo.AssertNotCalled(t, "List", mock.Anything)
}
