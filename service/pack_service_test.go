package service

import (
	"context"
	"testing"

	"packbot/catalog"
	"packbot/events"
	"packbot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// newTestCatalog builds a catalog where every tier holds the same single
// card, so the drawn card is deterministic regardless of which tier the
// rarity roll lands on.
func newTestCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()

	def := catalog.CardDefinition{Name: "TESTCARD", ImageRef: "test.png", Attack: 10, Life: 5}
	tiers := map[models.Rarity][]catalog.CardDefinition{}
	for _, r := range models.Rarities {
		tiers[r] = []catalog.CardDefinition{def}
	}

	cat, err := catalog.New(tiers)
	require.NoError(t, err)
	return cat
}

func TestPackService_OpenPack_NewCard(t *testing.T) {
	ctx := context.Background()

	// Setup mocks
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)
	mockCardRepo := new(MockCardRepository)
	mockPublisher := new(MockEventPublisher)

	mockUoW.SetRepositories(mockAccountRepo, mockCardRepo, nil, mockPublisher)

	service := NewPackService(mockFactory, newTestCatalog(t))

	// Mock expectations - buyer had exactly the pack price
	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockAccountRepo.On("TryDeduct", ctx, int64(123456), PackCost).Return(true, nil)
	mockAccountRepo.On("RecordSpend", ctx, int64(123456), PackCost).Return(nil)
	mockAccountRepo.On("GetByDiscordID", ctx, int64(123456)).Return(&models.Account{DiscordID: 123456, Balance: 0, TotalSpent: PackCost}, nil)

	mockCardRepo.On("HasExact", ctx, mock.MatchedBy(func(c *models.OwnedCard) bool {
		return c.DiscordID == 123456 && c.Name == "TESTCARD"
	})).Return(false, nil)
	mockCardRepo.On("Append", ctx, mock.MatchedBy(func(c *models.OwnedCard) bool {
		return c.Name == "TESTCARD" && c.Attack == 10 && c.Life == 5 && c.Rarity.Valid()
	})).Return(nil)

	mockPublisher.On("Publish", mock.MatchedBy(func(e events.Event) bool {
		cd, ok := e.(events.CardDrawnEvent)
		return ok && cd.CardName == "TESTCARD" && !cd.Duplicate
	})).Return()

	result, err := service.OpenPack(ctx, 123456)

	assert.NoError(t, err)
	assert.False(t, result.Duplicate)
	assert.Equal(t, int64(0), result.Bonus)
	assert.Equal(t, int64(0), result.NewBalance)
	assert.Equal(t, "TESTCARD", result.Card.Name)

	mockFactory.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
	mockAccountRepo.AssertExpectations(t)
	mockCardRepo.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
}

func TestPackService_OpenPack_Duplicate(t *testing.T) {
	ctx := context.Background()

	// Setup mocks
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)
	mockCardRepo := new(MockCardRepository)
	mockPublisher := new(MockEventPublisher)

	mockUoW.SetRepositories(mockAccountRepo, mockCardRepo, nil, mockPublisher)

	service := NewPackService(mockFactory, newTestCatalog(t))

	// Mock expectations
	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockAccountRepo.On("TryDeduct", ctx, int64(123456), PackCost).Return(true, nil)
	mockAccountRepo.On("RecordSpend", ctx, int64(123456), PackCost).Return(nil)
	mockCardRepo.On("HasExact", ctx, mock.Anything).Return(true, nil)
	mockAccountRepo.On("AddBalance", ctx, int64(123456), PackDuplicateBonus).Return(PackDuplicateBonus, nil)
	mockAccountRepo.On("GetByDiscordID", ctx, int64(123456)).Return(&models.Account{DiscordID: 123456, Balance: PackDuplicateBonus}, nil)

	mockPublisher.On("Publish", mock.MatchedBy(func(e events.Event) bool {
		bc, ok := e.(events.BalanceChangeEvent)
		return ok && bc.ChangeAmount == PackDuplicateBonus && bc.Reason == "pack_duplicate_bonus"
	})).Return()
	mockPublisher.On("Publish", mock.MatchedBy(func(e events.Event) bool {
		cd, ok := e.(events.CardDrawnEvent)
		return ok && cd.Duplicate
	})).Return()

	result, err := service.OpenPack(ctx, 123456)

	assert.NoError(t, err)
	assert.True(t, result.Duplicate)
	assert.Equal(t, PackDuplicateBonus, result.Bonus)
	assert.Equal(t, PackDuplicateBonus, result.NewBalance)

	// A duplicate draw never lands in the collection
	mockCardRepo.AssertNotCalled(t, "Append")

	mockAccountRepo.AssertExpectations(t)
	mockCardRepo.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
}

func TestPackService_OpenPack_InsufficientFunds(t *testing.T) {
	ctx := context.Background()

	// Setup mocks
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)
	mockCardRepo := new(MockCardRepository)

	mockUoW.SetRepositories(mockAccountRepo, mockCardRepo, nil, nil)

	service := NewPackService(mockFactory, newTestCatalog(t))

	// Mock expectations - no Commit since the purchase fails
	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockAccountRepo.On("TryDeduct", ctx, int64(123456), PackCost).Return(false, nil)
	mockAccountRepo.On("GetByDiscordID", ctx, int64(123456)).Return(&models.Account{DiscordID: 123456, Balance: 10}, nil)

	result, err := service.OpenPack(ctx, 123456)

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	var fundsErr *InsufficientFundsError
	assert.ErrorAs(t, err, &fundsErr)
	assert.Equal(t, int64(10), fundsErr.Have)
	assert.Equal(t, PackCost, fundsErr.Need)

	mockCardRepo.AssertNotCalled(t, "Append")
	mockUoW.AssertNotCalled(t, "Commit")
}
