package service

import (
	"context"
	"testing"

	"packbot/events"
	"packbot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func duelHand(discordID int64, scores ...float64) []*models.OwnedCard {
	cards := make([]*models.OwnedCard, 0, len(scores))
	for i, score := range scores {
		cards = append(cards, &models.OwnedCard{
			ID:        int64(i + 1),
			DiscordID: discordID,
			Name:      "CARD",
			Attack:    score,
			Life:      0,
			Rarity:    models.RarityCommon,
		})
	}
	return cards
}

func TestDuelService_Challenge_Validation(t *testing.T) {
	ctx := context.Background()

	mockFactory := new(MockUnitOfWorkFactory)
	service := NewDuelService(mockFactory)

	t.Run("self challenge", func(t *testing.T) {
		err := service.Challenge(ctx, 111, 111, false)
		assert.ErrorIs(t, err, ErrSelfChallenge)
	})

	t.Run("bot target", func(t *testing.T) {
		err := service.Challenge(ctx, 111, 222, true)
		assert.ErrorIs(t, err, ErrInvalidTarget)
	})

	t.Run("new challenge overwrites pending one", func(t *testing.T) {
		require.NoError(t, service.Challenge(ctx, 111, 222, false))
		require.NoError(t, service.Challenge(ctx, 333, 222, false))

		challengerID, ok := service.PendingChallenger(222)
		require.True(t, ok)
		assert.Equal(t, int64(333), challengerID)
	})

	t.Run("pending lookup", func(t *testing.T) {
		_, ok := service.PendingChallenger(999)
		assert.False(t, ok)
	})
}

func TestDuelService_Accept_NoPendingChallenge(t *testing.T) {
	ctx := context.Background()

	mockFactory := new(MockUnitOfWorkFactory)
	service := NewDuelService(mockFactory)

	result, err := service.Accept(ctx, 222, 111)

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrNoPendingChallenge)
	mockFactory.AssertNotCalled(t, "Create")
}

func TestDuelService_Accept_ChallengerMismatch(t *testing.T) {
	ctx := context.Background()

	mockFactory := new(MockUnitOfWorkFactory)
	service := NewDuelService(mockFactory)
	require.NoError(t, service.Challenge(ctx, 111, 222, false))

	result, err := service.Accept(ctx, 222, 999)

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrChallengerMismatch)

	// The real challenge stays in place
	challengerID, ok := service.PendingChallenger(222)
	require.True(t, ok)
	assert.Equal(t, int64(111), challengerID)
	mockFactory.AssertNotCalled(t, "Create")
}

func TestDuelService_Accept_Decisive(t *testing.T) {
	ctx := context.Background()

	// Setup mocks
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)
	mockCardRepo := new(MockCardRepository)
	mockPublisher := new(MockEventPublisher)

	mockUoW.SetRepositories(mockAccountRepo, mockCardRepo, nil, mockPublisher)

	service := NewDuelService(mockFactory)
	require.NoError(t, service.Challenge(ctx, 111, 222, false))

	// Mock expectations
	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockAccountRepo.On("TryDeduct", ctx, int64(111), DuelStake).Return(true, nil)
	mockAccountRepo.On("TryDeduct", ctx, int64(222), DuelStake).Return(true, nil)
	mockAccountRepo.On("RecordSpend", ctx, int64(111), DuelStake).Return(nil)
	mockAccountRepo.On("RecordSpend", ctx, int64(222), DuelStake).Return(nil)

	mockCardRepo.On("GetByOwner", ctx, int64(111)).Return(duelHand(111, 10, 20), nil)
	mockCardRepo.On("GetByOwner", ctx, int64(222)).Return(duelHand(222, 50, 60), nil)

	mockAccountRepo.On("AddBalance", ctx, int64(222), DuelReward).Return(int64(175), nil)
	mockAccountRepo.On("IncrementWins", ctx, int64(222)).Return(nil)

	mockPublisher.On("Publish", mock.MatchedBy(func(e events.Event) bool {
		dr, ok := e.(events.DuelResolvedEvent)
		return ok && dr.ChallengerID == 111 && dr.AccepterID == 222 && dr.WinnerID == 222 && !dr.Tie
	})).Return()

	result, err := service.Accept(ctx, 222, 111)

	assert.NoError(t, err)
	require.NotNil(t, result.WinnerID)
	assert.Equal(t, int64(222), *result.WinnerID)
	assert.False(t, result.Tie)
	assert.Equal(t, float64(30), result.Challenger.Score)
	assert.Equal(t, float64(110), result.Accepter.Score)
	assert.Equal(t, DuelStake, result.Stake)
	assert.Equal(t, DuelReward, result.Reward)

	// The challenge is consumed
	_, ok := service.PendingChallenger(222)
	assert.False(t, ok)

	mockAccountRepo.AssertExpectations(t)
	mockCardRepo.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
}

func TestDuelService_Accept_Tie(t *testing.T) {
	ctx := context.Background()

	// Setup mocks
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)
	mockCardRepo := new(MockCardRepository)
	mockPublisher := new(MockEventPublisher)

	mockUoW.SetRepositories(mockAccountRepo, mockCardRepo, nil, mockPublisher)

	service := NewDuelService(mockFactory)
	require.NoError(t, service.Challenge(ctx, 111, 222, false))

	// Mock expectations
	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockAccountRepo.On("TryDeduct", ctx, mock.Anything, DuelStake).Return(true, nil)
	mockAccountRepo.On("RecordSpend", ctx, mock.Anything, DuelStake).Return(nil)

	mockCardRepo.On("GetByOwner", ctx, int64(111)).Return(duelHand(111, 42), nil)
	mockCardRepo.On("GetByOwner", ctx, int64(222)).Return(duelHand(222, 42), nil)

	mockPublisher.On("Publish", mock.MatchedBy(func(e events.Event) bool {
		dr, ok := e.(events.DuelResolvedEvent)
		return ok && dr.Tie && dr.WinnerID == 0
	})).Return()

	result, err := service.Accept(ctx, 222, 111)

	assert.NoError(t, err)
	assert.True(t, result.Tie)
	assert.Nil(t, result.WinnerID)

	// A tie pays nobody and refunds nothing
	mockAccountRepo.AssertNotCalled(t, "AddBalance")
	mockAccountRepo.AssertNotCalled(t, "IncrementWins")
	mockUoW.AssertExpectations(t)
}

func TestDuelService_Accept_NoCardsRollsBack(t *testing.T) {
	ctx := context.Background()

	// Setup mocks
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)
	mockCardRepo := new(MockCardRepository)

	mockUoW.SetRepositories(mockAccountRepo, mockCardRepo, nil, nil)

	service := NewDuelService(mockFactory)
	require.NoError(t, service.Challenge(ctx, 111, 222, false))

	// Mock expectations - stakes come off but the transaction never
	// commits, so both deductions are undone
	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockAccountRepo.On("TryDeduct", ctx, mock.Anything, DuelStake).Return(true, nil)
	mockAccountRepo.On("RecordSpend", ctx, mock.Anything, DuelStake).Return(nil)

	mockCardRepo.On("GetByOwner", ctx, int64(111)).Return(duelHand(111, 10), nil)
	mockCardRepo.On("GetByOwner", ctx, int64(222)).Return([]*models.OwnedCard{}, nil)

	result, err := service.Accept(ctx, 222, 111)

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrNoCards)

	var noCardsErr *NoCardsError
	assert.ErrorAs(t, err, &noCardsErr)
	assert.Equal(t, int64(222), noCardsErr.DiscordID)

	// Accepting consumed the challenge even though the duel failed
	_, ok := service.PendingChallenger(222)
	assert.False(t, ok)

	mockUoW.AssertNotCalled(t, "Commit")
}

func TestDuelService_Accept_HandCapped(t *testing.T) {
	ctx := context.Background()

	// Setup mocks
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)
	mockCardRepo := new(MockCardRepository)
	mockPublisher := new(MockEventPublisher)

	mockUoW.SetRepositories(mockAccountRepo, mockCardRepo, nil, mockPublisher)

	service := NewDuelService(mockFactory)
	require.NoError(t, service.Challenge(ctx, 111, 222, false))

	// Mock expectations
	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockAccountRepo.On("TryDeduct", ctx, mock.Anything, DuelStake).Return(true, nil)
	mockAccountRepo.On("RecordSpend", ctx, mock.Anything, DuelStake).Return(nil)

	// Seven cards of 10 each: the sampled hand holds exactly five
	mockCardRepo.On("GetByOwner", ctx, int64(111)).Return(duelHand(111, 10, 10, 10, 10, 10, 10, 10), nil)
	mockCardRepo.On("GetByOwner", ctx, int64(222)).Return(duelHand(222, 49), nil)

	mockAccountRepo.On("AddBalance", ctx, int64(111), DuelReward).Return(int64(100), nil)
	mockAccountRepo.On("IncrementWins", ctx, int64(111)).Return(nil)
	mockPublisher.On("Publish", mock.Anything).Return()

	result, err := service.Accept(ctx, 222, 111)

	assert.NoError(t, err)
	assert.Equal(t, float64(50), result.Challenger.Score)
	assert.Len(t, result.Challenger.Hand, DuelHandSize)
	require.NotNil(t, result.WinnerID)
	assert.Equal(t, int64(111), *result.WinnerID)
}
