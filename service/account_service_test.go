package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"packbot/events"
	"packbot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestAccountService_GetAccount_UnknownID(t *testing.T) {
	ctx := context.Background()

	// Setup mocks
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)

	mockUoW.SetRepositories(mockAccountRepo, nil, nil, nil)

	service := NewAccountService(mockFactory)

	// Unknown IDs come back as zero-valued accounts, not errors
	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockAccountRepo.On("GetByDiscordID", ctx, int64(123456)).Return(&models.Account{DiscordID: 123456}, nil)

	account, err := service.GetAccount(ctx, 123456)

	assert.NoError(t, err)
	assert.Equal(t, int64(123456), account.DiscordID)
	assert.Equal(t, int64(0), account.Balance)
	assert.Nil(t, account.LastDailyClaim)

	mockFactory.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
	mockAccountRepo.AssertExpectations(t)
}

func TestAccountService_ClaimDaily_FirstClaim(t *testing.T) {
	ctx := context.Background()

	// Setup mocks
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)
	mockPublisher := new(MockEventPublisher)

	mockUoW.SetRepositories(mockAccountRepo, nil, nil, mockPublisher)

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	service := NewAccountService(mockFactory).(*accountService)
	service.now = func() time.Time { return now }

	// Mock expectations
	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockAccountRepo.On("GetByDiscordID", ctx, int64(123456)).Return(&models.Account{DiscordID: 123456}, nil)
	mockAccountRepo.On("AddBalance", ctx, int64(123456), DailyReward).Return(DailyReward, nil)
	mockAccountRepo.On("SetLastDailyClaim", ctx, int64(123456), now).Return(nil)

	mockPublisher.On("Publish", mock.MatchedBy(func(e events.Event) bool {
		bc, ok := e.(events.BalanceChangeEvent)
		return ok && bc.DiscordID == 123456 && bc.ChangeAmount == DailyReward && bc.Reason == "daily_claim"
	})).Return()

	newBalance, err := service.ClaimDaily(ctx, 123456)

	assert.NoError(t, err)
	assert.Equal(t, DailyReward, newBalance)

	mockFactory.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
	mockAccountRepo.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
}

func TestAccountService_ClaimDaily_OnCooldown(t *testing.T) {
	ctx := context.Background()

	// Setup mocks
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)

	mockUoW.SetRepositories(mockAccountRepo, nil, nil, nil)

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	lastClaim := now.Add(-time.Hour)
	service := NewAccountService(mockFactory).(*accountService)
	service.now = func() time.Time { return now }

	// Mock expectations - no Commit since the claim is rejected
	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockAccountRepo.On("GetByDiscordID", ctx, int64(123456)).Return(&models.Account{
		DiscordID:      123456,
		Balance:        500,
		LastDailyClaim: &lastClaim,
	}, nil)

	newBalance, err := service.ClaimDaily(ctx, 123456)

	assert.Error(t, err)
	assert.ErrorIs(t, err, ErrDailyCooldown)
	assert.Equal(t, int64(0), newBalance)

	var cooldownErr *CooldownError
	assert.ErrorAs(t, err, &cooldownErr)
	assert.Equal(t, 23*time.Hour, cooldownErr.Remaining)

	mockAccountRepo.AssertNotCalled(t, "AddBalance")
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestAccountService_ClaimDaily_CooldownExpired(t *testing.T) {
	ctx := context.Background()

	// Setup mocks
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)
	mockPublisher := new(MockEventPublisher)

	mockUoW.SetRepositories(mockAccountRepo, nil, nil, mockPublisher)

	now := time.Date(2024, 6, 2, 12, 0, 0, 0, time.UTC)
	lastClaim := now.Add(-DailyCooldown)
	service := NewAccountService(mockFactory).(*accountService)
	service.now = func() time.Time { return now }

	// Mock expectations
	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockAccountRepo.On("GetByDiscordID", ctx, int64(123456)).Return(&models.Account{
		DiscordID:      123456,
		Balance:        500,
		LastDailyClaim: &lastClaim,
	}, nil)
	mockAccountRepo.On("AddBalance", ctx, int64(123456), DailyReward).Return(int64(500)+DailyReward, nil)
	mockAccountRepo.On("SetLastDailyClaim", ctx, int64(123456), now).Return(nil)
	mockPublisher.On("Publish", mock.Anything).Return()

	newBalance, err := service.ClaimDaily(ctx, 123456)

	assert.NoError(t, err)
	assert.Equal(t, int64(500)+DailyReward, newBalance)

	mockAccountRepo.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
}

func TestAccountService_GrantCoins(t *testing.T) {
	ctx := context.Background()

	// Setup mocks
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)
	mockPublisher := new(MockEventPublisher)

	mockUoW.SetRepositories(mockAccountRepo, nil, nil, mockPublisher)

	service := NewAccountService(mockFactory)

	// Mock expectations
	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockAccountRepo.On("AddBalance", ctx, int64(123456), int64(100)).Return(int64(350), nil)
	mockPublisher.On("Publish", mock.MatchedBy(func(e events.Event) bool {
		bc, ok := e.(events.BalanceChangeEvent)
		return ok && bc.NewBalance == 350 && bc.Reason == "admin_grant"
	})).Return()

	newBalance, err := service.GrantCoins(ctx, 123456, 100, "admin_grant")

	assert.NoError(t, err)
	assert.Equal(t, int64(350), newBalance)

	mockAccountRepo.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
}

func TestAccountService_GrantCoins_RejectsNonPositiveAmount(t *testing.T) {
	ctx := context.Background()

	mockFactory := new(MockUnitOfWorkFactory)
	service := NewAccountService(mockFactory)

	_, err := service.GrantCoins(ctx, 123456, 0, "noop")
	assert.Error(t, err)

	_, err = service.GrantCoins(ctx, 123456, -5, "noop")
	assert.Error(t, err)

	mockFactory.AssertNotCalled(t, "Create")
}

func TestAccountService_ClaimDaily_AddBalanceError(t *testing.T) {
	ctx := context.Background()

	// Setup mocks
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)

	mockUoW.SetRepositories(mockAccountRepo, nil, nil, nil)

	service := NewAccountService(mockFactory)

	// Mock expectations - error path rolls back
	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockAccountRepo.On("GetByDiscordID", ctx, int64(123456)).Return(&models.Account{DiscordID: 123456}, nil)
	mockAccountRepo.On("AddBalance", ctx, int64(123456), DailyReward).Return(int64(0), errors.New("database error"))

	_, err := service.ClaimDaily(ctx, 123456)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to grant daily reward")

	mockUoW.AssertNotCalled(t, "Commit")
}
