package service

import (
	"context"
	"time"

	"packbot/events"
	"packbot/models"

	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a mock implementation of AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetByDiscordID(ctx context.Context, discordID int64) (*models.Account, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) AddBalance(ctx context.Context, discordID int64, amount int64) (int64, error) {
	args := m.Called(ctx, discordID, amount)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountRepository) TryDeduct(ctx context.Context, discordID int64, amount int64) (bool, error) {
	args := m.Called(ctx, discordID, amount)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) RecordSpend(ctx context.Context, discordID int64, amount int64) error {
	args := m.Called(ctx, discordID, amount)
	return args.Error(0)
}

func (m *MockAccountRepository) SetLastDailyClaim(ctx context.Context, discordID int64, claimedAt time.Time) error {
	args := m.Called(ctx, discordID, claimedAt)
	return args.Error(0)
}

func (m *MockAccountRepository) IncrementWins(ctx context.Context, discordID int64) error {
	args := m.Called(ctx, discordID)
	return args.Error(0)
}

func (m *MockAccountRepository) TopByBalance(ctx context.Context, limit int) ([]*models.Account, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Account), args.Error(1)
}

// MockCardRepository is a mock implementation of CardRepository
type MockCardRepository struct {
	mock.Mock
}

func (m *MockCardRepository) GetByOwner(ctx context.Context, discordID int64) ([]*models.OwnedCard, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.OwnedCard), args.Error(1)
}

func (m *MockCardRepository) GetByOwnerAndRarity(ctx context.Context, discordID int64, rarity models.Rarity) ([]*models.OwnedCard, error) {
	args := m.Called(ctx, discordID, rarity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.OwnedCard), args.Error(1)
}

func (m *MockCardRepository) Append(ctx context.Context, card *models.OwnedCard) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *MockCardRepository) RemoveOne(ctx context.Context, card *models.OwnedCard) (bool, error) {
	args := m.Called(ctx, card)
	return args.Bool(0), args.Error(1)
}

func (m *MockCardRepository) RemoveByID(ctx context.Context, discordID int64, cardID int64) (bool, error) {
	args := m.Called(ctx, discordID, cardID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCardRepository) HasExact(ctx context.Context, card *models.OwnedCard) (bool, error) {
	args := m.Called(ctx, card)
	return args.Bool(0), args.Error(1)
}

func (m *MockCardRepository) HasNameRarity(ctx context.Context, discordID int64, name string, rarity models.Rarity) (bool, error) {
	args := m.Called(ctx, discordID, name, rarity)
	return args.Bool(0), args.Error(1)
}

// MockPresenceRepository is a mock implementation of PresenceRepository
type MockPresenceRepository struct {
	mock.Mock
}

func (m *MockPresenceRepository) Track(ctx context.Context, guildID, discordID int64, joinedAt time.Time) error {
	args := m.Called(ctx, guildID, discordID, joinedAt)
	return args.Error(0)
}

func (m *MockPresenceRepository) EnsureTracked(ctx context.Context, guildID, discordID int64, joinedAt time.Time) error {
	args := m.Called(ctx, guildID, discordID, joinedAt)
	return args.Error(0)
}

func (m *MockPresenceRepository) GetDueBefore(ctx context.Context, cutoff time.Time) ([]*models.PresenceRecord, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PresenceRecord), args.Error(1)
}

func (m *MockPresenceRepository) ResetClock(ctx context.Context, guildID, discordID int64, at time.Time) error {
	args := m.Called(ctx, guildID, discordID, at)
	return args.Error(0)
}

func (m *MockPresenceRepository) Remove(ctx context.Context, guildID, discordID int64) error {
	args := m.Called(ctx, guildID, discordID)
	return args.Error(0)
}

func (m *MockPresenceRepository) RemoveGuild(ctx context.Context, guildID int64) error {
	args := m.Called(ctx, guildID)
	return args.Error(0)
}

// MockGuildRoster is a mock implementation of GuildRoster
type MockGuildRoster struct {
	mock.Mock
}

func (m *MockGuildRoster) IsMember(guildID, discordID int64) (bool, error) {
	args := m.Called(guildID, discordID)
	return args.Bool(0), args.Error(1)
}

func (m *MockGuildRoster) GuildExists(guildID int64) bool {
	args := m.Called(guildID)
	return args.Bool(0)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// MockUnitOfWork is a mock implementation of UnitOfWork. Tests usually
// wire it through SetRepositories and expect Begin/Commit/Rollback.
type MockUnitOfWork struct {
	mock.Mock

	accountRepo  AccountRepository
	cardRepo     CardRepository
	presenceRepo PresenceRepository
	eventBus     EventPublisher
}

// SetRepositories wires the repositories returned by the getters.
func (m *MockUnitOfWork) SetRepositories(
	accountRepo AccountRepository,
	cardRepo CardRepository,
	presenceRepo PresenceRepository,
	eventBus EventPublisher,
) {
	m.accountRepo = accountRepo
	m.cardRepo = cardRepo
	m.presenceRepo = presenceRepo
	m.eventBus = eventBus
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) AccountRepository() AccountRepository {
	return m.accountRepo
}

func (m *MockUnitOfWork) CardRepository() CardRepository {
	return m.cardRepo
}

func (m *MockUnitOfWork) PresenceRepository() PresenceRepository {
	return m.presenceRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	return m.eventBus
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
