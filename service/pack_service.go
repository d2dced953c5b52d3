package service

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"packbot/catalog"
	"packbot/events"
	"packbot/models"
)

type packService struct {
	uowFactory UnitOfWorkFactory
	catalog    *catalog.Catalog

	mu  sync.Mutex
	rng *rand.Rand
}

// NewPackService creates a new pack service
func NewPackService(uowFactory UnitOfWorkFactory, cat *catalog.Catalog) PackService {
	return &packService{
		uowFactory: uowFactory,
		catalog:    cat,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *packService) OpenPack(ctx context.Context, discordID int64) (*models.PackResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	ok, err := uow.AccountRepository().TryDeduct(ctx, discordID, PackCost)
	if err != nil {
		return nil, fmt.Errorf("failed to charge pack price: %w", err)
	}
	if !ok {
		account, err := uow.AccountRepository().GetByDiscordID(ctx, discordID)
		if err != nil {
			return nil, fmt.Errorf("failed to get account: %w", err)
		}
		return nil, &InsufficientFundsError{DiscordID: discordID, Have: account.Balance, Need: PackCost}
	}

	if err := uow.AccountRepository().RecordSpend(ctx, discordID, PackCost); err != nil {
		return nil, fmt.Errorf("failed to record spend: %w", err)
	}

	definition, rarity, err := s.draw()
	if err != nil {
		return nil, fmt.Errorf("failed to draw card: %w", err)
	}

	card := &models.OwnedCard{
		DiscordID: discordID,
		Name:      definition.Name,
		ImageRef:  definition.ImageRef,
		Attack:    definition.Attack,
		Life:      definition.Life,
		Rarity:    rarity,
	}

	duplicate, err := uow.CardRepository().HasExact(ctx, card)
	if err != nil {
		return nil, fmt.Errorf("failed to check for duplicate: %w", err)
	}

	var bonus int64
	if duplicate {
		// A duplicate draw is not added to the collection; the buyer
		// gets a consolation credit instead.
		bonus = PackDuplicateBonus
		newBalance, err := uow.AccountRepository().AddBalance(ctx, discordID, bonus)
		if err != nil {
			return nil, fmt.Errorf("failed to credit duplicate bonus: %w", err)
		}
		uow.EventBus().Publish(events.BalanceChangeEvent{
			DiscordID:    discordID,
			ChangeAmount: bonus,
			NewBalance:   newBalance,
			Reason:       "pack_duplicate_bonus",
		})
	} else {
		if err := uow.CardRepository().Append(ctx, card); err != nil {
			return nil, fmt.Errorf("failed to add card: %w", err)
		}
	}

	account, err := uow.AccountRepository().GetByDiscordID(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	uow.EventBus().Publish(events.CardDrawnEvent{
		DiscordID: discordID,
		CardName:  card.Name,
		Rarity:    card.Rarity,
		Duplicate: duplicate,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.PackResult{
		Card:       *card,
		Duplicate:  duplicate,
		Bonus:      bonus,
		NewBalance: account.Balance,
	}, nil
}

func (s *packService) draw() (catalog.CardDefinition, models.Rarity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rarity := s.catalog.DrawRarity(s.rng)
	definition, err := s.catalog.DrawCard(s.rng, rarity)
	if err != nil {
		return catalog.CardDefinition{}, "", err
	}

	return definition, rarity, nil
}
