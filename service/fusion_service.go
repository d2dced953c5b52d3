package service

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"packbot/catalog"
	"packbot/events"
	"packbot/models"
)

type fusionService struct {
	uowFactory UnitOfWorkFactory
	catalog    *catalog.Catalog
	odds       map[models.Rarity]float64

	mu  sync.Mutex
	rng *rand.Rand
}

// NewFusionService creates a new fusion service
func NewFusionService(uowFactory UnitOfWorkFactory, cat *catalog.Catalog) FusionService {
	return &fusionService{
		uowFactory: uowFactory,
		catalog:    cat,
		odds:       DefaultFusionOdds,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *fusionService) Fuse(ctx context.Context, discordID int64, rarity models.Rarity) (*models.FusionResult, error) {
	if !rarity.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRarity, rarity)
	}
	next, ok := rarity.Next()
	if !ok {
		// Legendary cards have nothing to fuse into.
		return nil, fmt.Errorf("%w: %q cannot be fused upward", ErrInvalidRarity, rarity)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	account, err := uow.AccountRepository().GetByDiscordID(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account.Balance < FusionCost {
		return nil, &InsufficientFundsError{DiscordID: discordID, Have: account.Balance, Need: FusionCost}
	}

	materials, err := uow.CardRepository().GetByOwnerAndRarity(ctx, discordID, rarity)
	if err != nil {
		return nil, fmt.Errorf("failed to get materials: %w", err)
	}
	if len(materials) < FusionMaterials {
		return nil, fmt.Errorf("%w: have %d %s cards, need %d", ErrInsufficientMaterials, len(materials), rarity, FusionMaterials)
	}

	// The price is charged once materials are confirmed, win or lose.
	ok, err = uow.AccountRepository().TryDeduct(ctx, discordID, FusionCost)
	if err != nil {
		return nil, fmt.Errorf("failed to charge fusion price: %w", err)
	}
	if !ok {
		return nil, &InsufficientFundsError{DiscordID: discordID, Have: account.Balance, Need: FusionCost}
	}

	if err := uow.AccountRepository().RecordSpend(ctx, discordID, FusionCost); err != nil {
		return nil, fmt.Errorf("failed to record spend: %w", err)
	}

	picked := s.pickMaterials(materials)
	result := &models.FusionResult{}

	if s.roll() < s.odds[rarity] {
		result.Success = true

		definition, err := s.drawFrom(next)
		if err != nil {
			return nil, fmt.Errorf("failed to draw fused card: %w", err)
		}

		produced := &models.OwnedCard{
			DiscordID: discordID,
			Name:      definition.Name,
			ImageRef:  definition.ImageRef,
			Attack:    definition.Attack,
			Life:      definition.Life,
			Rarity:    next,
		}

		// Fusion duplicate detection goes by name and rarity only, not
		// the full stat tuple.
		duplicate, err := uow.CardRepository().HasNameRarity(ctx, discordID, produced.Name, next)
		if err != nil {
			return nil, fmt.Errorf("failed to check for duplicate: %w", err)
		}

		if duplicate {
			// A duplicate outcome keeps the source cards; the owner gets
			// the consolation credit instead of the promoted card.
			result.Duplicate = true
			result.Bonus = FusionDuplicateBonus
			newBalance, err := uow.AccountRepository().AddBalance(ctx, discordID, FusionDuplicateBonus)
			if err != nil {
				return nil, fmt.Errorf("failed to credit duplicate bonus: %w", err)
			}
			uow.EventBus().Publish(events.BalanceChangeEvent{
				DiscordID:    discordID,
				ChangeAmount: FusionDuplicateBonus,
				NewBalance:   newBalance,
				Reason:       "fusion_duplicate_bonus",
			})
		} else {
			if result.Consumed, err = s.consumeMaterials(ctx, uow, discordID, picked); err != nil {
				return nil, err
			}
			if err := uow.CardRepository().Append(ctx, produced); err != nil {
				return nil, fmt.Errorf("failed to add fused card: %w", err)
			}
			result.Produced = produced
		}
	} else {
		// A failed fusion burns the materials with no compensation
		// beyond the cost already paid.
		if result.Consumed, err = s.consumeMaterials(ctx, uow, discordID, picked); err != nil {
			return nil, err
		}
	}

	account, err = uow.AccountRepository().GetByDiscordID(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	result.NewBalance = account.Balance

	uow.EventBus().Publish(events.FusionDoneEvent{
		DiscordID: discordID,
		Rarity:    rarity,
		Success:   result.Success,
		Duplicate: result.Duplicate,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return result, nil
}

// consumeMaterials removes the picked source cards from the collection.
func (s *fusionService) consumeMaterials(ctx context.Context, uow UnitOfWork, discordID int64, picked []*models.OwnedCard) ([]models.OwnedCard, error) {
	consumed := make([]models.OwnedCard, 0, FusionMaterials)
	for _, material := range picked {
		removed, err := uow.CardRepository().RemoveByID(ctx, discordID, material.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to consume material: %w", err)
		}
		if !removed {
			return nil, fmt.Errorf("material card %d disappeared mid-fusion", material.ID)
		}
		consumed = append(consumed, *material)
	}
	return consumed, nil
}

// pickMaterials selects the fusion inputs uniformly without replacement,
// keeping acquisition order in the result.
func (s *fusionService) pickMaterials(cards []*models.OwnedCard) []*models.OwnedCard {
	s.mu.Lock()
	perm := s.rng.Perm(len(cards))
	s.mu.Unlock()

	picked := perm[:FusionMaterials]
	sort.Ints(picked)

	materials := make([]*models.OwnedCard, 0, FusionMaterials)
	for _, idx := range picked {
		materials = append(materials, cards[idx])
	}
	return materials
}

func (s *fusionService) roll() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

func (s *fusionService) drawFrom(r models.Rarity) (catalog.CardDefinition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.DrawCard(s.rng, r)
}
