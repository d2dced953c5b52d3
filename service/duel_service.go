package service

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"packbot/events"
	"packbot/models"
)

type duelService struct {
	uowFactory UnitOfWorkFactory
	challenges *challengeStore

	mu  sync.Mutex
	rng *rand.Rand
}

// NewDuelService creates a new duel service
func NewDuelService(uowFactory UnitOfWorkFactory) DuelService {
	return &duelService{
		uowFactory: uowFactory,
		challenges: newChallengeStore(),
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *duelService) Challenge(ctx context.Context, challengerID, challengedID int64, challengedIsBot bool) error {
	if challengerID == challengedID {
		return ErrSelfChallenge
	}
	if challengedIsBot {
		return fmt.Errorf("%w: bots cannot duel", ErrInvalidTarget)
	}

	s.challenges.put(challengedID, challengerID)
	return nil
}

func (s *duelService) PendingChallenger(accepterID int64) (int64, bool) {
	return s.challenges.get(accepterID)
}

func (s *duelService) Accept(ctx context.Context, accepterID, claimedChallengerID int64) (*models.DuelResult, error) {
	if err := s.challenges.takeMatching(accepterID, claimedChallengerID); err != nil {
		return nil, err
	}
	challengerID := claimedChallengerID

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	// Stakes come off both sides first; any later failure rolls the
	// whole transaction back, so nobody is left short-changed.
	for _, id := range []int64{challengerID, accepterID} {
		ok, err := uow.AccountRepository().TryDeduct(ctx, id, DuelStake)
		if err != nil {
			return nil, fmt.Errorf("failed to deduct stake: %w", err)
		}
		if !ok {
			account, err := uow.AccountRepository().GetByDiscordID(ctx, id)
			if err != nil {
				return nil, fmt.Errorf("failed to get account: %w", err)
			}
			return nil, &InsufficientFundsError{DiscordID: id, Have: account.Balance, Need: DuelStake}
		}
		if err := uow.AccountRepository().RecordSpend(ctx, id, DuelStake); err != nil {
			return nil, fmt.Errorf("failed to record spend: %w", err)
		}
	}

	challengerSide, err := s.buildSide(ctx, uow, challengerID)
	if err != nil {
		return nil, err
	}
	accepterSide, err := s.buildSide(ctx, uow, accepterID)
	if err != nil {
		return nil, err
	}

	result := &models.DuelResult{
		Challenger: *challengerSide,
		Accepter:   *accepterSide,
		Stake:      DuelStake,
		Reward:     DuelReward,
	}

	switch {
	case challengerSide.Score > accepterSide.Score:
		result.WinnerID = &challengerSide.DiscordID
	case accepterSide.Score > challengerSide.Score:
		result.WinnerID = &accepterSide.DiscordID
	default:
		// A tie pays nobody; the stakes stay deducted.
		result.Tie = true
	}

	if result.WinnerID != nil {
		winnerID := *result.WinnerID
		if _, err := uow.AccountRepository().AddBalance(ctx, winnerID, DuelReward); err != nil {
			return nil, fmt.Errorf("failed to pay duel reward: %w", err)
		}
		if err := uow.AccountRepository().IncrementWins(ctx, winnerID); err != nil {
			return nil, fmt.Errorf("failed to record win: %w", err)
		}
	}

	event := events.DuelResolvedEvent{
		ChallengerID: challengerID,
		AccepterID:   accepterID,
		Stake:        DuelStake,
		Reward:       DuelReward,
		Tie:          result.Tie,
	}
	if result.WinnerID != nil {
		event.WinnerID = *result.WinnerID
	}
	uow.EventBus().Publish(event)

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return result, nil
}

// buildSide samples a participant's hand from their collection and
// totals its score. Collections over the hand cap contribute a uniform
// random subset; smaller ones play everything.
func (s *duelService) buildSide(ctx context.Context, uow UnitOfWork, discordID int64) (*models.DuelSide, error) {
	cards, err := uow.CardRepository().GetByOwner(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cards for member %d: %w", discordID, err)
	}
	if len(cards) == 0 {
		return nil, &NoCardsError{DiscordID: discordID}
	}

	if len(cards) > DuelHandSize {
		cards = s.sampleHand(cards)
	}

	side := &models.DuelSide{DiscordID: discordID}
	for _, card := range cards {
		side.Hand = append(side.Hand, *card)
		side.Score += card.Score()
	}

	return side, nil
}

// sampleHand picks DuelHandSize cards uniformly without replacement,
// keeping acquisition order within the hand.
func (s *duelService) sampleHand(cards []*models.OwnedCard) []*models.OwnedCard {
	s.mu.Lock()
	perm := s.rng.Perm(len(cards))
	s.mu.Unlock()

	picked := perm[:DuelHandSize]
	sort.Ints(picked)

	hand := make([]*models.OwnedCard, 0, DuelHandSize)
	for _, idx := range picked {
		hand = append(hand, cards[idx])
	}
	return hand
}
