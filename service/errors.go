package service

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for expected domain failures. Handlers branch on these
// with errors.Is to pick a user-facing message.
var (
	ErrInsufficientFunds     = errors.New("insufficient funds")
	ErrInsufficientMaterials = errors.New("not enough cards of that rarity")
	ErrInvalidRarity         = errors.New("invalid rarity")
	ErrNoPendingChallenge    = errors.New("no pending challenge")
	ErrSelfChallenge         = errors.New("cannot challenge yourself")
	ErrInvalidTarget         = errors.New("invalid challenge target")
	ErrChallengerMismatch    = errors.New("pending challenge is from someone else")
	ErrNoCards               = errors.New("no cards to duel with")
	ErrDailyCooldown         = errors.New("daily reward already claimed")
)

// InsufficientFundsError carries the balance shortfall detail.
type InsufficientFundsError struct {
	DiscordID int64
	Have      int64
	Need      int64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds for %d: have %d, need %d", e.DiscordID, e.Have, e.Need)
}

func (e *InsufficientFundsError) Unwrap() error {
	return ErrInsufficientFunds
}

// CooldownError carries how long until the daily claim unlocks.
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("daily reward already claimed, try again in %s", e.Remaining.Round(time.Second))
}

func (e *CooldownError) Unwrap() error {
	return ErrDailyCooldown
}

// NoCardsError names the duel participant with an empty collection.
type NoCardsError struct {
	DiscordID int64
}

func (e *NoCardsError) Error() string {
	return fmt.Sprintf("member %d has no cards to duel with", e.DiscordID)
}

func (e *NoCardsError) Unwrap() error {
	return ErrNoCards
}
