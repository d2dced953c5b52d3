package events

import (
	"context"
	"sync"

	"packbot/models"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange EventType = "balance_change"
	EventTypeCardDrawn     EventType = "card_drawn"
	EventTypeFusionDone    EventType = "fusion_done"
	EventTypeDuelResolved  EventType = "duel_resolved"
	EventTypeCoinsAwarded  EventType = "coins_awarded"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent records a single account balance movement.
type BalanceChangeEvent struct {
	DiscordID    int64
	ChangeAmount int64
	NewBalance   int64
	Reason       string
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// CardDrawnEvent records a card produced by a pack opening.
type CardDrawnEvent struct {
	DiscordID int64
	CardName  string
	Rarity    models.Rarity
	Duplicate bool
}

func (e CardDrawnEvent) Type() EventType {
	return EventTypeCardDrawn
}

// FusionDoneEvent records the outcome of a fusion attempt.
type FusionDoneEvent struct {
	DiscordID int64
	Rarity    models.Rarity
	Success   bool
	Duplicate bool
}

func (e FusionDoneEvent) Type() EventType {
	return EventTypeFusionDone
}

// DuelResolvedEvent records a finished duel. WinnerID is zero on a tie.
type DuelResolvedEvent struct {
	ChallengerID int64
	AccepterID   int64
	WinnerID     int64
	Stake        int64
	Reward       int64
	Tie          bool
}

func (e DuelResolvedEvent) Type() EventType {
	return EventTypeDuelResolved
}

// CoinsAwardedEvent records a passive presence reward. The bot layer
// subscribes to this to send the best-effort direct notice.
type CoinsAwardedEvent struct {
	DiscordID int64
	GuildID   int64
	Amount    int64
}

func (e CoinsAwardedEvent) Type() EventType {
	return EventTypeCoinsAwarded
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Emit publishes an event to all registered handlers. Handlers run on
// their own goroutines so a slow or panicking subscriber never blocks or
// fails the operation that emitted the event.
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	for _, handler := range handlers {
		go func(h Handler) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType": event.Type(),
						"panic":     r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler)
	}
}

// TransactionalBus stashes events published during a unit of work and
// flushes them to the real bus only after the transaction commits.
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Flush emits all pending events. Called after a successful commit; uses
// a background context because the transaction context may be done.
func (b *TransactionalBus) Flush(ctx context.Context) error {
	eventCtx := context.Background()
	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
	return nil
}

// Discard drops pending events. Called after rollback.
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
