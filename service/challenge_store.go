package service

import (
	"fmt"
	"sync"
)

// challengeStore holds pending duel challenges in memory, keyed by the
// challenged member. Challenges do not survive a restart, matching how
// short-lived they are in practice.
type challengeStore struct {
	mu      sync.Mutex
	pending map[int64]int64 // challenged -> challenger
}

func newChallengeStore() *challengeStore {
	return &challengeStore{pending: make(map[int64]int64)}
}

// put registers a challenge. The slot is single-occupancy: a new
// challenge silently replaces any prior unaccepted one aimed at the
// same member.
func (s *challengeStore) put(challengedID, challengerID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending[challengedID] = challengerID
}

// get returns the challenger waiting on the challenged member, if any.
func (s *challengeStore) get(challengedID int64) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	challengerID, ok := s.pending[challengedID]
	return challengerID, ok
}

// takeMatching consumes the pending challenge when it came from the
// claimed challenger. A mismatch leaves the challenge in place.
func (s *challengeStore) takeMatching(challengedID, claimedChallengerID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	challengerID, ok := s.pending[challengedID]
	if !ok {
		return ErrNoPendingChallenge
	}
	if challengerID != claimedChallengerID {
		return fmt.Errorf("%w: pending challenge is from %d", ErrChallengerMismatch, challengerID)
	}

	delete(s.pending, challengedID)
	return nil
}
