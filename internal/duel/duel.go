// Package duel keeps client-side state for the typing-duel activity: active
// rounds, scored submissions and the player's best result per round.
package duel

import (
	"errors"
	"sync"
	"time"

	"github.com/sia12-web/unihood/internal/textmetric"
	"github.com/sia12-web/unihood/internal/wire"
)

// ErrUnknownRound is returned when a submission references a round the match
// never saw (or that was already cleared).
var ErrUnknownRound = errors.New("unknown duel round")

// Match tracks the rounds of one typing duel.
type Match struct {
	mu     sync.Mutex
	rounds map[string]wire.DuelRound
	best   map[string]wire.DuelResult
}

// NewMatch creates an empty match.
func NewMatch() *Match {
	return &Match{
		rounds: make(map[string]wire.DuelRound),
		best:   make(map[string]wire.DuelResult),
	}
}

// StartRound registers a server-announced round. Re-announcing a round id
// replaces it and discards any prior best result for that id.
func (m *Match) StartRound(round wire.DuelRound) {
	if round.RoundID == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rounds[round.RoundID] = round
	delete(m.best, round.RoundID)
}

// Submit scores a typed text against the round's sample and records it if it
// beats the player's previous best accuracy for the round.
func (m *Match) Submit(roundID, typed string, now time.Time) (wire.DuelResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	round, ok := m.rounds[roundID]
	if !ok {
		return wire.DuelResult{}, ErrUnknownRound
	}

	elapsed := now.UnixMilli() - round.StartedAt
	if elapsed < 0 {
		elapsed = 0
	}
	result := wire.DuelResult{
		RoundID:   roundID,
		Distance:  textmetric.Distance(round.SampleText, typed),
		Accuracy:  textmetric.Accuracy(round.SampleText, typed),
		ElapsedMS: elapsed,
	}

	if prev, ok := m.best[roundID]; !ok || result.Accuracy > prev.Accuracy {
		m.best[roundID] = result
	}
	return result, nil
}

// Best returns the player's best result for a round, if any.
func (m *Match) Best(roundID string) (wire.DuelResult, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result, ok := m.best[roundID]
	return result, ok
}

// Clear drops all round state, e.g. when the duel screen unmounts.
func (m *Match) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rounds = make(map[string]wire.DuelRound)
	m.best = make(map[string]wire.DuelResult)
}
