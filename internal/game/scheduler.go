package game

import (
	"sync"
	"time"

	"wordchain/internal/models"
)

// TimeoutFunc is called when a turn timer fires. The fence is the turn
// counter captured when the timer was armed; gen identifies the arm
// itself. The receiver must Confirm the gen under its own lock before
// acting: the fence alone cannot tell a live fire from one that raced
// a re-arm of the same turn count.
type TimeoutFunc func(channelID string, fence, gen int)

// TurnScheduler runs one independent countdown per channel. Arming a
// channel replaces any timer already pending for it, and Cancel is
// advisory: a fire that has already started is stopped by the receiver's
// Confirm, not by Cancel.
type TurnScheduler struct {
	mu        sync.Mutex
	seq       int
	timers    map[string]*turnTimer
	onTimeout TimeoutFunc
}

type turnTimer struct {
	timer    *time.Timer
	fence    int
	gen      int
	player   models.Player
	deadline time.Time
}

// NewTurnScheduler creates an empty scheduler. SetTimeoutFunc must be
// called before the first Arm.
func NewTurnScheduler() *TurnScheduler {
	return &TurnScheduler{
		timers: make(map[string]*turnTimer),
	}
}

// SetTimeoutFunc installs the fire callback
func (s *TurnScheduler) SetTimeoutFunc(fn TimeoutFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onTimeout = fn
}

// Arm schedules a timeout for the channel, replacing any pending timer.
// Each arm gets a fresh generation; generations are never reused, so a
// fire from a replaced timer can always be told apart from the live one.
func (s *TurnScheduler) Arm(channelID string, player models.Player, fence int, duration time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.timers[channelID]; ok {
		existing.timer.Stop()
	}

	s.seq++
	entry := &turnTimer{
		fence:    fence,
		gen:      s.seq,
		player:   player,
		deadline: time.Now().Add(duration),
	}
	entry.timer = time.AfterFunc(duration, func() {
		s.fire(channelID, entry.gen)
	})
	s.timers[channelID] = entry
}

// Cancel drops the pending timer for a channel. Cancelling a channel
// with no timer is a no-op.
func (s *TurnScheduler) Cancel(channelID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.timers[channelID]; ok {
		entry.timer.Stop()
		delete(s.timers, channelID)
	}
}

// Armed reports the player, deadline and generation of the channel's
// pending timer
func (s *TurnScheduler) Armed(channelID string) (models.Player, time.Time, int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.timers[channelID]
	if !ok {
		return models.Player{}, time.Time{}, 0, false
	}
	return entry.player, entry.deadline, entry.gen, true
}

// Confirm consumes the channel's pending timer entry if it still belongs
// to the given arm. Callers hold the channel's exclusive lock, so a false
// return means Arm or Cancel won the race while the fire waited and the
// fire must not act.
func (s *TurnScheduler) Confirm(channelID string, gen int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.timers[channelID]
	if !ok || entry.gen != gen {
		return false
	}
	delete(s.timers, channelID)
	return true
}

// Shutdown stops every pending timer
func (s *TurnScheduler) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for channelID, entry := range s.timers {
		entry.timer.Stop()
		delete(s.timers, channelID)
	}
}

// fire forwards a timer expiry to the callback. The entry stays in the
// map until the receiver Confirms it, so the receiver can detect an Arm
// or Cancel that slipped in between this check and its own lock.
func (s *TurnScheduler) fire(channelID string, gen int) {
	s.mu.Lock()
	entry, ok := s.timers[channelID]
	if !ok || entry.gen != gen {
		// a newer timer replaced this one while the fire was in flight
		s.mu.Unlock()
		return
	}
	fence := entry.fence
	fn := s.onTimeout
	s.mu.Unlock()

	if fn != nil {
		fn(channelID, fence, gen)
	}
}
