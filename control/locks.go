// Package control enforces the safety-critical command validation of the
// stack: control-mode transitions, flow-direction locks, stage interventions
// and variable-lane reassignment. Validators fail fast with field-named
// errors before any service call; an invalid command causes no side effect.
package control

import (
	"context"
	"fmt"
	"time"

	"github.com/c360/signalctl/model"
	"github.com/c360/signalctl/pkg/cache"
)

// FlowLock is a live time-bounded movement override. It is created by a
// Lock command, expires naturally at EndTime, or is removed early by an
// Unlock command with the same compound key.
type FlowLock struct {
	CrossID     string          `json:"crossId"`
	FlowType    model.FlowType  `json:"flowType"`
	Entrance    model.Direction `json:"entrance"`
	Exit        model.Direction `json:"exit"`
	LockType    model.LockType  `json:"lockType"`
	LockStageNo int             `json:"lockStageNo,omitempty"`
	Duration    int             `json:"duration"` // seconds; 0 holds until unlocked
	StartTime   time.Time       `json:"startTime"`
	EndTime     time.Time       `json:"endTime"` // zero when Duration is 0
}

// Key returns the compound key identifying the locked movement.
func (l FlowLock) Key() string {
	return lockKey(l.CrossID, l.FlowType, l.Entrance, l.Exit)
}

func lockKey(crossID string, flow model.FlowType, entrance, exit model.Direction) string {
	return fmt.Sprintf("%s/%d/%d/%d", crossID, flow, entrance, exit)
}

// LockStore holds the live flow locks. Natural expiry is enforced by the
// underlying TTL store: an expired-but-not-yet-reaped lock reads as
// inactive.
type LockStore struct {
	locks *cache.TTL[FlowLock]
}

// NewLockStore creates a lock store whose reaper runs until ctx is
// cancelled.
func NewLockStore(ctx context.Context) *LockStore {
	return &LockStore{locks: cache.NewTTL[FlowLock](ctx, 30*time.Second)}
}

// Put stores a lock, replacing any lock with the same compound key.
func (s *LockStore) Put(lock FlowLock) {
	ttl := time.Duration(lock.Duration) * time.Second
	s.locks.Set(lock.Key(), lock, ttl)
}

// Get returns the active lock for the compound key.
func (s *LockStore) Get(crossID string, flow model.FlowType, entrance, exit model.Direction) (FlowLock, bool) {
	return s.locks.Get(lockKey(crossID, flow, entrance, exit))
}

// Remove deletes the lock for the compound key, reporting whether an active
// lock existed. Removing an absent lock is not an error.
func (s *LockStore) Remove(crossID string, flow model.FlowType, entrance, exit model.Direction) bool {
	_, ok := s.locks.Delete(lockKey(crossID, flow, entrance, exit))
	return ok
}

// ByCross returns the active locks of an intersection.
func (s *LockStore) ByCross(crossID string) []FlowLock {
	var out []FlowLock
	s.locks.Range(func(_ string, lock FlowLock) bool {
		if lock.CrossID == crossID {
			out = append(out, lock)
		}
		return true
	})
	return out
}

// Close stops the reaper.
func (s *LockStore) Close() {
	s.locks.Close()
}
