package services

import "sync"

// circleLocks serializes rotation mutations per circle. Initialize and
// advance must execute as a single atomic unit per circle; the database
// transaction provides atomicity and this keyed mutex provides the
// per-circle serialization point.
type circleLocks struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func newCircleLocks() *circleLocks {
	return &circleLocks{locks: make(map[uint]*sync.Mutex)}
}

// get returns the mutex for the given circle, creating it on first use.
// Locks are never released back; the map grows with the number of circles
// mutated by this process, which is bounded and small per instance.
func (l *circleLocks) get(circleID uint) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	m, ok := l.locks[circleID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[circleID] = m
	}
	return m
}
