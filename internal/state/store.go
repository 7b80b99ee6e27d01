package state

import (
	"fmt"
	"sync"
	"time"
)

// Snapshot is the latest known health of the captioning service.
type Snapshot struct {
	Checked             bool // at least one probe has completed
	LastChecked         time.Time
	LastOK              time.Time
	Latency             time.Duration // of the last successful probe
	LastError           error
	ConsecutiveFailures int
}

// IsOffline returns true when the service has been unreachable for multiple probes.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Label is a one-word summary for the header.
func (s Snapshot) Label() string {
	switch {
	case !s.Checked:
		return "checking"
	case s.IsOffline():
		return "offline"
	case s.LastError != nil:
		return "unstable"
	default:
		return "online"
	}
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update records the outcome of one probe. When err is non-nil the last
// success time and latency are kept and the failure is counted.
func (s *Store) Update(latency time.Duration, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.snapshot.Checked = true
	s.snapshot.LastChecked = now

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}

	s.snapshot.LastOK = now
	s.snapshot.Latency = latency
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}
