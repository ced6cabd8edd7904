package service

import (
	"sync"
	"sync/atomic"
	"time"
)

// Snapshot is the latest rendered payload of a view.
type Snapshot struct {
	View       string    `json:"view"`
	PassID     string    `json:"pass_id"`
	Sequence   int64     `json:"sequence"`
	Origin     string    `json:"origin"`
	RenderedAt time.Time `json:"rendered_at"`
	Payload    any       `json:"payload"`
}

// SnapshotStore keeps one snapshot per view. A snapshot only replaces another
// if it carries a higher sequence, so a slow pass cannot clobber a newer one.
type SnapshotStore struct {
	seq atomic.Int64

	mu    sync.RWMutex
	views map[string]Snapshot
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{views: make(map[string]Snapshot)}
}

// Next hands out the sequence for a pass that is about to start.
func (s *SnapshotStore) Next() int64 {
	return s.seq.Add(1)
}

// Put stores snap and reports whether it was accepted.
func (s *SnapshotStore) Put(snap Snapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cur, ok := s.views[snap.View]; ok && cur.Sequence >= snap.Sequence {
		return false
	}
	s.views[snap.View] = snap
	return true
}

func (s *SnapshotStore) Get(view string) (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.views[view]
	return snap, ok
}
