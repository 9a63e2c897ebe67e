package service

import (
	"bytes"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// agentLocks serializes work on the same agent profile. Locks are always
// taken in ascending id order so overlapping pairings cannot deadlock.
type agentLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newAgentLocks() *agentLocks {
	return &agentLocks{locks: make(map[uuid.UUID]*sync.Mutex)}
}

func (l *agentLocks) get(id uuid.UUID) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	return m
}

// lock acquires every distinct id and returns the matching unlock.
func (l *agentLocks) lock(ids ...uuid.UUID) func() {
	sorted := slices.Clone(ids)
	slices.SortFunc(sorted, func(a, b uuid.UUID) int { return bytes.Compare(a[:], b[:]) })
	sorted = slices.Compact(sorted)

	held := make([]*sync.Mutex, 0, len(sorted))
	for _, id := range sorted {
		m := l.get(id)
		m.Lock()
		held = append(held, m)
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}
