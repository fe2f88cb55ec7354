package app

import (
	"sync"

	"github.com/google/btree"
)

const schedulerDegree = 16

// advanceItem orders vaults by the time their epoch becomes advance-ready
type advanceItem struct {
	readyAt int64
	vaultID string
}

// Less implements btree.Item: by ready time, then vault id
func (a *advanceItem) Less(b btree.Item) bool {
	other := b.(*advanceItem)
	if a.readyAt != other.readyAt {
		return a.readyAt < other.readyAt
	}
	return a.vaultID < other.vaultID
}

// AdvanceScheduler indexes vaults by their next advance-ready time so that due
// vaults are found without scanning the store.
type AdvanceScheduler struct {
	mu    sync.Mutex
	tree  *btree.BTree
	index map[string]int64
}

// NewAdvanceScheduler creates an empty scheduler
func NewAdvanceScheduler() *AdvanceScheduler {
	return &AdvanceScheduler{
		tree:  btree.New(schedulerDegree),
		index: make(map[string]int64),
	}
}

// Upsert sets the ready time of a vault, replacing any earlier entry
func (s *AdvanceScheduler) Upsert(vaultID string, readyAt int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.index[vaultID]; ok {
		s.tree.Delete(&advanceItem{readyAt: prev, vaultID: vaultID})
	}
	s.tree.ReplaceOrInsert(&advanceItem{readyAt: readyAt, vaultID: vaultID})
	s.index[vaultID] = readyAt
}

// Remove drops a vault from the schedule
func (s *AdvanceScheduler) Remove(vaultID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.index[vaultID]; ok {
		s.tree.Delete(&advanceItem{readyAt: prev, vaultID: vaultID})
		delete(s.index, vaultID)
	}
}

// Due returns the vaults ready at or before now, earliest first
func (s *AdvanceScheduler) Due(now int64) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var due []string
	s.tree.Ascend(func(item btree.Item) bool {
		it := item.(*advanceItem)
		if it.readyAt > now {
			return false
		}
		due = append(due, it.vaultID)
		return true
	})
	return due
}

// ReadyAt returns the scheduled ready time of a vault
func (s *AdvanceScheduler) ReadyAt(vaultID string) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	readyAt, ok := s.index[vaultID]
	return readyAt, ok
}

// Len returns the number of scheduled vaults
func (s *AdvanceScheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree.Len()
}
