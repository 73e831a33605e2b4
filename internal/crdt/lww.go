package crdt

import (
	"sort"
	"sync"

	"github.com/iudanet/treekeeper/internal/models"
)

// FieldSet представляет набор LWW-регистров (Last-Write-Wins) по ключу
// (tree_id, field). Используется для схлопывания очереди локальных правок:
// для каждого поля побеждает правка с наибольшим (created_at, id).
type FieldSet struct {
	registers map[string]map[string]*models.PendingEdit // map[treeID]map[field]edit
	firstSeen map[string]int64                          // минимальный id правки по дереву
	mu        sync.RWMutex
}

// NewFieldSet creates an empty set.
func NewFieldSet() *FieldSet {
	return &FieldSet{
		registers: make(map[string]map[string]*models.PendingEdit),
		firstSeen: make(map[string]int64),
	}
}

// Collapse builds a FieldSet from a list of queued edits in any order.
func Collapse(edits []*models.PendingEdit) *FieldSet {
	set := NewFieldSet()
	for _, edit := range edits {
		set.Add(edit)
	}
	return set
}

// Add puts edit into its (tree, field) register if it is newer than the
// current value. Returns true if the register changed.
func (s *FieldSet) Add(edit *models.PendingEdit) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	fields, ok := s.registers[edit.TreeID]
	if !ok {
		fields = make(map[string]*models.PendingEdit)
		s.registers[edit.TreeID] = fields
		s.firstSeen[edit.TreeID] = edit.ID
	}
	if edit.ID < s.firstSeen[edit.TreeID] {
		s.firstSeen[edit.TreeID] = edit.ID
	}

	existing, exists := fields[edit.Field]
	if !exists || edit.IsNewerThan(existing) {
		copied := *edit
		fields[edit.Field] = &copied
		return true
	}

	// существующая правка новее
	return false
}

// Updates returns the winning value of every field edited for treeID,
// or nil if the tree has no edits.
func (s *FieldSet) Updates(treeID string) models.FieldUpdates {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fields, ok := s.registers[treeID]
	if !ok {
		return nil
	}

	updates := make(models.FieldUpdates, len(fields))
	for field, edit := range fields {
		updates[field] = edit.Value
	}
	return updates
}

// Contains reports whether treeID has at least one edit.
func (s *FieldSet) Contains(treeID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.registers[treeID]
	return ok
}

// TreeIDs returns the edited tree ids ordered by their oldest queued edit.
func (s *FieldSet) TreeIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.registers))
	for id := range s.registers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return s.firstSeen[ids[i]] < s.firstSeen[ids[j]]
	})
	return ids
}

// Size returns the number of distinct trees in the set.
func (s *FieldSet) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.registers)
}
