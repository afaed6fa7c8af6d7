package position

import (
	"github.com/rcliao/gafaws/internal/model"
)

// Direction is the order in which a pass walks the surface string of a
// category's affixes.
type Direction int

const (
	// LeftToRight admits an item once all its left neighbors are resolved.
	LeftToRight Direction = iota
	// RightToLeft admits an item once all its right neighbors are resolved.
	RightToLeft
)

// Reverse returns the opposite direction.
func (d Direction) Reverse() Direction {
	if d == LeftToRight {
		return RightToLeft
	}
	return LeftToRight
}

func (d Direction) String() string {
	if d == LeftToRight {
		return "left-to-right"
	}
	return "right-to-left"
}

// peerSet is an insertion-ordered set of arena indices. Degrees are small,
// so a slice beats a map here and keeps iteration reproducible.
type peerSet []int

func (s peerSet) has(i int) bool {
	for _, v := range s {
		if v == i {
			return true
		}
	}
	return false
}

func (s *peerSet) add(i int) bool {
	if s.has(i) {
		return false
	}
	*s = append(*s, i)
	return true
}

func (s *peerSet) remove(i int) bool {
	for k, v := range *s {
		if v == i {
			*s = append((*s)[:k], (*s)[k+1:]...)
			return true
		}
	}
	return false
}

func (s peerSet) clone() peerSet {
	return append(peerSet(nil), s...)
}

// WorkItem wraps one affix for the duration of an analysis. Peers are
// indices into the owning assigner's item slice.
type WorkItem struct {
	Morpheme *model.Morpheme

	// observed adjacency, fixed once the graph is built
	preds peerSet
	succs peerSet

	// still-unresolved neighbors for the current pass
	openPreds peerSet
	openSuccs peerSet

	start *model.Class
	end   *model.Class
}

// NewWorkItem wraps m.
func NewWorkItem(m *model.Morpheme) *WorkItem {
	return &WorkItem{Morpheme: m}
}

// AddPredecessor records idx as observed immediately left of this item.
func (w *WorkItem) AddPredecessor(idx int) {
	if w.preds.add(idx) {
		w.openPreds.add(idx)
	}
}

// AddSuccessor records idx as observed immediately right of this item.
func (w *WorkItem) AddSuccessor(idx int) {
	if w.succs.add(idx) {
		w.openSuccs.add(idx)
	}
}

// RemovePredecessor marks predecessor idx as resolved. Absent ids are a no-op.
func (w *WorkItem) RemovePredecessor(idx int) {
	w.openPreds.remove(idx)
}

// RemoveSuccessor marks successor idx as resolved. Absent ids are a no-op.
func (w *WorkItem) RemoveSuccessor(idx int) {
	w.openSuccs.remove(idx)
}

// Predecessors returns the observed left neighbors.
func (w *WorkItem) Predecessors() []int { return w.preds.clone() }

// Successors returns the observed right neighbors.
func (w *WorkItem) Successors() []int { return w.succs.clone() }

// CanAssign reports whether nothing blocks the item in direction d.
func (w *WorkItem) CanAssign(d Direction) bool {
	if d == LeftToRight {
		return len(w.openPreds) == 0
	}
	return len(w.openSuccs) == 0
}

// AssignClass sets the start or end class. Assigning a slot twice is an
// algorithm defect and is reported as a *ConsistencyError.
func (w *WorkItem) AssignClass(isStart bool, c *model.Class) error {
	slot, name := &w.end, "end"
	if isStart {
		slot, name = &w.start, "start"
	}
	if *slot != nil {
		return &ConsistencyError{
			Category: w.Morpheme.Category,
			Morpheme: w.Morpheme.ID,
			Reason:   name + " class assigned twice",
		}
	}
	*slot = c
	return nil
}

// Start returns the assigned start class, or nil.
func (w *WorkItem) Start() *model.Class { return w.start }

// End returns the assigned end class, or nil.
func (w *WorkItem) End() *model.Class { return w.end }

// Finalize copies the assigned class IDs onto the wrapped morpheme.
func (w *WorkItem) Finalize() {
	if w.start != nil {
		w.Morpheme.StartClass = w.start.ID
	}
	if w.end != nil {
		w.Morpheme.EndClass = w.end.ID
	}
}

// reset reopens every observed neighbor for a new pass.
func (w *WorkItem) reset() {
	w.openPreds = w.preds.clone()
	w.openSuccs = w.succs.clone()
}
