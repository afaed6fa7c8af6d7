package position

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/gafaws/internal/model"
)

func TestWorkItem_PeersAreSets(t *testing.T) {
	w := NewWorkItem(&model.Morpheme{ID: "s1", Category: model.Suffix})
	w.AddPredecessor(3)
	w.AddPredecessor(3)
	w.AddPredecessor(1)
	w.AddSuccessor(2)
	w.AddSuccessor(2)

	assert.Equal(t, []int{3, 1}, w.Predecessors())
	assert.Equal(t, []int{2}, w.Successors())
	assert.False(t, w.CanAssign(LeftToRight))
	assert.False(t, w.CanAssign(RightToLeft))

	w.RemovePredecessor(3)
	w.RemovePredecessor(3)
	w.RemovePredecessor(42)
	assert.False(t, w.CanAssign(LeftToRight))
	w.RemovePredecessor(1)
	assert.True(t, w.CanAssign(LeftToRight))

	w.RemoveSuccessor(2)
	assert.True(t, w.CanAssign(RightToLeft))

	// Observed evidence survives resolution and comes back on reset.
	assert.Equal(t, []int{3, 1}, w.Predecessors())
	w.reset()
	assert.False(t, w.CanAssign(LeftToRight))
	assert.False(t, w.CanAssign(RightToLeft))
}

func TestWorkItem_AssignTwiceFails(t *testing.T) {
	w := NewWorkItem(&model.Morpheme{ID: "p1", Category: model.Prefix})
	a, b := &model.Class{ID: "PP1"}, &model.Class{ID: "PP2"}

	require.NoError(t, w.AssignClass(true, a))
	require.NoError(t, w.AssignClass(false, b))

	err := w.AssignClass(true, b)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConsistency))
	var ce *ConsistencyError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "p1", ce.Morpheme)
	assert.Same(t, a, w.Start())

	assert.Error(t, w.AssignClass(false, a))
	assert.Same(t, b, w.End())
}

func TestWorkItem_Finalize(t *testing.T) {
	m := &model.Morpheme{ID: "s1", Category: model.Suffix}
	w := NewWorkItem(m)

	w.Finalize()
	assert.Empty(t, m.StartClass)
	assert.Empty(t, m.EndClass)

	require.NoError(t, w.AssignClass(true, &model.Class{ID: "SP1"}))
	require.NoError(t, w.AssignClass(false, &model.Class{ID: "SP2"}))
	w.Finalize()
	assert.Equal(t, "SP1", m.StartClass)
	assert.Equal(t, "SP2", m.EndClass)
}

func TestDirectionReverse(t *testing.T) {
	assert.Equal(t, RightToLeft, LeftToRight.Reverse())
	assert.Equal(t, LeftToRight, RightToLeft.Reverse())
	assert.Equal(t, RightToLeft, PrefixPolicy.Outward)
	assert.Equal(t, LeftToRight, SuffixPolicy.Outward)
}

func TestAssigner_Empty(t *testing.T) {
	res, err := NewAssigner(PrefixPolicy, nil, nil).Assign()
	require.NoError(t, err)
	assert.Empty(t, res.Classes)
	assert.Empty(t, res.Challenges)
}
