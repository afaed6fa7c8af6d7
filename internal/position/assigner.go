package position

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/rcliao/gafaws/internal/model"
)

// Policy captures everything that differs between prefix and suffix
// assignment.
type Policy struct {
	Category model.Category
	// Tag prefixes generated class IDs.
	Tag string
	// Outward is the surface direction that moves away from the stem.
	Outward Direction
	// FogMessage is the catalog key of the fog challenge.
	FogMessage string
}

var (
	// PrefixPolicy walks prefixes right to left, starting at the stem.
	PrefixPolicy = Policy{Category: model.Prefix, Tag: "PP", Outward: RightToLeft, FogMessage: MsgPrefixFog}
	// SuffixPolicy walks suffixes left to right, starting at the stem.
	SuffixPolicy = Policy{Category: model.Suffix, Tag: "SP", Outward: LeftToRight, FogMessage: MsgSuffixFog}
)

// PolicyFor returns the policy of an affix category.
func PolicyFor(c model.Category) (Policy, bool) {
	switch c {
	case model.Prefix:
		return PrefixPolicy, true
	case model.Suffix:
		return SuffixPolicy, true
	}
	return Policy{}, false
}

// Assignment is the outcome of one assigner run.
type Assignment struct {
	// Classes in creation order, numbered.
	Classes    []model.Class
	Challenges []model.Challenge
}

// Assigner infers position classes for the items of one category.
type Assigner struct {
	policy Policy
	items  []*WorkItem
	log    *zap.Logger

	classes    []*model.Class
	fog        *model.Class
	challenges []model.Challenge
}

// NewAssigner returns an assigner over items. Peer indices held by the
// items must index into items.
func NewAssigner(p Policy, items []*WorkItem, log *zap.Logger) *Assigner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Assigner{policy: p, items: items, log: log}
}

// Assign runs the outward pass (start classes) and then the inward pass
// (end classes), and numbers the resulting classes.
func (a *Assigner) Assign() (*Assignment, error) {
	if len(a.items) == 0 {
		return &Assignment{}, nil
	}
	if err := a.pass(a.policy.Outward, true); err != nil {
		return nil, err
	}
	if err := a.pass(a.policy.Outward.Reverse(), false); err != nil {
		return nil, err
	}
	a.number()

	out := &Assignment{
		Classes:    make([]model.Class, len(a.classes)),
		Challenges: a.challenges,
	}
	for i, c := range a.classes {
		out.Classes[i] = *c
	}
	return out, nil
}

func (a *Assigner) pass(dir Direction, isStart bool) error {
	for _, it := range a.items {
		it.reset()
	}

	remaining := make([]int, len(a.items))
	for i := range remaining {
		remaining[i] = i
	}

	// Without a fog class the inward pass walks the outward classes back.
	var outward []*model.Class
	if !isStart && a.fog == nil {
		outward = append(outward, a.classes...)
	}

	groups := 0
	for len(remaining) > 0 {
		var group []int
		for _, idx := range remaining {
			if a.items[idx].CanAssign(dir) {
				group = append(group, idx)
			}
		}

		var cls *model.Class
		switch {
		case len(group) == 0:
			if isStart {
				a.fog = &model.Class{IsFog: true}
				a.classes = append(a.classes, a.fog)
				a.challenges = append(a.challenges, model.Challenge{
					Category: a.policy.Category,
					Message:  a.policy.FogMessage,
				})
			} else if a.fog == nil {
				return &ConsistencyError{
					Category: a.policy.Category,
					Reason:   "inward pass found contradictory order the outward pass did not",
				}
			}
			a.log.Warn("unresolvable affix order",
				zap.String("category", string(a.policy.Category)),
				zap.String("direction", dir.String()),
				zap.Int("items", len(remaining)))
			group = remaining
			cls = a.fog
		case isStart || a.fog != nil:
			cls = &model.Class{}
			a.classes = append(a.classes, cls)
		default:
			if len(outward) == 0 {
				return &ConsistencyError{
					Category: a.policy.Category,
					Reason:   "inward pass has more groups than the outward pass",
				}
			}
			cls = outward[len(outward)-1]
			outward = outward[:len(outward)-1]
		}

		for _, idx := range group {
			if err := a.items[idx].AssignClass(isStart, cls); err != nil {
				return err
			}
		}
		remaining = a.resolve(remaining, group, dir)
		groups++
	}

	if len(outward) > 0 {
		return &ConsistencyError{
			Category: a.policy.Category,
			Reason:   "inward pass left outward classes unused",
		}
	}

	a.log.Debug("pass complete",
		zap.String("category", string(a.policy.Category)),
		zap.String("direction", dir.String()),
		zap.Int("groups", groups))
	return nil
}

// resolve unblocks the neighbors of every assigned item and returns the
// still-remaining indices in their original order.
func (a *Assigner) resolve(remaining, group []int, dir Direction) []int {
	done := make(map[int]bool, len(group))
	for _, idx := range group {
		done[idx] = true
		it := a.items[idx]
		if dir == LeftToRight {
			for _, peer := range it.succs {
				a.items[peer].RemovePredecessor(idx)
			}
		} else {
			for _, peer := range it.preds {
				a.items[peer].RemoveSuccessor(idx)
			}
		}
	}

	next := remaining[:0:0]
	for _, idx := range remaining {
		if !done[idx] {
			next = append(next, idx)
		}
	}
	return next
}

// number gives ordinary classes ordinals 1..n in creation order and the fog
// class ordinal 0, then derives the IDs.
func (a *Assigner) number() {
	ord := 1
	for _, c := range a.classes {
		if c.IsFog {
			c.Ordinal = 0
		} else {
			c.Ordinal = ord
			ord++
		}
		c.ID = a.policy.Tag + strconv.Itoa(c.Ordinal)
	}
}
