// Package position infers affix position classes from the linear order in
// which affixes are observed around their stems.
//
// Each affix category is analyzed independently. An outward pass starting
// at the stem groups affixes whose inner neighbors are already placed and
// gives each group a fresh class; an inward pass does the same from the
// word edge and links each affix to an end class. Affixes that occupy a
// single slot end up with equal start and end classes. Contradictory
// orders collapse the unresolvable remainder into one fog class and raise
// a challenge.
package position

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/rcliao/gafaws/internal/model"
)

// Analyzer runs position-class analysis over a corpus.
type Analyzer struct {
	log   *zap.Logger
	now   func() time.Time
	build func(*model.Corpus, model.Category) []*WorkItem
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.log = l
		}
	}
}

// WithClock overrides the completion timestamp source.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) {
		if now != nil {
			a.now = now
		}
	}
}

// New returns an Analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{log: zap.NewNop(), now: time.Now, build: buildItems}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Analyze runs an Analyzer with default options.
func Analyze(c *model.Corpus) ([]model.Challenge, error) {
	return New().Analyze(c)
}

// Analyze assigns start and end classes to every affix of c, replaces both
// class tables, appends any new challenges to c.Challenges and stamps
// c.AnalyzedAt. It returns the challenges raised by this run.
//
// A *ConsistencyError aborts the run and leaves c unmodified.
func (a *Analyzer) Analyze(c *model.Corpus) ([]model.Challenge, error) {
	if c == nil {
		return nil, errors.New("position: nil corpus")
	}

	type run struct {
		policy Policy
		items  []*WorkItem
		result *Assignment
	}
	runs := []*run{{policy: PrefixPolicy}, {policy: SuffixPolicy}}

	affixes := 0
	for _, r := range runs {
		r.items = a.build(c, r.policy.Category)
		affixes += len(r.items)
	}
	if affixes == 0 {
		a.log.Debug("no affixes to analyze", zap.Int("words", len(c.Words)))
		a.stamp(c)
		return nil, nil
	}

	var challenges []model.Challenge
	for _, r := range runs {
		res, err := NewAssigner(r.policy, r.items, a.log).Assign()
		if err != nil {
			a.log.Error("position analysis aborted", zap.Error(err))
			return nil, err
		}
		r.result = res
		challenges = append(challenges, res.Challenges...)
		a.log.Debug("category analyzed",
			zap.String("category", string(r.policy.Category)),
			zap.Int("affixes", len(r.items)),
			zap.Int("classes", len(res.Classes)),
			zap.Int("challenges", len(res.Challenges)))
	}

	for _, r := range runs {
		for _, it := range r.items {
			it.Morpheme.StartClass, it.Morpheme.EndClass = "", ""
			it.Finalize()
		}
		c.SetClasses(r.policy.Category, r.result.Classes)
	}
	c.Challenges = append(c.Challenges, challenges...)
	a.stamp(c)

	a.log.Info("position analysis complete",
		zap.Int("prefix_classes", len(c.PrefixClasses)),
		zap.Int("suffix_classes", len(c.SuffixClasses)),
		zap.Int("challenges", len(challenges)))
	return challenges, nil
}

func (a *Analyzer) stamp(c *model.Corpus) {
	t := a.now().UTC()
	c.AnalyzedAt = &t
}
