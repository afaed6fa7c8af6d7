package position

import (
	"errors"
	"fmt"

	"github.com/rcliao/gafaws/internal/model"
)

// Catalog keys carried by fog challenges.
const (
	MsgPrefixFog = "challenge.prefix_fog"
	MsgSuffixFog = "challenge.suffix_fog"
)

// ErrConsistency matches every *ConsistencyError via errors.Is.
var ErrConsistency = errors.New("position: internal consistency violation")

// ConsistencyError reports a broken invariant inside the assigner. It
// signals a defect in the algorithm, never a problem with the input data,
// and aborts the analysis without touching the corpus class data.
type ConsistencyError struct {
	Category model.Category
	Morpheme string
	Reason   string
}

func (e *ConsistencyError) Error() string {
	if e.Morpheme != "" {
		return fmt.Sprintf("%s: %s %s: %s", ErrConsistency, e.Category, e.Morpheme, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrConsistency, e.Category, e.Reason)
}

func (e *ConsistencyError) Is(target error) bool {
	return target == ErrConsistency
}
