package risk

import (
	"fmt"
	"time"

	"github.com/anchorline/tripgate/internal/platform/id"
)

// Assessment is an immutable snapshot of one scored departure check.
// A trip accumulates assessments over time; only the latest gates the
// readiness decision.
type Assessment struct {
	ID        string
	TripID    string
	Input     Input
	Result    Result
	CreatedAt time.Time
}

// NewAssessment validates and scores the input, producing a snapshot
// ready for persistence.
func NewAssessment(tripID string, input Input, now func() time.Time, idGenerator func() (string, error)) (Assessment, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	result, err := Score(input)
	if err != nil {
		return Assessment{}, err
	}

	assessmentID, err := idGenerator()
	if err != nil {
		return Assessment{}, fmt.Errorf("generate assessment id: %w", err)
	}

	return Assessment{
		ID:        assessmentID,
		TripID:    tripID,
		Input:     input,
		Result:    result,
		CreatedAt: now().UTC(),
	}, nil
}
