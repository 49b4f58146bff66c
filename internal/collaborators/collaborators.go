// Package collaborators declares the external systems the evaluators read.
//
// Each collaborator is a small interface consumed with an independent
// timeout. A failing collaborator degrades only its own sub-check; the
// remaining sub-checks still evaluate.
package collaborators

import (
	"context"
	"errors"
)

// ErrNoRecord indicates a collaborator holds no data for the trip.
// Evaluators treat the affected sub-check as not-applicable where the gate
// semantics allow it.
var ErrNoRecord = errors.New("no record for trip")

// CertificationDirectory answers whether the trip's crew holds valid
// certifications.
type CertificationDirectory interface {
	CrewCertified(ctx context.Context, tripID string) (bool, error)
}

// ApprovalLog answers whether operations has approved the trip.
type ApprovalLog interface {
	Approved(ctx context.Context, tripID string) (bool, error)
}

// AttendanceLog tracks crew check-in before departure and check-out after
// return.
type AttendanceLog interface {
	CheckedIn(ctx context.Context, tripID string) (bool, error)
	CheckedOut(ctx context.Context, tripID string) (bool, error)
}

// HandoverLog tracks the inbound logistics handover after a trip returns.
type HandoverLog interface {
	InboundCompleted(ctx context.Context, tripID string) (bool, error)
}

// TaskBoard reports required-task progress for a trip. Optional tasks are
// excluded from both counts.
type TaskBoard interface {
	RequiredProgress(ctx context.Context, tripID string) (completed, total int, err error)
}

// ExpenseLedger reports the soft post-trip financial checks.
type ExpenseLedger interface {
	Submitted(ctx context.Context, tripID string) (bool, error)
	SplitCalculated(ctx context.Context, tripID string) (bool, error)
}
