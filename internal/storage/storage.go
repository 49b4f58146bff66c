// Package storage defines the persistence interfaces for the trip engine.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/anchorline/tripgate/internal/trip/domain"
	"github.com/anchorline/tripgate/internal/trip/risk"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// ErrConflict indicates a compare-and-swap update lost a race: the record's
// current state no longer matches what the caller read.
var ErrConflict = errors.New("record state changed")

// TripStore persists trip records.
//
// TransitionPhase is the engine's only at-most-once mutation: it moves the
// phase forward with a guarded update keyed on the expected current phase,
// so concurrent transition attempts cannot both succeed.
type TripStore interface {
	CreateTrip(ctx context.Context, trip domain.Trip) error
	GetTrip(ctx context.Context, tripID string) (domain.Trip, error)
	ListTrips(ctx context.Context) ([]domain.Trip, error)
	TransitionPhase(ctx context.Context, tripID string, from, to domain.Phase, at time.Time) error
	SetDocumentationURL(ctx context.Context, tripID, url string, at time.Time) error
	SetNeedsReassignment(ctx context.Context, tripID string, needs bool, at time.Time) error
}

// CrewStore persists crew assignments. Assignments are never deleted;
// status updates are guarded on the expected current status.
type CrewStore interface {
	CreateAssignment(ctx context.Context, assignment domain.CrewAssignment) error
	GetAssignment(ctx context.Context, tripID, guideID string) (domain.CrewAssignment, error)
	ListAssignments(ctx context.Context, tripID string) ([]domain.CrewAssignment, error)
	UpdateAssignmentStatus(ctx context.Context, assignmentID string, from, to domain.AssignmentStatus, at time.Time) error
}

// ManifestStore persists the ordered passenger manifest.
type ManifestStore interface {
	AddPassenger(ctx context.Context, passenger domain.Passenger) error
	GetPassenger(ctx context.Context, tripID, passengerID string) (domain.Passenger, error)
	ListPassengers(ctx context.Context, tripID string) ([]domain.Passenger, error)
	UpdatePassengerStatus(ctx context.Context, passengerID string, from, to domain.PassengerStatus, at time.Time) error
}

// ChecklistStore persists per-trip checklist checked state. Concurrent
// toggles are last-write-wins; the evaluators read current state at
// evaluation time.
type ChecklistStore interface {
	SetChecklistItem(ctx context.Context, tripID string, namespace domain.ChecklistNamespace, code string, checked bool, at time.Time) error
	ChecklistState(ctx context.Context, tripID string, namespace domain.ChecklistNamespace) (map[string]bool, error)
}

// RiskStore persists immutable risk assessment snapshots.
type RiskStore interface {
	AppendAssessment(ctx context.Context, assessment risk.Assessment) error
	LatestAssessment(ctx context.Context, tripID string) (risk.Assessment, error)
	ListAssessments(ctx context.Context, tripID string) ([]risk.Assessment, error)
}

// OpsSignals is the per-trip operational record fed by the surrounding
// systems (attendance, certifications, approvals, handover, tasks,
// expenses). The engine reads it through the collaborator interfaces.
type OpsSignals struct {
	TripID                 string
	AttendanceCheckedIn    bool
	AttendanceCheckedOut   bool
	CrewCertified          bool
	OpsApproved            bool
	HandoverRecorded       bool
	HandoverCompleted      bool
	TasksRequiredTotal     int
	TasksRequiredCompleted int
	ExpensesSubmitted      bool
	PaymentSplitCalculated bool
}

// OpsSignalStore persists the operational record.
type OpsSignalStore interface {
	PutOpsSignals(ctx context.Context, signals OpsSignals) error
	GetOpsSignals(ctx context.Context, tripID string) (OpsSignals, error)
}
