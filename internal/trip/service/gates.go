package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/anchorline/tripgate/internal/collaborators"
	apperrors "github.com/anchorline/tripgate/internal/platform/errors"
	"github.com/anchorline/tripgate/internal/platform/timeouts"
	"github.com/anchorline/tripgate/internal/storage"
	"github.com/anchorline/tripgate/internal/trip/authz"
	"github.com/anchorline/tripgate/internal/trip/completion"
	"github.com/anchorline/tripgate/internal/trip/domain"
	"github.com/anchorline/tripgate/internal/trip/readiness"
)

// Readiness evaluates the departure gate for a trip. The decision is
// derived fresh on every call and never cached.
func (s *Service) Readiness(ctx context.Context, tripID string) (readiness.Status, error) {
	trip, err := s.GetTrip(ctx, tripID)
	if err != nil {
		return readiness.Status{}, err
	}
	snapshot, err := s.readinessSnapshot(ctx, trip)
	if err != nil {
		return readiness.Status{}, err
	}
	return readiness.Evaluate(snapshot, s.now), nil
}

// StartTrip moves a trip from before_departure to during_trip.
//
// The gate is re-evaluated at the moment of the call; a stale readiness
// view in some UI never authorizes a departure. The phase update itself is
// guarded, so of two simultaneous starts exactly one wins.
func (s *Service) StartTrip(ctx context.Context, actor Actor, tripID string) (domain.Trip, error) {
	ctx, span := s.tracer.Start(ctx, "trip.start", trace.WithAttributes(
		attribute.String("trip.id", tripID),
	))
	defer span.End()

	role, err := s.resolveRole(ctx, tripID, actor)
	if err != nil {
		return domain.Trip{}, err
	}
	if err := authz.ValidateAction(authz.ActionTriggerStart, role); err != nil {
		return domain.Trip{}, err
	}

	trip, err := s.GetTrip(ctx, tripID)
	if err != nil {
		return domain.Trip{}, err
	}
	if trip.Phase != domain.PhaseBeforeDeparture {
		return domain.Trip{}, phaseMismatch(trip.Phase, domain.PhaseBeforeDeparture, domain.PhaseDuringTrip)
	}

	snapshot, err := s.readinessSnapshot(ctx, trip)
	if err != nil {
		return domain.Trip{}, err
	}
	status := readiness.Evaluate(snapshot, s.now)
	span.SetAttributes(attribute.Bool("trip.can_start", status.CanStart))
	if !status.CanStart {
		return domain.Trip{}, apperrors.WithMetadata(
			apperrors.CodeReadinessBlocked,
			"the trip is not ready to start: "+strings.Join(status.MissingItems, "; "),
			map[string]string{"MissingItems": strings.Join(status.MissingItems, "; ")},
		)
	}

	return s.transition(ctx, tripID, domain.PhaseBeforeDeparture, domain.PhaseDuringTrip)
}

// Completion evaluates the closure gate for a trip.
func (s *Service) Completion(ctx context.Context, tripID string) (completion.Status, error) {
	trip, err := s.GetTrip(ctx, tripID)
	if err != nil {
		return completion.Status{}, err
	}
	snapshot, err := s.completionSnapshot(ctx, trip)
	if err != nil {
		return completion.Status{}, err
	}
	return completion.Evaluate(snapshot, s.now), nil
}

// EndTrip moves a trip from during_trip to its terminal post_trip phase.
// Same shape as StartTrip: fresh gate evaluation, then a guarded update.
func (s *Service) EndTrip(ctx context.Context, actor Actor, tripID string) (domain.Trip, error) {
	ctx, span := s.tracer.Start(ctx, "trip.end", trace.WithAttributes(
		attribute.String("trip.id", tripID),
	))
	defer span.End()

	role, err := s.resolveRole(ctx, tripID, actor)
	if err != nil {
		return domain.Trip{}, err
	}
	if err := authz.ValidateAction(authz.ActionTriggerEnd, role); err != nil {
		return domain.Trip{}, err
	}

	trip, err := s.GetTrip(ctx, tripID)
	if err != nil {
		return domain.Trip{}, err
	}
	if trip.Phase != domain.PhaseDuringTrip {
		return domain.Trip{}, phaseMismatch(trip.Phase, domain.PhaseDuringTrip, domain.PhasePostTrip)
	}

	snapshot, err := s.completionSnapshot(ctx, trip)
	if err != nil {
		return domain.Trip{}, err
	}
	status := completion.Evaluate(snapshot, s.now)
	span.SetAttributes(attribute.Bool("trip.can_complete", status.CanComplete))
	if !status.CanComplete {
		return domain.Trip{}, apperrors.WithMetadata(
			apperrors.CodeCompletionBlocked,
			"the trip cannot be completed: "+strings.Join(status.MissingItems, "; "),
			map[string]string{"MissingItems": strings.Join(status.MissingItems, "; ")},
		)
	}

	return s.transition(ctx, tripID, domain.PhaseDuringTrip, domain.PhasePostTrip)
}

// transition applies a guarded phase update and reloads the trip.
func (s *Service) transition(ctx context.Context, tripID string, from, to domain.Phase) (domain.Trip, error) {
	err := s.stores.Trips.TransitionPhase(ctx, tripID, from, to, s.clock())
	if errors.Is(err, storage.ErrConflict) {
		return domain.Trip{}, apperrors.WithMetadata(
			apperrors.CodeTripPhaseConflict,
			"the trip phase changed while this transition was in flight, reload and retry",
			map[string]string{"TripID": tripID, "From": string(from), "To": string(to)},
		)
	}
	if errors.Is(err, storage.ErrNotFound) {
		return domain.Trip{}, notFound("trip", tripID)
	}
	if err != nil {
		return domain.Trip{}, fmt.Errorf("transition trip phase: %w", err)
	}
	return s.GetTrip(ctx, tripID)
}

// readinessSnapshot gathers every departure sub-check input. Collaborators
// are consulted sequentially, each under its own timeout, so one slow
// system degrades only its own sub-check.
func (s *Service) readinessSnapshot(ctx context.Context, trip domain.Trip) (readiness.Snapshot, error) {
	var snapshot readiness.Snapshot

	snapshot.Attendance = s.boolSignal(ctx, trip.ID, s.checkedIn())
	snapshot.Certifications = s.boolSignal(ctx, trip.ID, s.crewCertified())
	snapshot.AdminApproval = s.boolSignal(ctx, trip.ID, s.approved())

	for _, namespace := range []domain.ChecklistNamespace{
		domain.ChecklistNamespaceFacility,
		domain.ChecklistNamespaceEquipment,
	} {
		checked, err := s.stores.Checklists.ChecklistState(ctx, trip.ID, namespace)
		if err != nil {
			return readiness.Snapshot{}, fmt.Errorf("load %s checklist state: %w", namespace, err)
		}
		progress := domain.MeasureChecklist(trip.Checklists.Items(namespace), checked)
		if namespace == domain.ChecklistNamespaceFacility {
			snapshot.Facility = progress
		} else {
			snapshot.Equipment = progress
		}
	}

	latest, err := s.stores.Risks.LatestAssessment(ctx, trip.ID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case err != nil:
		return readiness.Snapshot{}, fmt.Errorf("load latest risk assessment: %w", err)
	default:
		snapshot.Risk = readiness.RiskSignal{
			Exists:  true,
			Score:   latest.Result.Score,
			Blocked: latest.Result.Blocked,
		}
	}
	return snapshot, nil
}

// completionSnapshot gathers every closure sub-check input.
func (s *Service) completionSnapshot(ctx context.Context, trip domain.Trip) (completion.Snapshot, error) {
	snapshot := completion.Snapshot{
		DocumentationURL: trip.DocumentationURL,
		Manifest:         completion.ManifestSignal{Applicable: trip.PassengerTracking},
		Handover:         completion.HandoverSignal{Applicable: trip.LogisticsTracking},
	}

	if trip.PassengerTracking {
		passengers, err := s.stores.Manifest.ListPassengers(ctx, trip.ID)
		if err != nil {
			return completion.Snapshot{}, fmt.Errorf("load passenger manifest: %w", err)
		}
		snapshot.Manifest.Returned, snapshot.Manifest.Total = domain.CountReturned(passengers)
	}

	if trip.LogisticsTracking {
		completed, unavailable := s.fetchBool(ctx, trip.ID, s.inboundCompleted())
		snapshot.Handover.Completed = completed
		snapshot.Handover.Unavailable = unavailable
	}

	checkedOut, unavailable := s.fetchBool(ctx, trip.ID, s.checkedOut())
	snapshot.Attendance = completion.AttendanceSignal{CheckedOut: checkedOut, Unavailable: unavailable}

	snapshot.Tasks = s.taskSignal(ctx, trip.ID)
	snapshot.Expenses = s.softSignal(ctx, trip.ID, s.expensesSubmitted())
	snapshot.PaymentSplit = s.softSignal(ctx, trip.ID, s.splitCalculated())
	return snapshot, nil
}

// boolFetch reads one boolean fact about a trip from a collaborator.
// A nil fetch marks an unwired collaborator.
type boolFetch func(ctx context.Context, tripID string) (bool, error)

func (s *Service) crewCertified() boolFetch {
	if s.collaborators.Certifications == nil {
		return nil
	}
	return s.collaborators.Certifications.CrewCertified
}

func (s *Service) approved() boolFetch {
	if s.collaborators.Approvals == nil {
		return nil
	}
	return s.collaborators.Approvals.Approved
}

func (s *Service) checkedIn() boolFetch {
	if s.collaborators.Attendance == nil {
		return nil
	}
	return s.collaborators.Attendance.CheckedIn
}

func (s *Service) checkedOut() boolFetch {
	if s.collaborators.Attendance == nil {
		return nil
	}
	return s.collaborators.Attendance.CheckedOut
}

func (s *Service) inboundCompleted() boolFetch {
	if s.collaborators.Handover == nil {
		return nil
	}
	return s.collaborators.Handover.InboundCompleted
}

func (s *Service) expensesSubmitted() boolFetch {
	if s.collaborators.Expenses == nil {
		return nil
	}
	return s.collaborators.Expenses.Submitted
}

func (s *Service) splitCalculated() boolFetch {
	if s.collaborators.Expenses == nil {
		return nil
	}
	return s.collaborators.Expenses.SplitCalculated
}

// fetchBool runs one collaborator call under the shared timeout.
// A missing record is a known false, not an outage.
func (s *Service) fetchBool(ctx context.Context, tripID string, fetch boolFetch) (ok, unavailable bool) {
	if fetch == nil {
		return false, true
	}
	callCtx, cancel := context.WithTimeout(ctx, timeouts.Collaborator)
	defer cancel()

	value, err := fetch(callCtx, tripID)
	if errors.Is(err, collaborators.ErrNoRecord) {
		return false, false
	}
	if err != nil {
		return false, true
	}
	return value, false
}

// boolSignal adapts fetchBool to the readiness signal shape.
func (s *Service) boolSignal(ctx context.Context, tripID string, fetch boolFetch) readiness.Signal {
	ok, unavailable := s.fetchBool(ctx, tripID, fetch)
	return readiness.Signal{OK: ok, Unavailable: unavailable}
}

// softSignal adapts fetchBool to the completion soft-check shape.
func (s *Service) softSignal(ctx context.Context, tripID string, fetch boolFetch) completion.SoftSignal {
	ok, unavailable := s.fetchBool(ctx, tripID, fetch)
	return completion.SoftSignal{OK: ok, Unavailable: unavailable}
}

// taskSignal reads required-task progress from the task board.
func (s *Service) taskSignal(ctx context.Context, tripID string) completion.TasksSignal {
	if s.collaborators.Tasks == nil {
		return completion.TasksSignal{Unavailable: true}
	}
	callCtx, cancel := context.WithTimeout(ctx, timeouts.Collaborator)
	defer cancel()

	completed, total, err := s.collaborators.Tasks.RequiredProgress(callCtx, tripID)
	if errors.Is(err, collaborators.ErrNoRecord) {
		return completion.TasksSignal{}
	}
	if err != nil {
		return completion.TasksSignal{Unavailable: true}
	}
	return completion.TasksSignal{RequiredCompleted: completed, RequiredTotal: total}
}

// phaseMismatch reports a transition attempted from the wrong phase.
func phaseMismatch(current, want, to domain.Phase) error {
	return apperrors.WithMetadata(
		apperrors.CodeTripInvalidPhaseTransition,
		fmt.Sprintf("trip phase %s does not allow transition to %s", current, to),
		map[string]string{"Current": string(current), "Want": string(want), "To": string(to)},
	)
}
