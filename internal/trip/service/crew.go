package service

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/anchorline/tripgate/internal/platform/errors"
	"github.com/anchorline/tripgate/internal/storage"
	"github.com/anchorline/tripgate/internal/trip/authz"
	"github.com/anchorline/tripgate/internal/trip/domain"
)

// AssignCrew creates a pending assignment for a guide. Assigning a lead
// clears any pending reassignment flag on the trip.
func (s *Service) AssignCrew(ctx context.Context, actor Actor, tripID, guideID, role string) (domain.CrewAssignment, error) {
	actorRole, err := s.resolveRole(ctx, tripID, actor)
	if err != nil {
		return domain.CrewAssignment{}, err
	}
	if err := authz.ValidateAction(authz.ActionAssignCrew, actorRole); err != nil {
		return domain.CrewAssignment{}, err
	}
	trip, err := s.GetTrip(ctx, tripID)
	if err != nil {
		return domain.CrewAssignment{}, err
	}

	crewRole, ok := domain.NormalizeCrewRole(role)
	if !ok {
		return domain.CrewAssignment{}, apperrors.WithMetadata(
			apperrors.CodeCrewInvalidRole,
			fmt.Sprintf("crew role %q is not assignable", role),
			map[string]string{"Role": role},
		)
	}
	assignment, err := domain.NewCrewAssignment(tripID, guideID, crewRole, s.now, s.newID)
	if err != nil {
		return domain.CrewAssignment{}, err
	}
	if err := s.stores.Crew.CreateAssignment(ctx, assignment); err != nil {
		return domain.CrewAssignment{}, fmt.Errorf("persist crew assignment: %w", err)
	}

	if crewRole == domain.CrewRoleLead && trip.NeedsReassignment {
		if err := s.stores.Trips.SetNeedsReassignment(ctx, tripID, false, s.clock()); err != nil {
			return domain.CrewAssignment{}, fmt.Errorf("clear reassignment flag: %w", err)
		}
	}
	return assignment, nil
}

// RemoveCrew withdraws a guide from a trip. Assignments are never deleted;
// removal moves the record to rejected. Withdrawing a confirmed lead flags
// the trip for reassignment.
func (s *Service) RemoveCrew(ctx context.Context, actor Actor, tripID, guideID string) error {
	actorRole, err := s.resolveRole(ctx, tripID, actor)
	if err != nil {
		return err
	}
	if err := authz.ValidateAction(authz.ActionRemoveCrew, actorRole); err != nil {
		return err
	}

	assignment, err := s.stores.Crew.GetAssignment(ctx, tripID, guideID)
	if errors.Is(err, storage.ErrNotFound) {
		return notFound("crew assignment", guideID)
	}
	if err != nil {
		return fmt.Errorf("load crew assignment: %w", err)
	}
	if assignment.Status == domain.AssignmentStatusRejected {
		return nil
	}

	err = s.stores.Crew.UpdateAssignmentStatus(ctx, assignment.ID, assignment.Status, domain.AssignmentStatusRejected, s.clock())
	if errors.Is(err, storage.ErrConflict) {
		return assignmentConflict(assignment.ID)
	}
	if err != nil {
		return fmt.Errorf("withdraw crew assignment: %w", err)
	}

	if assignment.Role == domain.CrewRoleLead && assignment.Status == domain.AssignmentStatusConfirmed {
		if err := s.stores.Trips.SetNeedsReassignment(ctx, tripID, true, s.clock()); err != nil {
			return fmt.Errorf("flag trip for reassignment: %w", err)
		}
	}
	return nil
}

// RespondAssignment applies the acting guide's confirm or reject decision
// on their own assignment.
//
// Confirming the lead on a pre-trip trip advances it to before_departure:
// the crew is in place and the readiness checklist work begins. Rejecting
// flags the trip so operations re-dispatches.
func (s *Service) RespondAssignment(ctx context.Context, actor Actor, tripID string, accept bool) (domain.CrewAssignment, error) {
	assignment, err := s.stores.Crew.GetAssignment(ctx, tripID, actor.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return domain.CrewAssignment{}, apperrors.WithMetadata(
			apperrors.CodeCrewNotAssigned,
			fmt.Sprintf("guide %s is not assigned to trip %s", actor.ID, tripID),
			map[string]string{"GuideID": actor.ID, "TripID": tripID},
		)
	}
	if err != nil {
		return domain.CrewAssignment{}, fmt.Errorf("load crew assignment: %w", err)
	}

	updated, err := domain.RespondAssignment(assignment, accept, s.now)
	if err != nil {
		return domain.CrewAssignment{}, err
	}
	err = s.stores.Crew.UpdateAssignmentStatus(ctx, assignment.ID, assignment.Status, updated.Status, updated.UpdatedAt)
	if errors.Is(err, storage.ErrConflict) {
		return domain.CrewAssignment{}, assignmentConflict(assignment.ID)
	}
	if err != nil {
		return domain.CrewAssignment{}, fmt.Errorf("persist assignment response: %w", err)
	}

	switch {
	case accept && assignment.Role == domain.CrewRoleLead:
		// Best effort: another confirmation may already have advanced
		// the trip, which is the state we want anyway.
		err := s.stores.Trips.TransitionPhase(ctx, tripID, domain.PhasePreTrip, domain.PhaseBeforeDeparture, s.clock())
		if err != nil && !errors.Is(err, storage.ErrConflict) {
			return domain.CrewAssignment{}, fmt.Errorf("advance trip after lead confirmation: %w", err)
		}
	case !accept:
		if err := s.stores.Trips.SetNeedsReassignment(ctx, tripID, true, s.clock()); err != nil {
			return domain.CrewAssignment{}, fmt.Errorf("flag trip for reassignment: %w", err)
		}
	}
	return updated, nil
}

// ListCrew returns a trip's crew set.
func (s *Service) ListCrew(ctx context.Context, tripID string) ([]domain.CrewAssignment, error) {
	if _, err := s.GetTrip(ctx, tripID); err != nil {
		return nil, err
	}
	assignments, err := s.stores.Crew.ListAssignments(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("list crew assignments: %w", err)
	}
	return assignments, nil
}

// assignmentConflict reports a lost assignment-status race.
func assignmentConflict(assignmentID string) error {
	return apperrors.WithMetadata(
		apperrors.CodeCrewInvalidStatusTransition,
		"the assignment changed while this response was in flight, reload and retry",
		map[string]string{"AssignmentID": assignmentID},
	)
}
