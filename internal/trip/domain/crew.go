package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/anchorline/tripgate/internal/platform/errors"
	"github.com/anchorline/tripgate/internal/platform/id"
)

// CrewRole describes the operational role of a crew assignment.
type CrewRole string

const (
	CrewRoleUnspecified CrewRole = ""
	CrewRoleLead        CrewRole = "lead"
	CrewRoleSupport     CrewRole = "support"
)

// NormalizeCrewRole canonicalizes crew role labels.
func NormalizeCrewRole(value string) (CrewRole, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "lead":
		return CrewRoleLead, true
	case "support":
		return CrewRoleSupport, true
	default:
		return CrewRoleUnspecified, false
	}
}

// AssignmentStatus describes the confirmation state of a crew assignment.
type AssignmentStatus string

const (
	AssignmentStatusUnspecified AssignmentStatus = ""
	AssignmentStatusAssigned    AssignmentStatus = "assigned"
	AssignmentStatusConfirmed   AssignmentStatus = "confirmed"
	AssignmentStatusRejected    AssignmentStatus = "rejected"
)

// NormalizeAssignmentStatus canonicalizes assignment status labels.
func NormalizeAssignmentStatus(value string) (AssignmentStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "assigned":
		return AssignmentStatusAssigned, true
	case "confirmed":
		return AssignmentStatusConfirmed, true
	case "rejected":
		return AssignmentStatusRejected, true
	default:
		return AssignmentStatusUnspecified, false
	}
}

// IsAssignmentStatusTransitionAllowed enforces the assignment lifecycle.
// Assignments are never deleted; they only move from assigned to a
// terminal confirmed or rejected state.
func IsAssignmentStatusTransitionAllowed(from, to AssignmentStatus) bool {
	if from != AssignmentStatusAssigned {
		return false
	}
	return to == AssignmentStatusConfirmed || to == AssignmentStatusRejected
}

// CrewAssignment pairs a trip with a guide in a given role.
type CrewAssignment struct {
	ID        string
	TripID    string
	GuideID   string
	Role      CrewRole
	Status    AssignmentStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewCrewAssignment creates a pending assignment for a guide.
func NewCrewAssignment(tripID, guideID string, role CrewRole, now func() time.Time, idGenerator func() (string, error)) (CrewAssignment, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}
	if role != CrewRoleLead && role != CrewRoleSupport {
		return CrewAssignment{}, apperrors.WithMetadata(
			apperrors.CodeCrewInvalidRole,
			fmt.Sprintf("crew role %q is not assignable", role),
			map[string]string{"Role": string(role)},
		)
	}

	assignmentID, err := idGenerator()
	if err != nil {
		return CrewAssignment{}, fmt.Errorf("generate assignment id: %w", err)
	}

	createdAt := now().UTC()
	return CrewAssignment{
		ID:        assignmentID,
		TripID:    tripID,
		GuideID:   guideID,
		Role:      role,
		Status:    AssignmentStatusAssigned,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}, nil
}

// RespondAssignment applies a guide's confirm or reject decision.
func RespondAssignment(assignment CrewAssignment, accept bool, now func() time.Time) (CrewAssignment, error) {
	if now == nil {
		now = time.Now
	}
	target := AssignmentStatusRejected
	if accept {
		target = AssignmentStatusConfirmed
	}
	if !IsAssignmentStatusTransitionAllowed(assignment.Status, target) {
		return CrewAssignment{}, apperrors.WithMetadata(
			apperrors.CodeCrewInvalidStatusTransition,
			fmt.Sprintf("assignment status %s does not allow transition to %s", assignment.Status, target),
			map[string]string{"From": string(assignment.Status), "To": string(target)},
		)
	}
	assignment.Status = target
	assignment.UpdatedAt = now().UTC()
	return assignment, nil
}

// ActiveLead returns the confirmed lead assignment from a crew set, if any.
// Absence of a confirmed lead is a valid, flagged state rather than a
// structural invariant.
func ActiveLead(assignments []CrewAssignment) (CrewAssignment, bool) {
	for _, assignment := range assignments {
		if assignment.Role == CrewRoleLead && assignment.Status == AssignmentStatusConfirmed {
			return assignment, true
		}
	}
	return CrewAssignment{}, false
}
