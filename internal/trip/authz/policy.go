// Package authz is the single role policy consulted by every mutating
// trip operation. Call sites never duplicate role rules.
package authz

import (
	"fmt"
	"strings"

	apperrors "github.com/anchorline/tripgate/internal/platform/errors"
)

// Role describes the acting crew member's authority for a trip.
type Role string

const (
	// RoleNone marks an actor with no crew relationship to the trip.
	RoleNone Role = ""
	// RoleLead is the confirmed lead guide.
	RoleLead Role = "lead"
	// RoleSupport is a confirmed support guide.
	RoleSupport Role = "support"
	// RoleOpsAdmin is the operations back office.
	RoleOpsAdmin Role = "ops_admin"
)

// NormalizeRole canonicalizes role labels from transport.
func NormalizeRole(value string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "lead":
		return RoleLead, true
	case "support":
		return RoleSupport, true
	case "ops_admin":
		return RoleOpsAdmin, true
	case "", "none":
		return RoleNone, true
	default:
		return RoleNone, false
	}
}

// Action describes a category of trip operation for policy checks.
type Action int

const (
	// ActionUnspecified represents an invalid action.
	ActionUnspecified Action = iota
	// ActionConfirmOwnAssignment represents a guide answering their own assignment.
	ActionConfirmOwnAssignment
	// ActionEditChecklistItem represents toggling a facility or equipment item.
	ActionEditChecklistItem
	// ActionSubmitRiskAssessment represents recording a risk assessment snapshot.
	ActionSubmitRiskAssessment
	// ActionUpdatePassengerStatus represents boarding or returning a passenger.
	ActionUpdatePassengerStatus
	// ActionTriggerStart represents the before_departure to during_trip transition.
	ActionTriggerStart
	// ActionTriggerEnd represents the during_trip to post_trip transition.
	ActionTriggerEnd
	// ActionAssignCrew represents assigning a guide to a trip.
	ActionAssignCrew
	// ActionRemoveCrew represents withdrawing a guide from a trip.
	ActionRemoveCrew
	// ActionManageManifest represents adding passengers to the manifest.
	ActionManageManifest
	// ActionRecordOpsSignals represents ingesting the operational record.
	ActionRecordOpsSignals
	// ActionViewUnmaskedPassengerData represents reading clear passenger PII.
	ActionViewUnmaskedPassengerData
)

// CanPerform reports whether the role may perform the action.
//
// Only the lead guide triggers phase transitions; lead and support edit
// operational state during the trip; only ops_admin manages crew and the
// manifest.
func CanPerform(action Action, role Role) bool {
	switch action {
	case ActionConfirmOwnAssignment:
		return role == RoleLead || role == RoleSupport
	case ActionEditChecklistItem, ActionSubmitRiskAssessment, ActionUpdatePassengerStatus:
		return role == RoleLead || role == RoleSupport
	case ActionTriggerStart, ActionTriggerEnd:
		return role == RoleLead
	case ActionAssignCrew, ActionRemoveCrew, ActionManageManifest, ActionRecordOpsSignals:
		return role == RoleOpsAdmin
	case ActionViewUnmaskedPassengerData:
		return role == RoleLead || role == RoleOpsAdmin
	default:
		return false
	}
}

// ValidateAction ensures the role allows the requested action.
// Denials carry the role and action as metadata for reporting.
func ValidateAction(action Action, role Role) error {
	if CanPerform(action, role) {
		return nil
	}
	roleLabel := roleLabel(role)
	actionLabel := actionLabel(action)
	return apperrors.WithMetadata(
		apperrors.CodeCrewActionNotAllowed,
		fmt.Sprintf("role %s does not allow action %s", roleLabel, actionLabel),
		map[string]string{"Role": roleLabel, "Action": actionLabel},
	)
}

// Tier positions roles on the passenger-data visibility ladder.
// Roles at or above the configured visibility tier read clear data;
// everyone below reads the masked view.
func Tier(role Role) int {
	switch role {
	case RoleSupport:
		return 1
	case RoleLead:
		return 2
	case RoleOpsAdmin:
		return 3
	default:
		return 0
	}
}

// roleLabel returns a stable label for a role.
func roleLabel(role Role) string {
	switch role {
	case RoleLead:
		return "LEAD"
	case RoleSupport:
		return "SUPPORT"
	case RoleOpsAdmin:
		return "OPS_ADMIN"
	default:
		return "NONE"
	}
}

// actionLabel returns a stable label for an action.
func actionLabel(action Action) string {
	switch action {
	case ActionConfirmOwnAssignment:
		return "CONFIRM_OWN_ASSIGNMENT"
	case ActionEditChecklistItem:
		return "EDIT_CHECKLIST_ITEM"
	case ActionSubmitRiskAssessment:
		return "SUBMIT_RISK_ASSESSMENT"
	case ActionUpdatePassengerStatus:
		return "UPDATE_PASSENGER_STATUS"
	case ActionTriggerStart:
		return "TRIGGER_START"
	case ActionTriggerEnd:
		return "TRIGGER_END"
	case ActionAssignCrew:
		return "ASSIGN_CREW"
	case ActionRemoveCrew:
		return "REMOVE_CREW"
	case ActionManageManifest:
		return "MANAGE_MANIFEST"
	case ActionRecordOpsSignals:
		return "RECORD_OPS_SIGNALS"
	case ActionViewUnmaskedPassengerData:
		return "VIEW_UNMASKED_PASSENGER_DATA"
	default:
		return "UNSPECIFIED"
	}
}
