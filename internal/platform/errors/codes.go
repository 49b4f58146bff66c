// Package errors provides structured error handling for the trip engine.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// CodeInvalidRequest represents a malformed transport payload.
	CodeInvalidRequest Code = "INVALID_REQUEST"

	// Trip errors
	CodeTripNameEmpty              Code = "TRIP_NAME_EMPTY"
	CodeTripDateMissing            Code = "TRIP_DATE_MISSING"
	CodeTripInvalidPhase           Code = "TRIP_INVALID_PHASE"
	CodeTripInvalidPhaseTransition Code = "TRIP_INVALID_PHASE_TRANSITION"
	CodeTripPhaseConflict          Code = "TRIP_PHASE_CONFLICT"

	// Gate errors
	CodeReadinessBlocked  Code = "READINESS_BLOCKED"
	CodeCompletionBlocked Code = "COMPLETION_BLOCKED"

	// Risk assessment errors
	CodeRiskWaveHeightNegative Code = "RISK_WAVE_HEIGHT_NEGATIVE"
	CodeRiskWaveHeightTooHigh  Code = "RISK_WAVE_HEIGHT_TOO_HIGH"
	CodeRiskWindSpeedNegative  Code = "RISK_WIND_SPEED_NEGATIVE"
	CodeRiskWindSpeedTooHigh   Code = "RISK_WIND_SPEED_TOO_HIGH"
	CodeRiskInvalidWeather     Code = "RISK_INVALID_WEATHER_CONDITION"

	// Crew errors
	CodeCrewInvalidRole             Code = "CREW_INVALID_ROLE"
	CodeCrewInvalidStatusTransition Code = "CREW_INVALID_STATUS_TRANSITION"
	CodeCrewActionNotAllowed        Code = "CREW_ACTION_NOT_ALLOWED"
	CodeCrewNotAssigned             Code = "CREW_NOT_ASSIGNED"

	// Passenger errors
	CodePassengerInvalidStatusTransition Code = "PASSENGER_INVALID_STATUS_TRANSITION"

	// Checklist errors
	CodeChecklistInvalidNamespace Code = "CHECKLIST_INVALID_NAMESPACE"
	CodeChecklistUnknownItem      Code = "CHECKLIST_UNKNOWN_ITEM"

	// Catalog errors
	CodeCatalogUnknownPackage Code = "CATALOG_UNKNOWN_PACKAGE"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"

	// Collaborator errors
	CodeUpstreamUnavailable Code = "UPSTREAM_UNAVAILABLE"
)

// HTTPStatus maps domain codes to HTTP status codes.
func (c Code) HTTPStatus() int {
	switch c {
	// Bad request - validation failures, bad input
	case CodeInvalidRequest,
		CodeTripNameEmpty,
		CodeTripDateMissing,
		CodeTripInvalidPhase,
		CodeRiskWaveHeightNegative,
		CodeRiskWaveHeightTooHigh,
		CodeRiskWindSpeedNegative,
		CodeRiskWindSpeedTooHigh,
		CodeRiskInvalidWeather,
		CodeCrewInvalidRole,
		CodeChecklistInvalidNamespace,
		CodeChecklistUnknownItem,
		CodeCatalogUnknownPackage:
		return http.StatusBadRequest

	// Forbidden - role policy denied the action
	case CodeCrewActionNotAllowed,
		CodeCrewNotAssigned:
		return http.StatusForbidden

	// Not found
	case CodeNotFound:
		return http.StatusNotFound

	// Conflict - state does not allow the operation or a race was lost
	case CodeTripInvalidPhaseTransition,
		CodeTripPhaseConflict,
		CodeCrewInvalidStatusTransition,
		CodePassengerInvalidStatusTransition:
		return http.StatusConflict

	// Unprocessable - gate evaluated and refused the transition
	case CodeReadinessBlocked,
		CodeCompletionBlocked:
		return http.StatusUnprocessableEntity

	// Bad gateway - a collaborator failed
	case CodeUpstreamUnavailable:
		return http.StatusBadGateway

	default:
		return http.StatusInternalServerError
	}
}
