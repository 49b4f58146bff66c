package domain

import "strings"

// Phase describes the trip lifecycle label used by domain decisions.
type Phase string

const (
	PhaseUnspecified     Phase = ""
	PhasePreTrip         Phase = "pre_trip"
	PhaseBeforeDeparture Phase = "before_departure"
	PhaseDuringTrip      Phase = "during_trip"
	PhasePostTrip        Phase = "post_trip"
)

// NormalizePhase canonicalizes phase labels from transport or storage.
func NormalizePhase(value string) (Phase, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", false
	}
	switch strings.ToLower(trimmed) {
	case "pre_trip":
		return PhasePreTrip, true
	case "before_departure":
		return PhaseBeforeDeparture, true
	case "during_trip":
		return PhaseDuringTrip, true
	case "post_trip":
		return PhasePostTrip, true
	default:
		return "", false
	}
}

// phaseOrder positions each phase on the total lifecycle order.
// Unknown phases sort before every valid phase.
func phaseOrder(phase Phase) int {
	switch phase {
	case PhasePreTrip:
		return 1
	case PhaseBeforeDeparture:
		return 2
	case PhaseDuringTrip:
		return 3
	case PhasePostTrip:
		return 4
	default:
		return 0
	}
}

// NextPhase returns the phase that follows the given one.
// PhasePostTrip is terminal and has no successor.
func NextPhase(phase Phase) (Phase, bool) {
	switch phase {
	case PhasePreTrip:
		return PhaseBeforeDeparture, true
	case PhaseBeforeDeparture:
		return PhaseDuringTrip, true
	case PhaseDuringTrip:
		return PhasePostTrip, true
	default:
		return PhaseUnspecified, false
	}
}

// IsPhaseTransitionAllowed enforces the forward-only, no-skip lifecycle.
// Only the immediate successor is reachable; backward moves and phase
// skips are rejected.
func IsPhaseTransitionAllowed(from, to Phase) bool {
	next, ok := NextPhase(from)
	if !ok {
		return false
	}
	return to == next
}

// PhaseAtOrAfter reports whether phase has reached the given milestone.
func PhaseAtOrAfter(phase, milestone Phase) bool {
	if phaseOrder(phase) == 0 || phaseOrder(milestone) == 0 {
		return false
	}
	return phaseOrder(phase) >= phaseOrder(milestone)
}
