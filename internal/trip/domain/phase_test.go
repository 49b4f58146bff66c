package domain

import "testing"

func TestNormalizePhase(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  Phase
		ok    bool
	}{
		{name: "pre trip", value: "pre_trip", want: PhasePreTrip, ok: true},
		{name: "before departure", value: "before_departure", want: PhaseBeforeDeparture, ok: true},
		{name: "during trip", value: "during_trip", want: PhaseDuringTrip, ok: true},
		{name: "post trip", value: "post_trip", want: PhasePostTrip, ok: true},
		{name: "mixed case trimmed", value: "  Pre_Trip ", want: PhasePreTrip, ok: true},
		{name: "empty", value: "", ok: false},
		{name: "unknown", value: "cancelled", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizePhase(tt.value)
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v", tt.ok, ok)
			}
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestIsPhaseTransitionAllowed(t *testing.T) {
	tests := []struct {
		name    string
		from    Phase
		to      Phase
		allowed bool
	}{
		{name: "pre to before departure", from: PhasePreTrip, to: PhaseBeforeDeparture, allowed: true},
		{name: "before departure to during", from: PhaseBeforeDeparture, to: PhaseDuringTrip, allowed: true},
		{name: "during to post", from: PhaseDuringTrip, to: PhasePostTrip, allowed: true},
		{name: "backward rejected", from: PhaseDuringTrip, to: PhaseBeforeDeparture, allowed: false},
		{name: "skip rejected", from: PhasePreTrip, to: PhaseDuringTrip, allowed: false},
		{name: "post trip terminal", from: PhasePostTrip, to: PhasePreTrip, allowed: false},
		{name: "self transition rejected", from: PhaseDuringTrip, to: PhaseDuringTrip, allowed: false},
		{name: "unknown from rejected", from: PhaseUnspecified, to: PhasePreTrip, allowed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsPhaseTransitionAllowed(tt.from, tt.to); got != tt.allowed {
				t.Fatalf("expected %v, got %v", tt.allowed, got)
			}
		})
	}
}

func TestNextPhase(t *testing.T) {
	if next, ok := NextPhase(PhaseBeforeDeparture); !ok || next != PhaseDuringTrip {
		t.Fatalf("expected during_trip, got %q ok=%v", next, ok)
	}
	if _, ok := NextPhase(PhasePostTrip); ok {
		t.Fatal("expected post_trip to be terminal")
	}
}

func TestPhaseAtOrAfter(t *testing.T) {
	if !PhaseAtOrAfter(PhaseDuringTrip, PhaseBeforeDeparture) {
		t.Fatal("expected during_trip to be at or after before_departure")
	}
	if PhaseAtOrAfter(PhasePreTrip, PhaseDuringTrip) {
		t.Fatal("expected pre_trip to be before during_trip")
	}
	if PhaseAtOrAfter(PhaseUnspecified, PhasePreTrip) {
		t.Fatal("expected unknown phase to compare false")
	}
}
