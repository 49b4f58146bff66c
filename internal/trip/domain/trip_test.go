package domain

import (
	"testing"
	"time"

	apperrors "github.com/anchorline/tripgate/internal/platform/errors"
)

func TestCreateTrip(t *testing.T) {
	departure := time.Date(2026, 7, 4, 9, 0, 0, 0, time.UTC)
	trip, err := CreateTrip(CreateTripInput{
		Name:              "  Morning Reef Tour ",
		DepartureDate:     departure,
		PackageCode:       "day-cruise",
		PassengerTracking: true,
		LogisticsTracking: true,
		Checklists:        testSnapshot(),
	}, fixedClock, staticID("trip-1"))
	if err != nil {
		t.Fatalf("create trip: %v", err)
	}

	if trip.ID != "trip-1" {
		t.Fatalf("expected generated id, got %q", trip.ID)
	}
	if trip.Name != "Morning Reef Tour" {
		t.Fatalf("expected trimmed name, got %q", trip.Name)
	}
	if trip.Phase != PhasePreTrip {
		t.Fatalf("expected pre_trip phase, got %s", trip.Phase)
	}
	if !trip.DepartureDate.Equal(departure) {
		t.Fatalf("expected departure %v, got %v", departure, trip.DepartureDate)
	}
	if trip.CreatedAt != fixedClock().UTC() || trip.UpdatedAt != trip.CreatedAt {
		t.Fatalf("unexpected timestamps: %+v", trip)
	}
	if len(trip.Checklists.Facility) != 3 || len(trip.Checklists.Equipment) != 2 {
		t.Fatalf("expected checklist snapshot to be carried: %+v", trip.Checklists)
	}
}

func TestCreateTripValidation(t *testing.T) {
	tests := []struct {
		name  string
		input CreateTripInput
		code  apperrors.Code
	}{
		{
			name:  "empty name",
			input: CreateTripInput{DepartureDate: fixedClock()},
			code:  apperrors.CodeTripNameEmpty,
		},
		{
			name:  "missing date",
			input: CreateTripInput{Name: "Sunset Run"},
			code:  apperrors.CodeTripDateMissing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CreateTrip(tt.input, fixedClock, staticID("trip-1"))
			if !apperrors.IsCode(err, tt.code) {
				t.Fatalf("expected code %s, got %v", tt.code, err)
			}
		})
	}
}
